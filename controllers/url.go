package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"goshortlink/claim"
	"goshortlink/identity"
	"goshortlink/models"
	"goshortlink/repository"
	"goshortlink/resolver"
	"goshortlink/shortkey"
	"goshortlink/urlcheck"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// anonymous submissions always expire, regardless of requested expiry
	anonymousExpiry = 30 * 24 * time.Hour

	// bounded retry for the generated-key path on collision
	maxGenerateAttempts = 5
)

type UrlController struct {
	DB             repository.Repository
	Log            *zap.Logger
	Identity       identity.Provider
	Claimer        *claim.Engine
	Resolver       *resolver.Resolver
	RedirectOrigin string
}

type uploadReqData struct {
	Url       string `json:"url"`
	CustomKey string `json:"customKey"`
	ExpiresAt string `json:"expiresAt"`
}

type linkRespData struct {
	Key       string     `json:"key"`
	ShortUrl  string     `json:"shortUrl"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Upload creates a short link.
//
// Anonymous callers get a generated key and a forced 30-day expiry: a
// custom key or expiry in the request is still validated, but only owners
// may actually use them.
func (u UrlController) Upload(c *gin.Context) {
	var req uploadReqData
	if err := c.BindJSON(&req); err != nil {
		u.Log.Warn("invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := urlcheck.Validate(req.Url); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
		return
	}

	customKey := ""
	if req.CustomKey != "" {
		customKey = shortkey.Normalize(req.CustomKey)
		if err := shortkey.Validate(customKey); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid custom key: %s", err)})
			return
		}
	}

	ownerID, authed := u.Identity.OwnerID(c.Request)

	var owner *string
	var expiresAt *time.Time
	if authed {
		owner = &ownerID
		if req.ExpiresAt != "" {
			parsed, err := urlcheck.ParseExpiry(req.ExpiresAt, time.Now())
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiry"})
				return
			}
			expiresAt = &parsed
		}
	} else {
		exp := time.Now().Add(anonymousExpiry)
		expiresAt = &exp
	}

	var link *models.Link
	var err error
	if authed && customKey != "" {
		link, err = u.DB.Create(c.Request.Context(), customKey, req.Url, owner, expiresAt)
		if errors.Is(err, repository.ErrKeyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "short key exists"})
			return
		}
	} else {
		link, err = u.createWithGeneratedKey(c, req.Url, owner, expiresAt)
	}
	if err != nil {
		u.Log.Error("failed to create link", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, linkRespData{
		Key:       link.ShortKey,
		ShortUrl:  fmt.Sprintf("%s/%s", u.RedirectOrigin, link.ShortKey),
		ExpiresAt: link.ExpiresAt,
	})
}

// createWithGeneratedKey retries generation a handful of times on
// collision; uniqueness itself is the store's unique constraint.
func (u UrlController) createWithGeneratedKey(c *gin.Context, originalURL string, owner *string, expiresAt *time.Time) (*models.Link, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		key, err := shortkey.Generate()
		if err != nil {
			return nil, err
		}
		link, err := u.DB.Create(c.Request.Context(), key, originalURL, owner, expiresAt)
		if errors.Is(err, repository.ErrKeyExists) {
			u.Log.Debug("generated key collided, retrying", zap.String("key", key))
			continue
		}
		return link, err
	}
	return nil, fmt.Errorf("could not allocate a key after %d attempts", maxGenerateAttempts)
}

// List returns the caller's link history, newest first. History is
// owner-scoped only: anonymous callers get an empty page, not an error.
func (u UrlController) List(c *gin.Context) {
	ownerID, authed := u.Identity.OwnerID(c.Request)
	if !authed {
		c.JSON(http.StatusOK, gin.H{"urls": []models.Link{}, "totalPages": 1})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, err := strconv.Atoi(c.DefaultQuery("size", ""))
	if err != nil || size == 0 {
		size = repository.DefaultPageSize
	}

	links, pages, err := u.DB.ListByOwner(c.Request.Context(), ownerID, page, size)
	if err != nil {
		u.Log.Error("failed to list links", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"urls": links, "totalPages": pages})
}

// Delete removes the caller's own link. Not-found and not-owned are the
// same answer so the endpoint cannot be used to probe other people's keys.
func (u UrlController) Delete(c *gin.Context) {
	ownerID, authed := u.Identity.OwnerID(c.Request)
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	key := shortkey.Normalize(c.Param("url_id"))
	if err := shortkey.Validate(key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid short key"})
		return
	}

	deleted, err := u.DB.DeleteByKeyForOwner(c.Request.Context(), key, ownerID)
	if err != nil {
		u.Log.Error("failed to delete link", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "url not found or not owned"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type claimReqData struct {
	ShortKeys []string `json:"shortKeys"`
}

// Claim transfers the still-anonymous links among the submitted keys to
// the caller. Safe to call with a superset; re-claiming is a no-op.
func (u UrlController) Claim(c *gin.Context) {
	ownerID, authed := u.Identity.OwnerID(c.Request)
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req claimReqData
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updated, err := u.Claimer.Claim(c.Request.Context(), req.ShortKeys, ownerID)
	if err != nil {
		u.Log.Error("failed to claim links", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Redirect sends the visitor to the link target, or to the home origin
// when the key cannot be honored. The fallback is deliberate: no error
// page, no hint whether the key ever existed.
func (u UrlController) Redirect(c *gin.Context) {
	target, ok := u.Resolver.Resolve(c.Request.Context(), c.Param("url_id"))
	if !ok {
		c.Redirect(http.StatusFound, u.RedirectOrigin)
		return
	}
	c.Redirect(http.StatusFound, target)
}
