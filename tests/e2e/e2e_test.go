package e2e

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"goshortlink/identity"
	"goshortlink/repository"
	"goshortlink/server"
	"goshortlink/sessions"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const redirectOrigin = "http://localhost:8080"

type testStack struct {
	engine *gin.Engine
	store  sessions.Engine
	expect *httpexpect.Expect
}

func newStack(t *testing.T) *testStack {
	gin.SetMode(gin.TestMode)
	db := repository.NewInMemoryRepo()
	store := sessions.NewInMemory(time.Hour)
	provider := identity.NewTokenProvider(store, zap.NewNop())
	engine := server.NewRouter(db, provider, zap.NewNop(), redirectOrigin)

	e := httpexpect.WithConfig(httpexpect.Config{
		Client: &http.Client{
			Transport: httpexpect.NewBinder(engine),
			Jar:       httpexpect.NewJar(),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Reporter: httpexpect.NewAssertReporter(t),
	})
	return &testStack{engine: engine, store: store, expect: e}
}

func (s *testStack) login(t *testing.T, ownerID string) string {
	t.Helper()
	token := "token-" + ownerID
	require.NoError(t, s.store.Set(token, ownerID, time.Hour))
	return "Bearer " + token
}

func Test_Server_Health(t *testing.T) {
	s := newStack(t)
	s.expect.GET("/health").
		Expect().
		Status(http.StatusOK).JSON().Object().HasValue("status", "ok")
}

func Test_Anonymous_create_and_redirect_round_trip(t *testing.T) {
	s := newStack(t)

	resp := s.expect.POST("/api/v1/urls").
		WithJSON(map[string]string{"url": "http://example.com/landing"}).
		Expect().
		Status(http.StatusOK).JSON().Object()

	key := resp.Value("key").String().Raw()
	resp.Value("shortUrl").String().IsEqual(redirectOrigin + "/" + key)
	resp.Value("expiresAt").String().NotEmpty()

	s.expect.GET("/" + key).
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("http://example.com/landing")

	// resolution is case-insensitive
	s.expect.GET("/" + strings.ToUpper(key)).
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("http://example.com/landing")

	// unknown keys silently fall back to home
	s.expect.GET("/deadbeef").
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual(redirectOrigin)
}

func Test_Owner_custom_key_and_delete_flow(t *testing.T) {
	s := newStack(t)
	auth := s.login(t, "owner-a")

	s.expect.POST("/api/v1/urls").
		WithHeader("Authorization", auth).
		WithJSON(map[string]string{"url": "http://example.com", "customKey": "promo1"}).
		Expect().
		Status(http.StatusOK).JSON().Object().
		HasValue("key", "promo1")

	s.expect.GET("/PROMO1").
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("http://example.com")

	// another owner cannot delete it, and learns nothing
	otherAuth := s.login(t, "owner-b")
	s.expect.DELETE("/api/v1/urls/promo1").
		WithHeader("Authorization", otherAuth).
		Expect().
		Status(http.StatusNotFound)

	s.expect.GET("/promo1").
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("http://example.com")

	// the owner can
	s.expect.DELETE("/api/v1/urls/promo1").
		WithHeader("Authorization", auth).
		Expect().
		Status(http.StatusOK).JSON().Object().HasValue("success", true)

	s.expect.GET("/promo1").
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual(redirectOrigin)

	// anonymous delete is unauthorized
	s.expect.DELETE("/api/v1/urls/promo1").
		Expect().
		Status(http.StatusUnauthorized)
}

func Test_Claim_flow_is_idempotent(t *testing.T) {
	s := newStack(t)

	// create two links anonymously, remember their keys client-side
	var keys []string
	for i := 0; i < 2; i++ {
		key := s.expect.POST("/api/v1/urls").
			WithJSON(map[string]string{"url": fmt.Sprintf("http://example.com/%d", i)}).
			Expect().
			Status(http.StatusOK).JSON().Object().
			Value("key").String().Raw()
		keys = append(keys, key)
	}

	// claiming without identity is rejected
	s.expect.POST("/api/v1/urls/claim").
		WithJSON(map[string][]string{"shortKeys": keys}).
		Expect().
		Status(http.StatusUnauthorized)

	auth := s.login(t, "owner-a")

	s.expect.POST("/api/v1/urls/claim").
		WithHeader("Authorization", auth).
		WithJSON(map[string][]string{"shortKeys": append(keys, "missing1", "!bad")}).
		Expect().
		Status(http.StatusOK).JSON().Object().
		HasValue("updated", 2)

	// re-claiming the same superset is a safe no-op
	s.expect.POST("/api/v1/urls/claim").
		WithHeader("Authorization", auth).
		WithJSON(map[string][]string{"shortKeys": keys}).
		Expect().
		Status(http.StatusOK).JSON().Object().
		HasValue("updated", 0)

	// the links now show up in the owner's history
	s.expect.GET("/api/v1/urls").
		WithHeader("Authorization", auth).
		Expect().
		Status(http.StatusOK).JSON().Object().
		Value("urls").Array().Length().IsEqual(2)

	// and a different owner cannot steal them
	otherAuth := s.login(t, "owner-b")
	s.expect.POST("/api/v1/urls/claim").
		WithHeader("Authorization", otherAuth).
		WithJSON(map[string][]string{"shortKeys": keys}).
		Expect().
		Status(http.StatusOK).JSON().Object().
		HasValue("updated", 0)
}

func Test_Owner_history_pagination(t *testing.T) {
	s := newStack(t)
	auth := s.login(t, "owner-a")

	for i := 0; i < 12; i++ {
		s.expect.POST("/api/v1/urls").
			WithHeader("Authorization", auth).
			WithJSON(map[string]string{"url": "http://example.com", "customKey": fmt.Sprintf("key-%02d", i)}).
			Expect().
			Status(http.StatusOK)
	}

	wantSizes := []int{5, 5, 2}
	for page, want := range wantSizes {
		obj := s.expect.GET("/api/v1/urls").
			WithHeader("Authorization", auth).
			WithQuery("page", page).
			WithQuery("size", 5).
			Expect().
			Status(http.StatusOK).JSON().Object()
		obj.HasValue("totalPages", 3)
		obj.Value("urls").Array().Length().IsEqual(want)
	}

	// anonymous history is always empty
	obj := s.expect.GET("/api/v1/urls").
		Expect().
		Status(http.StatusOK).JSON().Object()
	obj.HasValue("totalPages", 1)
	obj.Value("urls").Array().IsEmpty()
}

func Test_Concurrent_creates_for_same_custom_key(t *testing.T) {
	s := newStack(t)
	auth := s.login(t, "owner-a")

	client := &http.Client{Transport: httpexpect.NewBinder(s.engine)}
	body := `{"url": "http://example.com", "customKey": "contested"}`

	const n = 10
	codes := make([]int, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, "http://test/api/v1/urls", strings.NewReader(body))
			if err != nil {
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", auth)
			resp, err := client.Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()
			codes[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	created, conflicted := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			created++
		case http.StatusConflict:
			conflicted++
		}
	}
	assert.Equal(t, 1, created, "exactly one creation must win")
	assert.Equal(t, n-1, conflicted, "every loser must observe a conflict")
}
