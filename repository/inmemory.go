package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"goshortlink/models"
)

// NewInMemoryRepo returns a Repository backed by a mutex-guarded map. It
// mirrors the postgres implementation's semantics, including insert-time
// uniqueness, so tests can exercise races without a database.
func NewInMemoryRepo() Repository {
	return &inMemoryRepository{links: make(map[string]models.Link)}
}

type inMemoryRepository struct {
	mu    sync.Mutex
	links map[string]models.Link
}

func (m *inMemoryRepository) Create(ctx context.Context, key, originalURL string, ownerID *string, expiresAt *time.Time) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.links[key]; exists {
		return nil, ErrKeyExists
	}
	link := models.Link{
		ShortKey:    key,
		OriginalURL: originalURL,
		OwnerID:     ownerID,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now(),
	}
	m.links[key] = link
	return &link, nil
}

func (m *inMemoryRepository) FindByKey(ctx context.Context, key string) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &link, nil
}

func (m *inMemoryRepository) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Link, int, error) {
	page, pageSize = clampPaging(page, pageSize)

	m.mu.Lock()
	var owned []models.Link
	for _, link := range m.links {
		if link.OwnerID != nil && *link.OwnerID == ownerID {
			owned = append(owned, link)
		}
	}
	m.mu.Unlock()

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	pages := totalPages(int64(len(owned)), pageSize)
	start := page * pageSize
	if start >= len(owned) {
		return []models.Link{}, pages, nil
	}
	end := start + pageSize
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], pages, nil
}

func (m *inMemoryRepository) DeleteByKeyForOwner(ctx context.Context, key, ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[key]
	if !ok || link.OwnerID == nil || *link.OwnerID != ownerID {
		return false, nil
	}
	delete(m.links, key)
	return true, nil
}

func (m *inMemoryRepository) ReassignOwnerBulk(ctx context.Context, keys []string, ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var updated int64
	for _, key := range keys {
		link, ok := m.links[key]
		if !ok || link.OwnerID != nil {
			continue
		}
		owner := ownerID
		link.OwnerID = &owner
		m.links[key] = link
		updated++
	}
	return updated, nil
}

func (m *inMemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	for key, link := range m.links {
		if link.Expired(now) {
			delete(m.links, key)
			purged++
		}
	}
	return purged, nil
}
