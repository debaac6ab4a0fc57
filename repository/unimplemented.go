package repository

import (
	"context"
	"errors"
	"time"

	"goshortlink/models"
)

var errUnimplemented = errors.New("unimplemented")

// UnimplementedRepository is meant to be embedded in test doubles so they
// only have to override the methods under test.
type UnimplementedRepository struct{}

func (UnimplementedRepository) Create(ctx context.Context, key, originalURL string, ownerID *string, expiresAt *time.Time) (*models.Link, error) {
	return nil, errUnimplemented
}

func (UnimplementedRepository) FindByKey(ctx context.Context, key string) (*models.Link, error) {
	return nil, errUnimplemented
}

func (UnimplementedRepository) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Link, int, error) {
	return nil, 0, errUnimplemented
}

func (UnimplementedRepository) DeleteByKeyForOwner(ctx context.Context, key, ownerID string) (bool, error) {
	return false, errUnimplemented
}

func (UnimplementedRepository) ReassignOwnerBulk(ctx context.Context, keys []string, ownerID string) (int64, error) {
	return 0, errUnimplemented
}

func (UnimplementedRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, errUnimplemented
}
