package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goshortlink/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresRepo connects to postgres and migrates the links table. The
// short-key primary key is the uniqueness constraint that Create relies on.
func NewPostgresRepo(port int, host, dbuser, dbname, password string) (Repository, error) {
	args := fmt.Sprintf("host=%s port=%v user=%s dbname=%s password=%s",
		host, port, dbuser, dbname, password)
	db, err := gorm.Open(postgres.Open(args), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Link{}); err != nil {
		return nil, err
	}
	return &postgresRepository{db: db}, nil
}

// NewPostgresRepoWith is just for testing purposes (no calling AutoMigrate()).
func NewPostgresRepoWith(dial gorm.Dialector, cfg gorm.Config) (Repository, error) {
	db, err := gorm.Open(dial, &cfg)
	return &postgresRepository{db: db}, err
}

type postgresRepository struct {
	db *gorm.DB
}

func (p *postgresRepository) Create(ctx context.Context, key, originalURL string, ownerID *string, expiresAt *time.Time) (*models.Link, error) {
	link := models.Link{
		ShortKey:    key,
		OriginalURL: originalURL,
		OwnerID:     ownerID,
		ExpiresAt:   expiresAt,
	}
	if err := p.db.WithContext(ctx).Create(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrKeyExists
		}
		return nil, err
	}
	return &link, nil
}

func (p *postgresRepository) FindByKey(ctx context.Context, key string) (*models.Link, error) {
	var link models.Link
	if err := p.db.WithContext(ctx).
		Where("short_key = ?", key).
		Take(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (p *postgresRepository) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Link, int, error) {
	page, pageSize = clampPaging(page, pageSize)

	var count int64
	if err := p.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var links []models.Link
	if err := p.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&links).Error; err != nil {
		return nil, 0, err
	}
	return links, totalPages(count, pageSize), nil
}

func (p *postgresRepository) DeleteByKeyForOwner(ctx context.Context, key, ownerID string) (bool, error) {
	res := p.db.WithContext(ctx).
		Where("short_key = ? AND owner_id = ?", key, ownerID).
		Delete(&models.Link{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (p *postgresRepository) ReassignOwnerBulk(ctx context.Context, keys []string, ownerID string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	res := p.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("short_key IN ? AND owner_id IS NULL", keys).
		Update("owner_id", ownerID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (p *postgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := p.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&models.Link{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
