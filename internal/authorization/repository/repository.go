package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/solarquote/internal/authorization/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, key *domain.APIKey) error {
	return db.WithContext(ctx).Create(key).Error
}

func (r *repo) FindByPrefix(ctx context.Context, db *gorm.DB, prefix string) (*domain.APIKey, error) {
	var key domain.APIKey
	err := db.WithContext(ctx).Where("key_prefix = ?", prefix).Take(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *repo) TouchLastUsed(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}

// AutoMigrate creates the api key table for the sqlite development driver.
// The casbin adapter manages its own table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.APIKey{})
}
