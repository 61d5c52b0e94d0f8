package repository

import (
	"context"
	"errors"

	"github.com/railzwaylabs/solarquote/internal/packagetemplate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, tmpl *domain.Template) error {
	return db.WithContext(ctx).Create(tmpl).Error
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Template, error) {
	var tmpl domain.Template
	err := db.WithContext(ctx).Where("slug = ?", slug).Take(&tmpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Template, error) {
	var items []domain.Template
	stmt := db.WithContext(ctx).Model(&domain.Template{})
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	if err := stmt.Order("name ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AutoMigrate creates the templates table for the sqlite development driver.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Template{})
}
