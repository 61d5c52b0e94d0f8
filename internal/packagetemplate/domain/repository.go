package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, tmpl *Template) error
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Template, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Template, error)
}
