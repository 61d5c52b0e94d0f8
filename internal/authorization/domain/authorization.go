package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"gorm.io/gorm"
)

type Role string

const (
	// RoleSales sees customer views only.
	RoleSales Role = "sales"
	// RoleAnalyst additionally runs internal test quotes with margins and
	// manages package templates.
	RoleAnalyst Role = "analyst"
)

func (r Role) Valid() bool {
	return r == RoleSales || r == RoleAnalyst
}

type APIKey struct {
	ID         snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name       string       `gorm:"column:name"`
	Role       string       `gorm:"column:role"`
	KeyPrefix  string       `gorm:"column:key_prefix;uniqueIndex"`
	KeyHash    string       `gorm:"column:key_hash"`
	Active     bool         `gorm:"column:active"`
	CreatedAt  time.Time    `gorm:"column:created_at"`
	LastUsedAt *time.Time   `gorm:"column:last_used_at"`
}

func (APIKey) TableName() string { return "api_keys" }

// Principal is the authenticated caller of a request.
type Principal struct {
	KeyID string `json:"key_id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, key *APIKey) error
	FindByPrefix(ctx context.Context, db *gorm.DB, prefix string) (*APIKey, error)
	TouchLastUsed(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
}

type Service interface {
	// Issue creates a key and returns its plaintext once.
	Issue(ctx context.Context, name string, role Role) (string, *APIKey, error)
	Authenticate(ctx context.Context, rawKey string) (*Principal, error)
	// Authorize reports whether role may perform method on path.
	Authorize(role Role, path, method string) (bool, error)
}

var (
	ErrInvalidRole    = apperr.Validation("role", "must be sales or analyst")
	ErrInvalidKeyName = apperr.Validation("name", "must not be empty")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
)
