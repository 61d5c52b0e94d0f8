package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	batterydomain "github.com/railzwaylabs/solarquote/internal/batterysizing/domain"
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"gorm.io/datatypes"
)

// Template is a named system configuration sales staff can quote in one step.
type Template struct {
	ID             snowflake.ID   `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name           string         `gorm:"column:name"`
	Slug           string         `gorm:"column:slug;uniqueIndex"`
	Description    *string        `gorm:"column:description"`
	SystemSizeKw   float64        `gorm:"column:system_size_kw"`
	BatterySizeKwh float64        `gorm:"column:battery_size_kwh"`
	PanelID        *int64         `gorm:"column:panel_id"`
	InverterID     *int64         `gorm:"column:inverter_id"`
	BatteryID      *int64         `gorm:"column:battery_id"`
	Extras         datatypes.JSON `gorm:"column:extras"`
	Active         bool           `gorm:"column:active"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (Template) TableName() string { return "package_templates" }

type CreateRequest struct {
	Name           string   `json:"name"`
	Slug           string   `json:"slug,omitempty"`
	Description    *string  `json:"description,omitempty"`
	SystemSizeKw   float64  `json:"system_size_kw"`
	BatterySizeKwh float64  `json:"battery_size_kwh"`
	PanelID        string   `json:"panel_id,omitempty"`
	InverterID     string   `json:"inverter_id,omitempty"`
	BatteryID      string   `json:"battery_id,omitempty"`
	Extras         []string `json:"extras,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}

type ListRequest struct {
	Active *bool
}

type Response struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    *string   `json:"description,omitempty"`
	SystemSizeKw   float64   `json:"system_size_kw"`
	BatterySizeKwh float64   `json:"battery_size_kwh"`
	PanelID        string    `json:"panel_id,omitempty"`
	InverterID     string    `json:"inverter_id,omitempty"`
	BatteryID      string    `json:"battery_id,omitempty"`
	Extras         []string  `json:"extras"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// QuoteRequest prices a template for one site. Installation and usage are
// optional refinements.
type QuoteRequest struct {
	Slug         string                      `json:"-"`
	Site         zonedomain.SiteLocation     `json:"site"`
	Mode         quotedomain.PricingMode     `json:"mode,omitempty"`
	Installation quotedomain.Installation    `json:"installation"`
	Usage        *batterydomain.UsageProfile `json:"usage,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, slug string) (*Response, error)
	QuoteTemplate(ctx context.Context, req QuoteRequest) (*quotedomain.Result, error)
}

var (
	ErrInvalidName       = apperr.Validation("name", "must not be empty")
	ErrInvalidSlug       = apperr.Validation("slug", "must contain letters or digits")
	ErrSlugTaken         = apperr.Validation("slug", "already in use")
	ErrInvalidSystemSize = apperr.Validation("system_size_kw", "must be greater than zero")
	ErrInvalidBattery    = apperr.Validation("battery_size_kwh", "must not be negative")
)
