package repository

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type offerRow struct {
	ID            snowflake.ID    `gorm:"column:id;primaryKey;autoIncrement:false"`
	SKU           string          `gorm:"column:sku;uniqueIndex"`
	Kind          string          `gorm:"column:kind"`
	Manufacturer  string          `gorm:"column:manufacturer"`
	Model         string          `gorm:"column:model"`
	RatedOutput   decimal.Decimal `gorm:"column:rated_output;type:numeric(12,3)"`
	UnitCost      decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2)"`
	RetailPrice   decimal.Decimal `gorm:"column:retail_price;type:numeric(12,2)"`
	WarrantyYears int             `gorm:"column:warranty_years"`
	QualityTier   string          `gorm:"column:quality_tier"`
	Active        bool            `gorm:"column:active"`
	BatterySpec   datatypes.JSON  `gorm:"column:battery_spec"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (offerRow) TableName() string { return "hardware_offers" }

type laborRateRow struct {
	ID        snowflake.ID    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Code      string          `gorm:"column:code;uniqueIndex"`
	Cost      decimal.Decimal `gorm:"column:cost;type:numeric(12,2)"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (laborRateRow) TableName() string { return "labor_rates" }

type multiplierRow struct {
	ID        snowflake.ID    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Dimension string          `gorm:"column:dimension;uniqueIndex:idx_labor_multiplier"`
	Key       string          `gorm:"column:key;uniqueIndex:idx_labor_multiplier"`
	Factor    decimal.Decimal `gorm:"column:factor;type:numeric(6,3)"`
}

func (multiplierRow) TableName() string { return "labor_multipliers" }

type extraRow struct {
	ID        snowflake.ID    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Code      string          `gorm:"column:code;uniqueIndex"`
	Name      string          `gorm:"column:name"`
	Cost      decimal.Decimal `gorm:"column:cost;type:numeric(12,2)"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Active    bool            `gorm:"column:active"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (extraRow) TableName() string { return "extras" }

type versionRow struct {
	ID          snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false"`
	Version     string       `gorm:"column:version;uniqueIndex"`
	Note        string       `gorm:"column:note"`
	ActivatedAt time.Time    `gorm:"column:activated_at"`
}

func (versionRow) TableName() string { return "catalog_versions" }

// AutoMigrate creates the catalog tables on databases the SQL migrations do
// not target, such as the sqlite development driver.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&offerRow{}, &laborRateRow{}, &multiplierRow{}, &extraRow{}, &versionRow{})
}
