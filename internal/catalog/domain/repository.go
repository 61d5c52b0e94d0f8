package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LaborCode names one row of the labor table.
type LaborCode string

const (
	LaborBase          LaborCode = "base"
	LaborPerPanel      LaborCode = "per_panel"
	LaborPerInverter   LaborCode = "per_inverter"
	LaborBatteryBase   LaborCode = "battery_base"
	LaborBatteryPerKwh LaborCode = "battery_per_kwh"
)

// LaborCodes lists every row a complete labor table carries.
var LaborCodes = []LaborCode{LaborBase, LaborPerPanel, LaborPerInverter, LaborBatteryBase, LaborBatteryPerKwh}

type MultiplierDimension string

const (
	DimensionRoof    MultiplierDimension = "roof"
	DimensionStoreys MultiplierDimension = "storeys"
)

type Repository interface {
	ListOffers(ctx context.Context, db *gorm.DB) ([]HardwareOffer, error)
	UpsertOffer(ctx context.Context, db *gorm.DB, offer HardwareOffer) error
	ListExtras(ctx context.Context, db *gorm.DB) ([]Extra, error)
	UpsertExtra(ctx context.Context, db *gorm.DB, extra Extra) error
	// LoadLaborRates returns nil when any labor row is missing.
	LoadLaborRates(ctx context.Context, db *gorm.DB) (*LaborRates, error)
	UpsertLaborRate(ctx context.Context, db *gorm.DB, id snowflake.ID, code LaborCode, rate LaborRate) error
	UpsertMultiplier(ctx context.Context, db *gorm.DB, id snowflake.ID, dimension MultiplierDimension, key string, factor decimal.Decimal) error
	CurrentVersion(ctx context.Context, db *gorm.DB) (string, error)
	RecordVersion(ctx context.Context, db *gorm.DB, id snowflake.ID, version, note string) error
}
