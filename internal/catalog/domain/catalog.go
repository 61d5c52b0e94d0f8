//go:generate mockgen -source=catalog.go -destination=mock/catalog.go -package=mock

package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type OfferKind string

const (
	KindPanel    OfferKind = "panel"
	KindInverter OfferKind = "inverter"
	KindBattery  OfferKind = "battery"
)

func (k OfferKind) Valid() bool {
	switch k {
	case KindPanel, KindInverter, KindBattery:
		return true
	}
	return false
}

type QualityTier string

const (
	TierBudget   QualityTier = "budget"
	TierStandard QualityTier = "standard"
	TierPremium  QualityTier = "premium"
)

// BatterySpec carries the storage characteristics of a battery offer.
type BatterySpec struct {
	UsableFraction      float64 `json:"usable_fraction"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`
}

// HardwareOffer is a priced catalog item. RatedOutput is watts for panels and
// inverters and kWh for batteries.
type HardwareOffer struct {
	ID            snowflake.ID    `json:"id"`
	SKU           string          `json:"sku"`
	Kind          OfferKind       `json:"kind"`
	Manufacturer  string          `json:"manufacturer"`
	Model         string          `json:"model"`
	RatedOutput   float64         `json:"rated_output"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	RetailPrice   decimal.Decimal `json:"retail_price"`
	WarrantyYears int             `json:"warranty_years"`
	QualityTier   QualityTier     `json:"quality_tier"`
	Active        bool            `json:"active"`
	Battery       *BatterySpec    `json:"battery,omitempty"`
}

// Priced reports whether the offer can be sold.
func (o HardwareOffer) Priced() bool {
	return o.Active && o.RetailPrice.IsPositive() && o.RatedOutput > 0
}

// LaborRate pairs the installer cost with the price charged to the customer.
type LaborRate struct {
	Cost  decimal.Decimal `json:"cost"`
	Price decimal.Decimal `json:"price"`
}

func (r LaborRate) Mul(factor decimal.Decimal) LaborRate {
	return LaborRate{Cost: r.Cost.Mul(factor), Price: r.Price.Mul(factor)}
}

func (r LaborRate) Add(other LaborRate) LaborRate {
	return LaborRate{Cost: r.Cost.Add(other.Cost), Price: r.Price.Add(other.Price)}
}

type LaborRates struct {
	Base          LaborRate `json:"base"`
	PerPanel      LaborRate `json:"per_panel"`
	PerInverter   LaborRate `json:"per_inverter"`
	BatteryBase   LaborRate `json:"battery_base"`
	BatteryPerKwh LaborRate `json:"battery_per_kwh"`
	// RoofMultipliers is keyed by roof type (tile, tin, klip_lok, flat).
	RoofMultipliers map[string]decimal.Decimal `json:"roof_multipliers"`
	// StoreyMultipliers is keyed by storey count.
	StoreyMultipliers map[int]decimal.Decimal `json:"storey_multipliers"`
}

type Extra struct {
	ID     snowflake.ID    `json:"id"`
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Cost   decimal.Decimal `json:"cost"`
	Price  decimal.Decimal `json:"price"`
	Active bool            `json:"active"`
}

// Snapshot is a consistent read of everything a quote is priced against.
type Snapshot struct {
	Version string          `json:"version"`
	Offers  []HardwareOffer `json:"offers"`
	Labor   *LaborRates     `json:"labor"`
	Extras  []Extra         `json:"extras"`
}

// Catalog supplies pricing snapshots.
type Catalog interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

var (
	ErrNegativePrice      = errors.New("negative_price")
	ErrMissingLaborRates  = errors.New("missing_labor_rates")
	ErrInvalidRatedOutput = errors.New("invalid_rated_output")
	ErrInvalidKind        = errors.New("invalid_offer_kind")
)
