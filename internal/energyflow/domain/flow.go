// Package domain describes a single representative day of household energy flow.
package domain

import "github.com/railzwaylabs/solarquote/pkg/apperr"

const (
	DefaultDaytimeFraction     = 0.35
	DefaultRoundTripEfficiency = 0.90
	DefaultUsableFraction      = 0.90
)

type Settings struct {
	// DaytimeFraction is the share of consumption that happens while panels
	// produce. Zero is honoured: all consumption falls overnight.
	DaytimeFraction float64
}

func DefaultSettings() Settings {
	return Settings{DaytimeFraction: DefaultDaytimeFraction}
}

type Battery struct {
	CapacityKwh         float64 `json:"capacity_kwh"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`
	UsableFraction      float64 `json:"usable_fraction"`
}

// UsableKwh is the capacity available for cycling.
func (b Battery) UsableKwh() float64 {
	return b.CapacityKwh * b.UsableFraction
}

type Input struct {
	ProductionKwh  float64  `json:"production_kwh"`
	ConsumptionKwh float64  `json:"consumption_kwh"`
	Battery        *Battery `json:"battery,omitempty"`
}

type Result struct {
	ProductionKwh       float64 `json:"production_kwh"`
	ConsumptionKwh      float64 `json:"consumption_kwh"`
	SelfConsumedKwh     float64 `json:"self_consumed_kwh"`
	ExportedKwh         float64 `json:"exported_kwh"`
	ImportedKwh         float64 `json:"imported_kwh"`
	SelfConsumptionPct  float64 `json:"self_consumption_pct"`
	SelfSufficiencyPct  float64 `json:"self_sufficiency_pct"`
	ExportPct           float64 `json:"export_pct"`
	BatteryChargedKwh   float64 `json:"battery_charged_kwh"`
	BatteryDischargeKwh float64 `json:"battery_discharged_kwh"`
	BatteryCycledPct    float64 `json:"battery_cycled_pct"`
}

var (
	ErrInvalidProduction      = apperr.Validation("production_kwh", "must not be negative")
	ErrInvalidConsumption     = apperr.Validation("consumption_kwh", "must not be negative")
	ErrInvalidCapacity        = apperr.Validation("capacity_kwh", "must not be negative")
	ErrInvalidEfficiency      = apperr.Validation("round_trip_efficiency", "must be within (0, 1]")
	ErrInvalidUsableFraction  = apperr.Validation("usable_fraction", "must be within (0, 1]")
	ErrInvalidDaytimeFraction = apperr.Validation("daytime_fraction", "must be within [0, 1]")
)
