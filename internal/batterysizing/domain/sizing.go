// Package domain holds the usage profile and battery recommendation model.
package domain

import (
	"fmt"
	"strings"

	"github.com/railzwaylabs/solarquote/pkg/apperr"
)

type UsagePattern string

const (
	PatternDay      UsagePattern = "day"
	PatternNight    UsagePattern = "night"
	PatternBalanced UsagePattern = "balanced"
)

// OvernightRatio is the share of daily usage falling outside solar hours.
func (p UsagePattern) OvernightRatio() (float64, error) {
	switch p {
	case PatternNight:
		return 0.60, nil
	case PatternDay:
		return 0.30, nil
	case PatternBalanced:
		return 0.45, nil
	}
	return 0, apperr.Validation("usage_pattern", fmt.Sprintf("unsupported value %q", p))
}

type ChargingWindow string

const (
	ChargeEvening   ChargingWindow = "evening"
	ChargeOvernight ChargingWindow = "overnight"
	ChargeMidday    ChargingWindow = "midday"
	ChargeMorning   ChargingWindow = "morning"
)

// StorageShare is the fraction of a vehicle's daily energy that must come from
// the battery rather than directly from solar.
func (w ChargingWindow) StorageShare() (float64, error) {
	switch w {
	case ChargeEvening, ChargeOvernight:
		return 1, nil
	case ChargeMidday:
		return 0, nil
	case ChargeMorning:
		return 0.5, nil
	}
	return 0, apperr.Validation("charging_window", fmt.Sprintf("unsupported value %q", w))
}

type VehicleTier string

const (
	TierLight     VehicleTier = "light"
	TierAverage   VehicleTier = "average"
	TierHeavy     VehicleTier = "heavy"
	TierVeryHeavy VehicleTier = "very_heavy"
)

// DailyKwh is the assumed vehicle consumption for the tier.
func (t VehicleTier) DailyKwh() (float64, error) {
	switch t {
	case TierLight:
		return 5, nil
	case TierAverage:
		return 10, nil
	case TierHeavy:
		return 15, nil
	case TierVeryHeavy:
		return 20, nil
	}
	return 0, apperr.Validation("vehicle_tier", fmt.Sprintf("unsupported value %q", t))
}

type PoolHeating string

const (
	PoolUnheated       PoolHeating = "none"
	PoolSolarHeated    PoolHeating = "solar"
	PoolHeatPump       PoolHeating = "heat_pump"
	PoolElectricHeated PoolHeating = "electric"
)

// OvernightKwh is the pool's fixed overnight allowance.
func (h PoolHeating) OvernightKwh() (float64, error) {
	switch h {
	case PoolUnheated, PoolSolarHeated:
		return 1.5, nil
	case PoolHeatPump:
		return 4, nil
	case PoolElectricHeated:
		return 6, nil
	}
	return 0, apperr.Validation("pool_heating", fmt.Sprintf("unsupported value %q", h))
}

type ElectricVehicle struct {
	Tier           VehicleTier    `json:"tier"`
	ChargingWindow ChargingWindow `json:"charging_window"`
}

type Pool struct {
	Heating PoolHeating `json:"heating"`
}

type UsageProfile struct {
	DailyUsageKwh float64           `json:"daily_usage_kwh"`
	Pattern       UsagePattern      `json:"pattern"`
	Vehicles      []ElectricVehicle `json:"vehicles,omitempty"`
	Pool          *Pool             `json:"pool,omitempty"`
}

// Normalize lower-cases enum values so JSON callers can send "Balanced".
func (p UsageProfile) Normalize() UsageProfile {
	p.Pattern = UsagePattern(strings.ToLower(strings.TrimSpace(string(p.Pattern))))
	vehicles := make([]ElectricVehicle, 0, len(p.Vehicles))
	for _, v := range p.Vehicles {
		vehicles = append(vehicles, ElectricVehicle{
			Tier:           VehicleTier(strings.ToLower(strings.TrimSpace(string(v.Tier)))),
			ChargingWindow: ChargingWindow(strings.ToLower(strings.TrimSpace(string(v.ChargingWindow)))),
		})
	}
	p.Vehicles = vehicles
	if p.Pool != nil {
		heating := PoolHeating(strings.ToLower(strings.TrimSpace(string(p.Pool.Heating))))
		if heating == "" {
			heating = PoolUnheated
		}
		p.Pool = &Pool{Heating: heating}
	}
	return p
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type ReasoningStep struct {
	Label  string  `json:"label"`
	Kwh    float64 `json:"kwh"`
	Detail string  `json:"detail"`
}

type Recommendation struct {
	RecommendedKwh float64         `json:"recommended_kwh"`
	MinKwh         float64         `json:"min_kwh"`
	MaxKwh         float64         `json:"max_kwh"`
	UnbufferedKwh  float64         `json:"unbuffered_kwh"`
	BufferedKwh    float64         `json:"buffered_kwh"`
	Confidence     Confidence      `json:"confidence"`
	Reasoning      []ReasoningStep `json:"reasoning"`
}

// DefaultCatalog lists the battery capacities sold as discrete products.
var DefaultCatalog = []float64{10, 13.5, 15, 20, 25, 30, 35, 40, 45, 50}

const DefaultBuffer = 0.20

type Settings struct {
	Buffer  float64
	Catalog []float64
}

func DefaultSettings() Settings {
	return Settings{Buffer: DefaultBuffer, Catalog: DefaultCatalog}
}

var (
	ErrInvalidDailyUsage = apperr.Validation("daily_usage_kwh", "must be greater than zero")
	ErrInvalidBuffer     = apperr.Validation("buffer", "must not be negative")
)
