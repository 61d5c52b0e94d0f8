package config

import (
	"fmt"
	"strings"

	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EngineConfig holds the pricing policy. Money and percentages are strings so
// they decode into exact decimals.
type EngineConfig struct {
	Certificate  CertificateConfig  `mapstructure:"certificate"`
	Heuristics   HeuristicsConfig   `mapstructure:"heuristics"`
	Assumptions  AssumptionsConfig  `mapstructure:"assumptions"`
	TaxRatePct   string             `mapstructure:"tax_rate_pct"`
	Commission   CommissionConfig   `mapstructure:"commission"`
	Conservative ConservativeConfig `mapstructure:"conservative"`
	Rebates      RebatesConfig      `mapstructure:"rebates"`
}

type CertificateConfig struct {
	Price         string `mapstructure:"price"`
	SchemeEndYear int    `mapstructure:"scheme_end_year"`
}

type HeuristicsConfig struct {
	DaytimeFraction float64 `mapstructure:"daytime_fraction"`
	BatteryBuffer   float64 `mapstructure:"battery_buffer"`
	InverterRatio   float64 `mapstructure:"inverter_ratio"`
}

type AssumptionsConfig struct {
	RoundTripEfficiency float64 `mapstructure:"round_trip_efficiency"`
	UsableFraction      float64 `mapstructure:"usable_fraction"`
}

type CommissionConfig struct {
	Type          string `mapstructure:"type"`
	Basis         string `mapstructure:"basis"`
	Value         string `mapstructure:"value"`
	MinimumProfit string `mapstructure:"minimum_profit"`
}

type ConservativeConfig struct {
	LaborContingencyPct        string `mapstructure:"labor_contingency_pct"`
	CertificatePriceHaircutPct string `mapstructure:"certificate_price_haircut_pct"`
}

type RebatesConfig struct {
	FederalBatteryRatePerKwh string                       `mapstructure:"federal_battery_rate_per_kwh"`
	FederalMaxUsableKwh      float64                      `mapstructure:"federal_max_usable_kwh"`
	States                   map[string]StateRebateConfig `mapstructure:"states"`
}

type StateRebateConfig struct {
	RatePerKwh   string  `mapstructure:"rate_per_kwh"`
	MinUsableKwh float64 `mapstructure:"min_usable_kwh"`
	CombinedCap  string  `mapstructure:"combined_cap"`
}

func setEngineDefaults(v *viper.Viper) {
	v.SetDefault("engine.certificate.price", "38.50")
	v.SetDefault("engine.certificate.scheme_end_year", 2031)

	v.SetDefault("engine.heuristics.daytime_fraction", 0.35)
	v.SetDefault("engine.heuristics.battery_buffer", 0.20)
	v.SetDefault("engine.heuristics.inverter_ratio", quotedomain.DefaultInverterRatio)

	v.SetDefault("engine.assumptions.round_trip_efficiency", 0.90)
	v.SetDefault("engine.assumptions.usable_fraction", 0.90)

	v.SetDefault("engine.tax_rate_pct", "10")

	v.SetDefault("engine.commission.type", string(quotedomain.CommissionPercentage))
	v.SetDefault("engine.commission.basis", string(quotedomain.BasisBeforeRebates))
	v.SetDefault("engine.commission.value", "12")
	v.SetDefault("engine.commission.minimum_profit", "800")

	v.SetDefault("engine.conservative.labor_contingency_pct", "10")
	v.SetDefault("engine.conservative.certificate_price_haircut_pct", "10")

	v.SetDefault("engine.rebates.federal_battery_rate_per_kwh", "372")
	v.SetDefault("engine.rebates.federal_max_usable_kwh", 50)
	v.SetDefault("engine.rebates.states", map[string]any{
		"nsw": map[string]any{
			"rate_per_kwh":   "120",
			"min_usable_kwh": 2,
			"combined_cap":   "0",
		},
	})
}

// Policy converts the configuration into the pricing policy used by the
// quote engine.
func (e EngineConfig) Policy() (quotedomain.Policy, error) {
	var p quotedomain.Policy
	var err error

	parse := func(key, raw string) decimal.Decimal {
		if err != nil {
			return decimal.Zero
		}
		if strings.TrimSpace(raw) == "" {
			return decimal.Zero
		}
		d, perr := decimal.NewFromString(strings.TrimSpace(raw))
		if perr != nil {
			err = fmt.Errorf("engine.%s: %w", key, perr)
		}
		return d
	}

	p.CertificatePrice = parse("certificate.price", e.Certificate.Price)
	p.SchemeEndYear = e.Certificate.SchemeEndYear
	p.DaytimeFraction = e.Heuristics.DaytimeFraction
	p.BatteryBuffer = e.Heuristics.BatteryBuffer
	p.InverterRatio = e.Heuristics.InverterRatio
	p.RoundTripEfficiency = e.Assumptions.RoundTripEfficiency
	p.UsableFraction = e.Assumptions.UsableFraction
	p.TaxRatePct = parse("tax_rate_pct", e.TaxRatePct)
	p.Commission = quotedomain.Commission{
		Type:          quotedomain.CommissionType(strings.ToLower(e.Commission.Type)),
		Basis:         quotedomain.CommissionBasis(strings.ToLower(e.Commission.Basis)),
		Value:         parse("commission.value", e.Commission.Value),
		MinimumProfit: parse("commission.minimum_profit", e.Commission.MinimumProfit),
	}
	p.Conservative = quotedomain.ConservativePolicy{
		LaborContingencyPct:        parse("conservative.labor_contingency_pct", e.Conservative.LaborContingencyPct),
		CertificatePriceHaircutPct: parse("conservative.certificate_price_haircut_pct", e.Conservative.CertificatePriceHaircutPct),
	}
	p.Rebates = quotedomain.RebatePolicy{
		FederalBatteryRatePerKwh: parse("rebates.federal_battery_rate_per_kwh", e.Rebates.FederalBatteryRatePerKwh),
		FederalMaxUsableKwh:      e.Rebates.FederalMaxUsableKwh,
		States:                   make(map[string]quotedomain.StateRebate, len(e.Rebates.States)),
	}
	for code, state := range e.Rebates.States {
		p.Rebates.States[strings.ToUpper(code)] = quotedomain.StateRebate{
			RatePerKwh:   parse("rebates.states."+code+".rate_per_kwh", state.RatePerKwh),
			MinUsableKwh: state.MinUsableKwh,
			CombinedCap:  parse("rebates.states."+code+".combined_cap", state.CombinedCap),
		}
	}
	if err != nil {
		return quotedomain.Policy{}, err
	}

	if p.CertificatePrice.IsNegative() {
		return quotedomain.Policy{}, fmt.Errorf("engine.certificate.price must not be negative")
	}
	if p.DaytimeFraction < 0 || p.DaytimeFraction > 1 {
		return quotedomain.Policy{}, fmt.Errorf("engine.heuristics.daytime_fraction must be within [0, 1]")
	}
	if p.BatteryBuffer < 0 {
		return quotedomain.Policy{}, fmt.Errorf("engine.heuristics.battery_buffer must not be negative")
	}
	if err := p.Commission.Validate(); err != nil {
		return quotedomain.Policy{}, fmt.Errorf("engine.commission: %w", err)
	}
	return p, nil
}
