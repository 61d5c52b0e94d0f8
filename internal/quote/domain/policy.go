package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type PricingMode string

const (
	ModeBestCase     PricingMode = "best_case"
	ModeConservative PricingMode = "conservative"
)

func (m PricingMode) Valid() bool {
	return m == ModeBestCase || m == ModeConservative
}

type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFixed      CommissionType = "fixed"
)

type CommissionBasis string

const (
	BasisBeforeRebates CommissionBasis = "before_rebates"
	BasisAfterRebates  CommissionBasis = "after_rebates"
)

// Commission is the sales margin added on top of the hardware, labor and
// extras subtotal. Value is a percentage for CommissionPercentage and an
// amount for CommissionFixed.
type Commission struct {
	Type          CommissionType  `json:"type" mapstructure:"type"`
	Basis         CommissionBasis `json:"basis" mapstructure:"basis"`
	Value         decimal.Decimal `json:"value" mapstructure:"value"`
	MinimumProfit decimal.Decimal `json:"minimum_profit" mapstructure:"minimum_profit"`
}

func (c Commission) Validate() error {
	switch c.Type {
	case CommissionPercentage, CommissionFixed:
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidCommission, c.Type)
	}
	switch c.Basis {
	case BasisBeforeRebates, BasisAfterRebates:
	default:
		return fmt.Errorf("%w: basis %q", ErrInvalidCommission, c.Basis)
	}
	if c.Value.IsNegative() {
		return fmt.Errorf("%w: value is negative", ErrInvalidCommission)
	}
	if c.MinimumProfit.IsNegative() {
		return fmt.Errorf("%w: minimum profit is negative", ErrInvalidCommission)
	}
	return nil
}

// StateRebate is a jurisdiction's battery incentive.
type StateRebate struct {
	RatePerKwh   decimal.Decimal
	MinUsableKwh float64
	// CombinedCap bounds federal plus state; zero means uncapped.
	CombinedCap decimal.Decimal
}

type RebatePolicy struct {
	FederalBatteryRatePerKwh decimal.Decimal
	// FederalMaxUsableKwh caps the usable capacity the federal rebate counts;
	// zero means uncapped.
	FederalMaxUsableKwh float64
	States              map[string]StateRebate
}

type ConservativePolicy struct {
	LaborContingencyPct        decimal.Decimal
	CertificatePriceHaircutPct decimal.Decimal
}

// Policy is the configuration snapshot a single quote is priced with.
type Policy struct {
	CertificatePrice decimal.Decimal
	SchemeEndYear    int
	DaytimeFraction  float64
	BatteryBuffer    float64
	// InverterRatio is the maximum DC to AC oversizing allowed.
	InverterRatio float64
	// Defaults for batteries without a published spec.
	RoundTripEfficiency float64
	UsableFraction      float64
	TaxRatePct          decimal.Decimal
	Commission          Commission
	Conservative        ConservativePolicy
	Rebates             RebatePolicy
}

const DefaultInverterRatio = 1.33

// PolicySource yields the current policy. Each quote reads it once.
type PolicySource interface {
	Current() Policy
}

// StaticPolicy serves a fixed policy.
type StaticPolicy Policy

func (p StaticPolicy) Current() Policy { return Policy(p) }
