package domain

import (
	"context"
	"errors"
	"time"

	batterydomain "github.com/railzwaylabs/solarquote/internal/batterysizing/domain"
	certdomain "github.com/railzwaylabs/solarquote/internal/certificate/domain"
	flowdomain "github.com/railzwaylabs/solarquote/internal/energyflow/domain"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"github.com/shopspring/decimal"
)

type Installation struct {
	RoofType string `json:"roof_type"`
	Storeys  int    `json:"storeys"`
}

// Request describes the system to price. InstallationDate defaults to today.
type Request struct {
	Site             zonedomain.SiteLocation     `json:"site"`
	SystemSizeKw     float64                     `json:"system_size_kw"`
	BatterySizeKwh   float64                     `json:"battery_size_kwh"`
	PanelID          string                      `json:"panel_id,omitempty"`
	InverterID       string                      `json:"inverter_id,omitempty"`
	BatteryID        string                      `json:"battery_id,omitempty"`
	Extras           []string                    `json:"extras,omitempty"`
	Installation     Installation                `json:"installation"`
	InstallationDate *time.Time                  `json:"installation_date,omitempty"`
	Mode             PricingMode                 `json:"mode,omitempty"`
	Commission       *Commission                 `json:"commission,omitempty"`
	Usage            *batterydomain.UsageProfile `json:"usage,omitempty"`
}

type Line struct {
	Kind        string          `json:"kind"`
	OfferID     string          `json:"offer_id"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

type CostBreakdown struct {
	Hardware       decimal.Decimal `json:"hardware"`
	Labor          decimal.Decimal `json:"labor"`
	Extras         decimal.Decimal `json:"extras"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Commission     decimal.Decimal `json:"commission"`
	PreRebateTotal decimal.Decimal `json:"pre_rebate_total"`
}

type RebateBreakdown struct {
	Certificates   decimal.Decimal `json:"certificates"`
	FederalBattery decimal.Decimal `json:"federal_battery"`
	StateBattery   decimal.Decimal `json:"state_battery"`
	Total          decimal.Decimal `json:"total"`
	Applied        decimal.Decimal `json:"applied"`
}

type ProfitBreakdown struct {
	WholesaleCost decimal.Decimal `json:"wholesale_cost"`
	HardwareCost  decimal.Decimal `json:"hardware_cost"`
	LaborCost     decimal.Decimal `json:"labor_cost"`
	ExtrasCost    decimal.Decimal `json:"extras_cost"`
	Revenue       decimal.Decimal `json:"revenue"`
	GrossMargin   decimal.Decimal `json:"gross_margin"`
	MarginPct     decimal.Decimal `json:"margin_pct"`
}

type ViolationCode string

const (
	ViolationBelowCost            ViolationCode = "below_cost"
	ViolationMinimumProfitApplied ViolationCode = "minimum_profit_applied"
	ViolationInverterUndersized   ViolationCode = "inverter_undersized"
	ViolationApproximateZone      ViolationCode = "approximate_zone"
	ViolationRebatesClamped       ViolationCode = "rebates_clamped"
)

// Violation is a soft policy breach. The quote is still produced.
type Violation struct {
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

type EnergyFlows struct {
	WithoutBattery flowdomain.Result  `json:"without_battery"`
	WithBattery    *flowdomain.Result `json:"with_battery,omitempty"`
}

type Result struct {
	CatalogVersion        string                        `json:"catalog_version"`
	Mode                  PricingMode                   `json:"mode"`
	InstallationDate      string                        `json:"installation_date"`
	Zone                  zonedomain.Resolution         `json:"zone"`
	RequestedSizeKw       float64                       `json:"requested_size_kw"`
	InstalledSizeKw       float64                       `json:"installed_size_kw"`
	BatterySizeKwh        float64                       `json:"battery_size_kwh"`
	UsableBatteryKwh      float64                       `json:"usable_battery_kwh"`
	Lines                 []Line                        `json:"lines"`
	Costs                 CostBreakdown                 `json:"costs"`
	Certificate           certdomain.Valuation          `json:"certificate"`
	Rebates               RebateBreakdown               `json:"rebates"`
	AfterRebates          decimal.Decimal               `json:"after_rebates"`
	TaxRatePct            decimal.Decimal               `json:"tax_rate_pct"`
	Tax                   decimal.Decimal               `json:"tax"`
	FinalPrice            decimal.Decimal               `json:"final_price"`
	Profit                ProfitBreakdown               `json:"profit"`
	Violations            []Violation                   `json:"violations"`
	BatteryRecommendation *batterydomain.Recommendation `json:"battery_recommendation,omitempty"`
	EnergyFlow            *EnergyFlows                  `json:"energy_flow,omitempty"`
}

// HasViolation reports whether code was raised.
func (r *Result) HasViolation(code ViolationCode) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// CustomerView is the result with internal margin figures removed.
type CustomerView struct {
	CatalogVersion        string                        `json:"catalog_version"`
	Mode                  PricingMode                   `json:"mode"`
	InstallationDate      string                        `json:"installation_date"`
	Zone                  zonedomain.Resolution         `json:"zone"`
	InstalledSizeKw       float64                       `json:"installed_size_kw"`
	BatterySizeKwh        float64                       `json:"battery_size_kwh"`
	Lines                 []CustomerLine                `json:"lines"`
	PreRebateTotal        decimal.Decimal               `json:"pre_rebate_total"`
	Certificate           certdomain.Valuation          `json:"certificate"`
	Rebates               RebateBreakdown               `json:"rebates"`
	AfterRebates          decimal.Decimal               `json:"after_rebates"`
	Tax                   decimal.Decimal               `json:"tax"`
	FinalPrice            decimal.Decimal               `json:"final_price"`
	BatteryRecommendation *batterydomain.Recommendation `json:"battery_recommendation,omitempty"`
	EnergyFlow            *EnergyFlows                  `json:"energy_flow,omitempty"`
}

type CustomerLine struct {
	Kind        string `json:"kind"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
}

func (r *Result) CustomerView() CustomerView {
	lines := make([]CustomerLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, CustomerLine{Kind: l.Kind, SKU: l.SKU, Description: l.Description, Quantity: l.Quantity})
	}
	return CustomerView{
		CatalogVersion:        r.CatalogVersion,
		Mode:                  r.Mode,
		InstallationDate:      r.InstallationDate,
		Zone:                  r.Zone,
		InstalledSizeKw:       r.InstalledSizeKw,
		BatterySizeKwh:        r.BatterySizeKwh,
		Lines:                 lines,
		PreRebateTotal:        r.Costs.PreRebateTotal,
		Certificate:           r.Certificate,
		Rebates:               r.Rebates,
		AfterRebates:          r.AfterRebates,
		Tax:                   r.Tax,
		FinalPrice:            r.FinalPrice,
		BatteryRecommendation: r.BatteryRecommendation,
		EnergyFlow:            r.EnergyFlow,
	}
}

type Service interface {
	Calculate(ctx context.Context, req Request) (*Result, error)
}

var (
	ErrInvalidSystemSize  = apperr.Validation("system_size_kw", "must be greater than zero")
	ErrInvalidBatterySize = apperr.Validation("battery_size_kwh", "must not be negative")
	ErrInvalidMode        = apperr.Validation("mode", "must be best_case or conservative")
	ErrInvalidStoreys     = apperr.Validation("storeys", "must not be negative")
	ErrInvalidCommission  = apperr.Validation("commission", "invalid configuration")

	ErrNoViableInverter = errors.New("no_viable_inverter")
)
