package service

import (
	"fmt"
	"math"
	"strings"

	catalogdomain "github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"github.com/railzwaylabs/solarquote/internal/quote/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func pct(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(hundred)
}

type laborInput struct {
	installation domain.Installation
	panels       int64
	inverters    int64
	batteryKwh   float64
	mode         domain.PricingMode
	contingency  decimal.Decimal
}

// laborFor prices installation from the labor table. Roof and storey
// multipliers default to one when the table has no entry.
func laborFor(rates *catalogdomain.LaborRates, in laborInput) catalogdomain.LaborRate {
	total := rates.Base.
		Add(rates.PerPanel.Mul(decimal.NewFromInt(in.panels))).
		Add(rates.PerInverter.Mul(decimal.NewFromInt(in.inverters)))
	if in.batteryKwh > 0 {
		total = total.
			Add(rates.BatteryBase).
			Add(rates.BatteryPerKwh.Mul(decimal.NewFromFloat(in.batteryKwh)))
	}

	roof := strings.ToLower(strings.TrimSpace(in.installation.RoofType))
	if m, ok := rates.RoofMultipliers[roof]; ok {
		total = total.Mul(m)
	}
	storeys := in.installation.Storeys
	if storeys == 0 {
		storeys = 1
	}
	if m, ok := rates.StoreyMultipliers[storeys]; ok {
		total = total.Mul(m)
	}

	if in.mode == domain.ModeConservative && in.contingency.IsPositive() {
		total = total.Mul(decimal.NewFromInt(1).Add(pct(in.contingency)))
	}
	return catalogdomain.LaborRate{Cost: total.Cost.Round(2), Price: total.Price.Round(2)}
}

// certificatePrice applies the conservative haircut to the market price.
func certificatePrice(policy domain.Policy, mode domain.PricingMode) decimal.Decimal {
	price := policy.CertificatePrice
	if mode == domain.ModeConservative && policy.Conservative.CertificatePriceHaircutPct.IsPositive() {
		price = price.Mul(decimal.NewFromInt(1).Sub(pct(policy.Conservative.CertificatePriceHaircutPct)))
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price.Round(2)
}

// batteryRebates returns the federal and state battery incentives for usable
// capacity in the given jurisdiction.
func batteryRebates(policy domain.RebatePolicy, jurisdiction string, usableKwh float64) (federal, state decimal.Decimal) {
	federal, state = decimal.Zero, decimal.Zero
	if usableKwh <= 0 {
		return federal, state
	}

	counted := usableKwh
	if policy.FederalMaxUsableKwh > 0 {
		counted = math.Min(counted, policy.FederalMaxUsableKwh)
	}
	federal = policy.FederalBatteryRatePerKwh.Mul(decimal.NewFromFloat(counted)).Round(2)

	rule, ok := policy.States[strings.ToUpper(jurisdiction)]
	if !ok || usableKwh < rule.MinUsableKwh {
		return federal, state
	}
	state = rule.RatePerKwh.Mul(decimal.NewFromFloat(usableKwh)).Round(2)
	if rule.CombinedCap.IsPositive() && federal.Add(state).GreaterThan(rule.CombinedCap) {
		state = decimal.Max(rule.CombinedCap.Sub(federal), decimal.Zero)
	}
	return federal, state
}

func commissionAmount(c domain.Commission, base decimal.Decimal) decimal.Decimal {
	if c.Type == domain.CommissionFixed {
		return c.Value.Round(2)
	}
	if base.IsNegative() {
		return decimal.Zero
	}
	return base.Mul(pct(c.Value)).Round(2)
}

type totalsInput struct {
	subtotal   decimal.Decimal
	wholesale  decimal.Decimal
	rebates    decimal.Decimal
	commission domain.Commission
	taxRatePct decimal.Decimal
}

type totals struct {
	commission     decimal.Decimal
	preRebateTotal decimal.Decimal
	appliedRebates decimal.Decimal
	afterRebates   decimal.Decimal
	tax            decimal.Decimal
	finalPrice     decimal.Decimal
	grossMargin    decimal.Decimal
	marginPct      decimal.Decimal
	violations     []domain.Violation
}

// computeTotals layers commission, the minimum-profit floor, rebates and tax
// over the subtotal. The floor takes precedence over the commission setting.
func computeTotals(in totalsInput) totals {
	var out totals

	base := in.subtotal
	if in.commission.Basis == domain.BasisAfterRebates {
		base = in.subtotal.Sub(decimal.Min(in.rebates, in.subtotal))
	}
	out.commission = commissionAmount(in.commission, base)

	margin := in.subtotal.Add(out.commission).Sub(in.wholesale)
	if margin.IsNegative() {
		out.violations = append(out.violations, domain.Violation{
			Code:    domain.ViolationBelowCost,
			Message: fmt.Sprintf("configured commission prices %s below wholesale cost", margin.Neg().StringFixed(2)),
		})
	}
	floor := in.commission.MinimumProfit
	if margin.LessThan(floor) {
		out.commission = out.commission.Add(floor.Sub(margin))
		out.violations = append(out.violations, domain.Violation{
			Code:    domain.ViolationMinimumProfitApplied,
			Message: fmt.Sprintf("commission raised to keep gross margin at %s", floor.StringFixed(2)),
		})
	}

	out.preRebateTotal = in.subtotal.Add(out.commission)
	out.appliedRebates = in.rebates
	if in.rebates.GreaterThan(out.preRebateTotal) {
		out.appliedRebates = decimal.Max(out.preRebateTotal, decimal.Zero)
		out.violations = append(out.violations, domain.Violation{
			Code:    domain.ViolationRebatesClamped,
			Message: fmt.Sprintf("rebates of %s exceed the system price of %s", in.rebates.StringFixed(2), out.preRebateTotal.StringFixed(2)),
		})
	}

	out.afterRebates = decimal.Max(out.preRebateTotal.Sub(out.appliedRebates), decimal.Zero)
	out.tax = out.afterRebates.Mul(pct(in.taxRatePct)).Round(2)
	out.finalPrice = decimal.Max(out.afterRebates.Add(out.tax), decimal.Zero)

	out.grossMargin = out.preRebateTotal.Sub(in.wholesale)
	out.marginPct = decimal.Zero
	if out.preRebateTotal.IsPositive() {
		out.marginPct = out.grossMargin.Div(out.preRebateTotal).Mul(hundred).Round(2)
	}
	return out
}
