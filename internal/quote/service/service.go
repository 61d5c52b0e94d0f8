package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	batterydomain "github.com/railzwaylabs/solarquote/internal/batterysizing/domain"
	batteryservice "github.com/railzwaylabs/solarquote/internal/batterysizing/service"
	catalogdomain "github.com/railzwaylabs/solarquote/internal/catalog/domain"
	certdomain "github.com/railzwaylabs/solarquote/internal/certificate/domain"
	certservice "github.com/railzwaylabs/solarquote/internal/certificate/service"
	"github.com/railzwaylabs/solarquote/internal/clock"
	flowdomain "github.com/railzwaylabs/solarquote/internal/energyflow/domain"
	flowservice "github.com/railzwaylabs/solarquote/internal/energyflow/service"
	"github.com/railzwaylabs/solarquote/internal/observability"
	"github.com/railzwaylabs/solarquote/internal/quote/domain"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Catalog  catalogdomain.Catalog
	Policy   domain.PolicySource
	Resolver zonedomain.Resolver
	Clock    clock.Clock
	Log      *zap.Logger
	Metrics  *observability.Metrics `optional:"true"`
}

type Service struct {
	catalog  catalogdomain.Catalog
	policy   domain.PolicySource
	resolver zonedomain.Resolver
	clock    clock.Clock
	log      *zap.Logger
	metrics  *observability.Metrics
}

func NewService(p Params) domain.Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		catalog:  p.Catalog,
		policy:   p.Policy,
		resolver: p.Resolver,
		clock:    p.Clock,
		log:      log.Named("quote.service"),
		metrics:  p.Metrics,
	}
}

func (s *Service) Calculate(ctx context.Context, req domain.Request) (result *domain.Result, err error) {
	started := time.Now()
	ctx, span := otel.Tracer("quote.service").Start(ctx, "quote.calculate")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.observe(ctx, req.Mode, result, err, time.Since(started))
	}()

	policy := s.policy.Current()

	mode, commission, err := validateRequest(req, policy)
	if err != nil {
		return nil, err
	}

	zone, err := s.resolver.Resolve(req.Site)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		if apperr.IsCatalogUnavailable(err) {
			return nil, err
		}
		return nil, apperr.CatalogUnavailable("load snapshot", err)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, apperr.CatalogUnavailable("validate snapshot", err)
	}
	span.SetAttributes(attribute.String("catalog.version", snapshot.Version))

	result, err = s.assemble(ctx, req, policy, mode, commission, zone, snapshot)
	if err != nil {
		return nil, err
	}

	s.log.Debug("quote calculated",
		zap.String("catalog_version", snapshot.Version),
		zap.String("mode", string(mode)),
		zap.Float64("installed_size_kw", result.InstalledSizeKw),
		zap.String("final_price", result.FinalPrice.StringFixed(2)),
		zap.Int("violations", len(result.Violations)),
	)
	return result, nil
}

func (s *Service) observe(ctx context.Context, mode domain.PricingMode, result *domain.Result, err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	if mode == "" {
		mode = domain.ModeBestCase
	}
	if !mode.Valid() {
		mode = "invalid"
	}
	outcome := "ok"
	switch {
	case err == nil:
	case apperr.IsValidation(err):
		outcome = "validation"
	case apperr.IsNotFound(err):
		outcome = "not_found"
	case apperr.IsCatalogUnavailable(err):
		outcome = "catalog_unavailable"
	default:
		outcome = "error"
	}
	var violations []string
	if result != nil {
		for _, v := range result.Violations {
			violations = append(violations, string(v.Code))
		}
	}
	s.metrics.ObserveQuote(ctx, string(mode), outcome, elapsed, violations)
}

func validateRequest(req domain.Request, policy domain.Policy) (domain.PricingMode, domain.Commission, error) {
	if !(req.SystemSizeKw > 0) || math.IsInf(req.SystemSizeKw, 0) {
		return "", domain.Commission{}, domain.ErrInvalidSystemSize
	}
	if req.BatterySizeKwh < 0 || math.IsNaN(req.BatterySizeKwh) || math.IsInf(req.BatterySizeKwh, 0) {
		return "", domain.Commission{}, domain.ErrInvalidBatterySize
	}
	if req.Installation.Storeys < 0 {
		return "", domain.Commission{}, domain.ErrInvalidStoreys
	}

	mode := req.Mode
	if mode == "" {
		mode = domain.ModeBestCase
	}
	if !mode.Valid() {
		return "", domain.Commission{}, domain.ErrInvalidMode
	}

	commission := policy.Commission
	if req.Commission != nil {
		commission = *req.Commission
	}
	if err := commission.Validate(); err != nil {
		return "", domain.Commission{}, err
	}
	return mode, commission, nil
}

func (s *Service) assemble(
	ctx context.Context,
	req domain.Request,
	policy domain.Policy,
	mode domain.PricingMode,
	commission domain.Commission,
	zone zonedomain.Resolution,
	snapshot *catalogdomain.Snapshot,
) (*domain.Result, error) {
	result := &domain.Result{
		CatalogVersion:  snapshot.Version,
		Mode:            mode,
		Zone:            zone,
		RequestedSizeKw: req.SystemSizeKw,
		TaxRatePct:      policy.TaxRatePct,
		Violations:      []domain.Violation{},
	}
	if zone.Approximate {
		result.Violations = append(result.Violations, domain.Violation{
			Code:    domain.ViolationApproximateZone,
			Message: zone.Reason,
		})
	}

	panels, err := selectPanels(snapshot, req.PanelID, req.SystemSizeKw)
	if err != nil {
		return nil, err
	}
	installedW := decimal.NewFromFloat(panels.offer.RatedOutput).Mul(decimal.NewFromInt(panels.quantity))
	result.InstalledSizeKw = installedW.Div(decimal.NewFromInt(1000)).InexactFloat64()

	ratio := policy.InverterRatio
	if ratio <= 0 {
		ratio = domain.DefaultInverterRatio
	}
	minInverterW := installedW.InexactFloat64() / ratio
	inverter, undersized, err := selectInverter(snapshot, req.InverterID, minInverterW)
	if err != nil {
		return nil, err
	}
	if undersized {
		result.Violations = append(result.Violations, domain.Violation{
			Code:    domain.ViolationInverterUndersized,
			Message: fmt.Sprintf("inverter rated %.0f W is below the %.0f W needed for %.2f kW of panels", inverter.offer.RatedOutput, minInverterW, result.InstalledSizeKw),
		})
	}

	lines := []domain.Line{panels.line(), inverter.line()}

	var battery *selection
	if req.BatterySizeKwh > 0 || req.BatteryID != "" {
		sel, err := selectBattery(snapshot, req.BatteryID, req.BatterySizeKwh)
		if err != nil {
			return nil, err
		}
		battery = &sel
		lines = append(lines, sel.line())
		capacity := decimal.NewFromFloat(sel.offer.RatedOutput).Mul(decimal.NewFromInt(sel.quantity))
		result.BatterySizeKwh = capacity.InexactFloat64()
		result.UsableBatteryKwh = round2(result.BatterySizeKwh * usableFraction(sel.offer, policy))
	}

	extras, err := selectExtras(snapshot, req.Extras)
	if err != nil {
		return nil, err
	}
	lines = append(lines, extras...)
	result.Lines = lines

	var hardware, hardwareCost, extrasTotal, extrasCost decimal.Decimal
	for _, l := range lines {
		if l.Kind == "extra" {
			extrasTotal = extrasTotal.Add(l.Total)
			extrasCost = extrasCost.Add(l.TotalCost)
			continue
		}
		hardware = hardware.Add(l.Total)
		hardwareCost = hardwareCost.Add(l.TotalCost)
	}

	labor := laborFor(snapshot.Labor, laborInput{
		installation: req.Installation,
		panels:       panels.quantity,
		inverters:    inverter.quantity,
		batteryKwh:   result.BatterySizeKwh,
		mode:         mode,
		contingency:  policy.Conservative.LaborContingencyPct,
	})

	installedAt := s.installationDate(ctx, req)
	result.InstallationDate = installedAt.Format("2006-01-02")

	certs := certservice.New(certdomain.Settings{SchemeEndYear: policy.SchemeEndYear})
	valuation, err := certs.Calculate(certdomain.Input{
		SystemSizeKw:     result.InstalledSizeKw,
		InstallationDate: installedAt,
		ZoneRating:       zone.Rating,
		UnitPrice:        certificatePrice(policy, mode),
	})
	if err != nil {
		return nil, err
	}
	result.Certificate = valuation

	federal, state := batteryRebates(policy.Rebates, zone.Jurisdiction, result.UsableBatteryKwh)
	rebateTotal := valuation.Value.Add(federal).Add(state)

	subtotal := hardware.Add(labor.Price).Add(extrasTotal)
	wholesale := hardwareCost.Add(labor.Cost).Add(extrasCost)

	t := computeTotals(totalsInput{
		subtotal:   subtotal,
		wholesale:  wholesale,
		rebates:    rebateTotal,
		commission: commission,
		taxRatePct: policy.TaxRatePct,
	})
	result.Violations = append(result.Violations, t.violations...)

	result.Costs = domain.CostBreakdown{
		Hardware:       hardware,
		Labor:          labor.Price,
		Extras:         extrasTotal,
		Subtotal:       subtotal,
		Commission:     t.commission,
		PreRebateTotal: t.preRebateTotal,
	}
	result.Rebates = domain.RebateBreakdown{
		Certificates:   valuation.Value,
		FederalBattery: federal,
		StateBattery:   state,
		Total:          rebateTotal,
		Applied:        t.appliedRebates,
	}
	result.AfterRebates = t.afterRebates
	result.Tax = t.tax
	result.FinalPrice = t.finalPrice
	result.Profit = domain.ProfitBreakdown{
		WholesaleCost: wholesale,
		HardwareCost:  hardwareCost,
		LaborCost:     labor.Cost,
		ExtrasCost:    extrasCost,
		Revenue:       t.preRebateTotal,
		GrossMargin:   t.grossMargin,
		MarginPct:     t.marginPct,
	}

	if req.Usage != nil {
		rec, flows, err := usageOutlook(*req.Usage, policy, result, battery)
		if err != nil {
			return nil, err
		}
		result.BatteryRecommendation = rec
		result.EnergyFlow = flows
	}

	return result, nil
}

func (s *Service) installationDate(ctx context.Context, req domain.Request) time.Time {
	if req.InstallationDate != nil && !req.InstallationDate.IsZero() {
		return req.InstallationDate.UTC()
	}
	now := s.clock.Now(ctx)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// usageOutlook sizes a battery for the household and simulates a typical day
// with and without the quoted battery, using installed size x zone rating as
// daily production.
func usageOutlook(usage batterydomain.UsageProfile, policy domain.Policy, result *domain.Result, battery *selection) (*batterydomain.Recommendation, *domain.EnergyFlows, error) {
	sizer, err := batteryservice.New(batterydomain.Settings{Buffer: policy.BatteryBuffer})
	if err != nil {
		return nil, nil, err
	}
	rec, err := sizer.Recommend(usage)
	if err != nil {
		return nil, nil, err
	}

	simulator, err := flowservice.New(flowdomain.Settings{DaytimeFraction: policy.DaytimeFraction})
	if err != nil {
		return nil, nil, err
	}
	in := flowdomain.Input{
		ProductionKwh:  round2(result.InstalledSizeKw * result.Zone.Rating),
		ConsumptionKwh: usage.DailyUsageKwh,
	}
	without, err := simulator.Simulate(in)
	if err != nil {
		return nil, nil, err
	}
	flows := &domain.EnergyFlows{WithoutBattery: without}

	if battery != nil {
		in.Battery = &flowdomain.Battery{
			CapacityKwh:         result.BatterySizeKwh,
			RoundTripEfficiency: roundTripEfficiency(battery.offer, policy),
			UsableFraction:      usableFraction(battery.offer, policy),
		}
		with, err := simulator.Simulate(in)
		if err != nil {
			return nil, nil, err
		}
		flows.WithBattery = &with
	}
	return &rec, flows, nil
}

func usableFraction(o catalogdomain.HardwareOffer, policy domain.Policy) float64 {
	if o.Battery != nil && o.Battery.UsableFraction > 0 {
		return o.Battery.UsableFraction
	}
	if policy.UsableFraction > 0 {
		return policy.UsableFraction
	}
	return flowdomain.DefaultUsableFraction
}

func roundTripEfficiency(o catalogdomain.HardwareOffer, policy domain.Policy) float64 {
	if o.Battery != nil && o.Battery.RoundTripEfficiency > 0 {
		return o.Battery.RoundTripEfficiency
	}
	if policy.RoundTripEfficiency > 0 {
		return policy.RoundTripEfficiency
	}
	return flowdomain.DefaultRoundTripEfficiency
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsRetryable reports whether a Calculate error may succeed on retry.
func IsRetryable(err error) bool {
	var unavailable *apperr.CatalogUnavailableError
	return errors.As(err, &unavailable) && unavailable.Retryable()
}
