package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	catalogdomain "github.com/railzwaylabs/solarquote/internal/catalog/domain"
	catalogmock "github.com/railzwaylabs/solarquote/internal/catalog/domain/mock"
	"github.com/railzwaylabs/solarquote/internal/clock"
	"github.com/railzwaylabs/solarquote/internal/quote/domain"
	"github.com/railzwaylabs/solarquote/internal/quote/service"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
	zoneservice "github.com/railzwaylabs/solarquote/internal/rebatezone/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func rate(cost, price string) catalogdomain.LaborRate {
	return catalogdomain.LaborRate{Cost: dec(cost), Price: dec(price)}
}

func testSnapshot() *catalogdomain.Snapshot {
	return &catalogdomain.Snapshot{
		Version: "2026-03-a",
		Offers: []catalogdomain.HardwareOffer{
			{ID: 101, SKU: "PNL-440", Kind: catalogdomain.KindPanel, Manufacturer: "Sunfield", Model: "SF440", RatedOutput: 440, UnitCost: dec("120"), RetailPrice: dec("180"), WarrantyYears: 25, QualityTier: catalogdomain.TierPremium, Active: true},
			{ID: 102, SKU: "PNL-400", Kind: catalogdomain.KindPanel, Manufacturer: "Budgetsol", Model: "B400", RatedOutput: 400, UnitCost: dec("100"), RetailPrice: dec("150"), WarrantyYears: 12, QualityTier: catalogdomain.TierBudget, Active: true},
			{ID: 201, SKU: "INV-5K", Kind: catalogdomain.KindInverter, Manufacturer: "Wattline", Model: "W5000", RatedOutput: 5000, UnitCost: dec("900"), RetailPrice: dec("1300"), WarrantyYears: 10, QualityTier: catalogdomain.TierStandard, Active: true},
			{ID: 202, SKU: "INV-6K", Kind: catalogdomain.KindInverter, Manufacturer: "Wattline", Model: "W6000", RatedOutput: 6000, UnitCost: dec("1000"), RetailPrice: dec("1500"), WarrantyYears: 10, QualityTier: catalogdomain.TierStandard, Active: true},
			{ID: 203, SKU: "INV-3K", Kind: catalogdomain.KindInverter, Manufacturer: "Wattline", Model: "W3000", RatedOutput: 3000, UnitCost: dec("500"), RetailPrice: dec("700"), WarrantyYears: 10, QualityTier: catalogdomain.TierBudget, Active: true},
			{ID: 301, SKU: "BAT-13.5", Kind: catalogdomain.KindBattery, Manufacturer: "Stora", Model: "S13", RatedOutput: 13.5, UnitCost: dec("7000"), RetailPrice: dec("9500"), WarrantyYears: 10, QualityTier: catalogdomain.TierPremium, Active: true,
				Battery: &catalogdomain.BatterySpec{UsableFraction: 0.96, RoundTripEfficiency: 0.9}},
			{ID: 302, SKU: "BAT-10", Kind: catalogdomain.KindBattery, Manufacturer: "Stora", Model: "S10", RatedOutput: 10, UnitCost: dec("5000"), RetailPrice: dec("7000"), WarrantyYears: 10, QualityTier: catalogdomain.TierStandard, Active: true},
			{ID: 303, SKU: "BAT-OLD", Kind: catalogdomain.KindBattery, Manufacturer: "Stora", Model: "S5", RatedOutput: 5, UnitCost: dec("2000"), RetailPrice: dec("3000"), Active: false},
		},
		Labor: &catalogdomain.LaborRates{
			Base:          rate("400", "600"),
			PerPanel:      rate("30", "50"),
			PerInverter:   rate("100", "150"),
			BatteryBase:   rate("300", "500"),
			BatteryPerKwh: rate("20", "40"),
			RoofMultipliers: map[string]decimal.Decimal{
				"tin":  dec("1"),
				"tile": dec("1.1"),
			},
			StoreyMultipliers: map[int]decimal.Decimal{
				1: dec("1"),
				2: dec("1.15"),
			},
		},
		Extras: []catalogdomain.Extra{
			{ID: 401, Code: "monitoring", Name: "Consumption monitoring", Cost: dec("100"), Price: dec("250"), Active: true},
			{ID: 402, Code: "backup_gateway", Name: "Backup gateway", Cost: dec("400"), Price: dec("900"), Active: false},
		},
	}
}

func testPolicy() domain.Policy {
	return domain.Policy{
		CertificatePrice:    dec("38.50"),
		SchemeEndYear:       2031,
		DaytimeFraction:     0.35,
		BatteryBuffer:       0.20,
		InverterRatio:       1.33,
		RoundTripEfficiency: 0.90,
		UsableFraction:      0.90,
		TaxRatePct:          dec("10"),
		Commission: domain.Commission{
			Type:          domain.CommissionPercentage,
			Basis:         domain.BasisBeforeRebates,
			Value:         dec("10"),
			MinimumProfit: dec("500"),
		},
		Conservative: domain.ConservativePolicy{
			LaborContingencyPct:        dec("15"),
			CertificatePriceHaircutPct: dec("10"),
		},
		Rebates: domain.RebatePolicy{
			FederalBatteryRatePerKwh: dec("372"),
			FederalMaxUsableKwh:      50,
			States: map[string]domain.StateRebate{
				"NSW": {RatePerKwh: dec("100"), MinUsableKwh: 5, CombinedCap: dec("5000")},
			},
		},
	}
}

func zoneSite(jurisdiction, postcode string) zonedomain.SiteLocation {
	return zonedomain.SiteLocation{Jurisdiction: jurisdiction, Postcode: postcode}
}

var installDay = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func baseRequest() domain.Request {
	return domain.Request{
		Site:         zoneSite("NSW", "2000"),
		SystemSizeKw: 6.6,
		PanelID:      "101",
		Installation: domain.Installation{RoofType: "tin", Storeys: 1},
	}
}

type harness struct {
	svc     domain.Service
	catalog *catalogmock.MockCatalog
}

func newHarness(t *testing.T, policy domain.Policy) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	catalog := catalogmock.NewMockCatalog(ctrl)

	svc := service.NewService(service.Params{
		Catalog:  catalog,
		Policy:   domain.StaticPolicy(policy),
		Resolver: zoneservice.New(),
		Clock:    clock.Fixed(installDay.Add(9 * time.Hour)),
		Log:      zap.NewNop(),
	})
	return &harness{svc: svc, catalog: catalog}
}

func (h *harness) withSnapshot(s *catalogdomain.Snapshot) *harness {
	h.catalog.EXPECT().Snapshot(gomock.Any()).Return(s, nil).AnyTimes()
	return h
}

func (h *harness) calculate(req domain.Request) (*domain.Result, error) {
	return h.svc.Calculate(context.Background(), req)
}
