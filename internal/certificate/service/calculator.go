package service

import (
	"math"
	"time"

	"github.com/railzwaylabs/solarquote/internal/certificate/domain"
	"github.com/shopspring/decimal"
)

type Calculator struct {
	settings domain.Settings
}

func New(settings domain.Settings) *Calculator {
	if settings.SchemeEndYear == 0 {
		settings.SchemeEndYear = domain.DefaultSchemeEndYear
	}
	return &Calculator{settings: settings}
}

// DeemingPeriod returns the years of certificates awarded up front, clamped to
// the scheme bounds.
func (c *Calculator) DeemingPeriod(installedAt time.Time) int {
	years := c.settings.SchemeEndYear - installedAt.Year()
	if years < domain.MinDeemingYears {
		return domain.MinDeemingYears
	}
	if years > domain.MaxDeemingYears {
		return domain.MaxDeemingYears
	}
	return years
}

func (c *Calculator) Calculate(in domain.Input) (domain.Valuation, error) {
	if !(in.SystemSizeKw > 0) || math.IsInf(in.SystemSizeKw, 0) {
		return domain.Valuation{}, domain.ErrInvalidSystemSize
	}
	if !(in.ZoneRating > 0) || math.IsInf(in.ZoneRating, 0) {
		return domain.Valuation{}, domain.ErrInvalidZoneRating
	}
	if in.UnitPrice.IsNegative() {
		return domain.Valuation{}, domain.ErrInvalidUnitPrice
	}
	if in.InstallationDate.IsZero() {
		return domain.Valuation{}, domain.ErrMissingDate
	}

	deeming := c.DeemingPeriod(in.InstallationDate)
	count := certificateCount(in.SystemSizeKw, in.ZoneRating, deeming)

	return domain.Valuation{
		SystemSizeKw:  in.SystemSizeKw,
		ZoneRating:    in.ZoneRating,
		DeemingPeriod: deeming,
		Count:         count,
		UnitPrice:     in.UnitPrice,
		Value:         in.UnitPrice.Mul(decimal.NewFromInt(count)).Round(2),
	}, nil
}

func (c *Calculator) CheckEligibility(list domain.Checklist) domain.Eligibility {
	missing := make([]domain.Requirement, 0, len(domain.Requirements))
	for _, r := range domain.Requirements {
		if !list.Satisfied(r) {
			missing = append(missing, r)
		}
	}
	return domain.Eligibility{
		Eligible: len(missing) == 0,
		Missing:  missing,
	}
}

// certificateCount is evaluated in decimal so products such as 6.6 x 4.5 land
// on the exact certificate boundary instead of a float approximation below it.
func certificateCount(sizeKw, rating float64, deeming int) int64 {
	mwh := decimal.NewFromFloat(sizeKw).
		Mul(decimal.NewFromFloat(rating)).
		Mul(decimal.NewFromInt(int64(deeming))).
		Mul(decimal.NewFromInt(365)).
		Div(decimal.NewFromInt(1000))
	count := mwh.Floor().IntPart()
	if count < 0 {
		return 0
	}
	return count
}
