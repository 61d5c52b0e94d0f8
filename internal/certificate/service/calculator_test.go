package service

import (
	"testing"
	"time"

	"github.com/railzwaylabs/solarquote/internal/certificate/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int) time.Time {
	return time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
}

func TestCalculateScenario(t *testing.T) {
	calc := New(domain.Settings{SchemeEndYear: 2031})

	val, err := calc.Calculate(domain.Input{
		SystemSizeKw:     6.6,
		InstallationDate: date(2026),
		ZoneRating:       4.5,
		UnitPrice:        decimal.RequireFromString("38.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, val.DeemingPeriod)
	assert.Equal(t, int64(54), val.Count)
	assert.Equal(t, "2079.00", val.Value.StringFixed(2))
}

func TestDeemingPeriodClamped(t *testing.T) {
	calc := New(domain.Settings{SchemeEndYear: 2031})

	tests := []struct {
		year int
		want int
	}{
		{year: 1900, want: 15},
		{year: 2016, want: 15},
		{year: 2017, want: 14},
		{year: 2030, want: 1},
		{year: 2031, want: 1},
		{year: 2100, want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, calc.DeemingPeriod(date(tt.year)), "year %d", tt.year)
	}
}

func TestCalculateExtremeYearsStayBounded(t *testing.T) {
	calc := New(domain.DefaultSettings())
	for year := 1; year <= 9999; year += 97 {
		val, err := calc.Calculate(domain.Input{
			SystemSizeKw:     10,
			InstallationDate: date(year),
			ZoneRating:       5.2,
			UnitPrice:        decimal.NewFromInt(40),
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, val.DeemingPeriod, domain.MinDeemingYears)
		assert.LessOrEqual(t, val.DeemingPeriod, domain.MaxDeemingYears)
		assert.GreaterOrEqual(t, val.Count, int64(0))
		assert.LessOrEqual(t, val.Count, int64(284)) // 10 x 5.2 x 15 x 365 / 1000
	}
}

func TestCalculateValidation(t *testing.T) {
	calc := New(domain.DefaultSettings())
	base := domain.Input{SystemSizeKw: 5, InstallationDate: date(2026), ZoneRating: 4.5, UnitPrice: decimal.NewFromInt(38)}

	zeroSize := base
	zeroSize.SystemSizeKw = 0
	_, err := calc.Calculate(zeroSize)
	assert.ErrorIs(t, err, domain.ErrInvalidSystemSize)
	assert.True(t, apperr.IsValidation(err))

	negativeSize := base
	negativeSize.SystemSizeKw = -3
	_, err = calc.Calculate(negativeSize)
	assert.ErrorIs(t, err, domain.ErrInvalidSystemSize)

	noRating := base
	noRating.ZoneRating = 0
	_, err = calc.Calculate(noRating)
	assert.ErrorIs(t, err, domain.ErrInvalidZoneRating)

	negativePrice := base
	negativePrice.UnitPrice = decimal.NewFromInt(-1)
	_, err = calc.Calculate(negativePrice)
	assert.ErrorIs(t, err, domain.ErrInvalidUnitPrice)

	noDate := base
	noDate.InstallationDate = time.Time{}
	_, err = calc.Calculate(noDate)
	assert.ErrorIs(t, err, domain.ErrMissingDate)
}

func TestCheckEligibility(t *testing.T) {
	calc := New(domain.DefaultSettings())

	all := calc.CheckEligibility(domain.Checklist{
		HardwareValidated:           true,
		ComplianceCertificateIssued: true,
		CustomerDeclarationSigned:   true,
		PhotographicEvidence:        true,
	})
	assert.True(t, all.Eligible)
	assert.Empty(t, all.Missing)

	partial := calc.CheckEligibility(domain.Checklist{
		HardwareValidated:         true,
		CustomerDeclarationSigned: true,
	})
	assert.False(t, partial.Eligible)
	assert.Equal(t, []domain.Requirement{
		domain.RequirementComplianceCertificateIssued,
		domain.RequirementPhotographicEvidence,
	}, partial.Missing)

	none := calc.CheckEligibility(domain.Checklist{})
	assert.False(t, none.Eligible)
	assert.Equal(t, domain.Requirements, none.Missing)
}
