package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/railzwaylabs/solarquote/internal/batterysizing/domain"
)

type Sizer struct {
	buffer  float64
	catalog []float64
}

func New(settings domain.Settings) (*Sizer, error) {
	if settings.Buffer < 0 || math.IsNaN(settings.Buffer) {
		return nil, domain.ErrInvalidBuffer
	}
	catalog := settings.Catalog
	if len(catalog) == 0 {
		catalog = domain.DefaultCatalog
	}
	sizes := make([]float64, 0, len(catalog))
	for _, size := range catalog {
		if size > 0 {
			sizes = append(sizes, size)
		}
	}
	if len(sizes) == 0 {
		sizes = append(sizes, domain.DefaultCatalog...)
	}
	sort.Float64s(sizes)
	return &Sizer{buffer: settings.Buffer, catalog: sizes}, nil
}

func (s *Sizer) Recommend(profile domain.UsageProfile) (domain.Recommendation, error) {
	profile = profile.Normalize()
	if !(profile.DailyUsageKwh > 0) || math.IsInf(profile.DailyUsageKwh, 0) {
		return domain.Recommendation{}, domain.ErrInvalidDailyUsage
	}

	ratio, err := profile.Pattern.OvernightRatio()
	if err != nil {
		return domain.Recommendation{}, err
	}

	baseline := profile.DailyUsageKwh * ratio
	total := baseline
	steps := []domain.ReasoningStep{{
		Label:  "overnight_baseline",
		Kwh:    round2(baseline),
		Detail: fmt.Sprintf("%.2f kWh/day x %.0f%% outside solar hours (%s usage)", profile.DailyUsageKwh, ratio*100, profile.Pattern),
	}}

	for i, ev := range profile.Vehicles {
		daily, err := ev.Tier.DailyKwh()
		if err != nil {
			return domain.Recommendation{}, err
		}
		share, err := ev.ChargingWindow.StorageShare()
		if err != nil {
			return domain.Recommendation{}, err
		}
		stored := daily * share
		total += stored
		steps = append(steps, domain.ReasoningStep{
			Label:  fmt.Sprintf("vehicle_%d", i+1),
			Kwh:    round2(stored),
			Detail: fmt.Sprintf("%s vehicle at %.0f kWh/day, %s charging draws %.0f%% from storage", ev.Tier, daily, ev.ChargingWindow, share*100),
		})
	}

	if profile.Pool != nil {
		pool, err := profile.Pool.Heating.OvernightKwh()
		if err != nil {
			return domain.Recommendation{}, err
		}
		total += pool
		steps = append(steps, domain.ReasoningStep{
			Label:  "pool",
			Kwh:    round2(pool),
			Detail: fmt.Sprintf("pool filtration with %s heating", profile.Pool.Heating),
		})
	}

	buffered := total * (1 + s.buffer)
	steps = append(steps, domain.ReasoningStep{
		Label:  "buffer",
		Kwh:    round2(buffered),
		Detail: fmt.Sprintf("%.2f kWh plus %.0f%% headroom for degradation and cloudy days", total, s.buffer*100),
	})

	floor := s.catalog[0]
	ceiling := s.catalog[len(s.catalog)-1]

	recommended, fits := s.smallestAtLeast(buffered)
	confidence := domain.ConfidenceHigh
	if fits {
		steps = append(steps, domain.ReasoningStep{
			Label:  "rounding",
			Kwh:    recommended,
			Detail: fmt.Sprintf("smallest available size at or above %.2f kWh", buffered),
		})
	} else {
		confidence = domain.ConfidenceLow
		steps = append(steps, domain.ReasoningStep{
			Label:  "rounding",
			Kwh:    recommended,
			Detail: fmt.Sprintf("%.2f kWh exceeds the largest available size, capped at %.1f kWh", buffered, ceiling),
		})
	}

	minKwh := math.Max(floor, 0.8*total)
	maxKwh := math.Min(ceiling, 1.5*total)
	widened := false
	if recommended < minKwh {
		minKwh = recommended
		widened = true
	}
	if recommended > maxKwh {
		maxKwh = recommended
		widened = true
	}
	if minKwh > maxKwh {
		minKwh = maxKwh
	}
	if widened && confidence == domain.ConfidenceHigh {
		confidence = domain.ConfidenceMedium
	}

	return domain.Recommendation{
		RecommendedKwh: recommended,
		MinKwh:         round2(minKwh),
		MaxKwh:         round2(maxKwh),
		UnbufferedKwh:  round2(total),
		BufferedKwh:    round2(buffered),
		Confidence:     confidence,
		Reasoning:      steps,
	}, nil
}

const sizeTolerance = 1e-9

func (s *Sizer) smallestAtLeast(kwh float64) (float64, bool) {
	// Tolerate float noise such as 28.800000000000004 for 28.8.
	target := kwh - sizeTolerance
	for _, size := range s.catalog {
		if size >= target {
			return size, true
		}
	}
	return s.catalog[len(s.catalog)-1], false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
