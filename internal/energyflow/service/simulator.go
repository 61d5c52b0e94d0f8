package service

import (
	"math"

	"github.com/railzwaylabs/solarquote/internal/energyflow/domain"
)

type Simulator struct {
	daytimeFraction float64
}

func New(settings domain.Settings) (*Simulator, error) {
	f := settings.DaytimeFraction
	if f < 0 || f > 1 || math.IsNaN(f) {
		return nil, domain.ErrInvalidDaytimeFraction
	}
	return &Simulator{daytimeFraction: f}, nil
}

func (s *Simulator) Simulate(in domain.Input) (domain.Result, error) {
	if in.ProductionKwh < 0 || math.IsNaN(in.ProductionKwh) || math.IsInf(in.ProductionKwh, 0) {
		return domain.Result{}, domain.ErrInvalidProduction
	}
	if in.ConsumptionKwh < 0 || math.IsNaN(in.ConsumptionKwh) || math.IsInf(in.ConsumptionKwh, 0) {
		return domain.Result{}, domain.ErrInvalidConsumption
	}

	daytime := in.ConsumptionKwh * s.daytimeFraction
	night := in.ConsumptionKwh - daytime
	direct := math.Min(in.ProductionKwh, daytime)
	excess := in.ProductionKwh - direct

	var stored, drawn, discharged, usable float64
	if in.Battery != nil {
		battery, err := normalizeBattery(*in.Battery)
		if err != nil {
			return domain.Result{}, err
		}
		// Round-trip efficiency is lost on charge and again on discharge.
		rte := battery.RoundTripEfficiency
		usable = battery.UsableKwh()
		stored = math.Min(excess*rte, usable)
		drawn = stored / rte
		discharged = math.Min(stored*rte, night)
	}

	self := direct + discharged
	exported := math.Max(excess-drawn, 0)
	imported := math.Max(in.ConsumptionKwh-self, 0)

	return domain.Result{
		ProductionKwh:       round2(in.ProductionKwh),
		ConsumptionKwh:      round2(in.ConsumptionKwh),
		SelfConsumedKwh:     round2(self),
		ExportedKwh:         round2(exported),
		ImportedKwh:         round2(imported),
		SelfConsumptionPct:  percent(self, in.ProductionKwh),
		SelfSufficiencyPct:  percent(self, in.ConsumptionKwh),
		ExportPct:           percent(exported, in.ProductionKwh),
		BatteryChargedKwh:   round2(stored),
		BatteryDischargeKwh: round2(discharged),
		BatteryCycledPct:    percent(stored, usable),
	}, nil
}

func normalizeBattery(b domain.Battery) (domain.Battery, error) {
	if b.CapacityKwh < 0 || math.IsNaN(b.CapacityKwh) || math.IsInf(b.CapacityKwh, 0) {
		return b, domain.ErrInvalidCapacity
	}
	if b.RoundTripEfficiency == 0 {
		b.RoundTripEfficiency = domain.DefaultRoundTripEfficiency
	}
	if b.UsableFraction == 0 {
		b.UsableFraction = domain.DefaultUsableFraction
	}
	if !(b.RoundTripEfficiency > 0 && b.RoundTripEfficiency <= 1) {
		return b, domain.ErrInvalidEfficiency
	}
	if !(b.UsableFraction > 0 && b.UsableFraction <= 1) {
		return b, domain.ErrInvalidUsableFraction
	}
	return b, nil
}

func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	p := part / whole * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return round2(p)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
