package domain

import "fmt"

// Validate rejects snapshots a quote could not be priced against.
func (s *Snapshot) Validate() error {
	if s == nil || s.Labor == nil {
		return ErrMissingLaborRates
	}
	for _, o := range s.Offers {
		if !o.Kind.Valid() {
			return fmt.Errorf("offer %s: %w", o.ID, ErrInvalidKind)
		}
		if o.UnitCost.IsNegative() || o.RetailPrice.IsNegative() {
			return fmt.Errorf("offer %s: %w", o.ID, ErrNegativePrice)
		}
		if o.RatedOutput < 0 {
			return fmt.Errorf("offer %s: %w", o.ID, ErrInvalidRatedOutput)
		}
	}
	for _, e := range s.Extras {
		if e.Cost.IsNegative() || e.Price.IsNegative() {
			return fmt.Errorf("extra %s: %w", e.ID, ErrNegativePrice)
		}
	}
	rates := []LaborRate{s.Labor.Base, s.Labor.PerPanel, s.Labor.PerInverter, s.Labor.BatteryBase, s.Labor.BatteryPerKwh}
	for _, r := range rates {
		if r.Cost.IsNegative() || r.Price.IsNegative() {
			return fmt.Errorf("labor: %w", ErrNegativePrice)
		}
	}
	return nil
}

// Offer looks up an offer by ID.
func (s *Snapshot) Offer(id string) (HardwareOffer, bool) {
	for _, o := range s.Offers {
		if o.ID.String() == id {
			return o, true
		}
	}
	return HardwareOffer{}, false
}

// Extra looks up an extra by ID or code.
func (s *Snapshot) Extra(ref string) (Extra, bool) {
	for _, e := range s.Extras {
		if e.ID.String() == ref || e.Code == ref {
			return e, true
		}
	}
	return Extra{}, false
}
