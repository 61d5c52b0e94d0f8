package service

import (
	"fmt"
	"sort"

	catalogdomain "github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"github.com/railzwaylabs/solarquote/internal/quote/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"github.com/shopspring/decimal"
)

type selection struct {
	offer    catalogdomain.HardwareOffer
	quantity int64
}

func (s selection) line() domain.Line {
	qty := decimal.NewFromInt(s.quantity)
	return domain.Line{
		Kind:        string(s.offer.Kind),
		OfferID:     s.offer.ID.String(),
		SKU:         s.offer.SKU,
		Description: fmt.Sprintf("%s %s", s.offer.Manufacturer, s.offer.Model),
		Quantity:    s.quantity,
		UnitPrice:   s.offer.RetailPrice,
		UnitCost:    s.offer.UnitCost,
		Total:       s.offer.RetailPrice.Mul(qty).Round(2),
		TotalCost:   s.offer.UnitCost.Mul(qty).Round(2),
	}
}

// unitsFor returns how many units of size unit cover target, never fewer than one.
func unitsFor(target, unit decimal.Decimal) int64 {
	if !unit.IsPositive() {
		return 1
	}
	q := target.Div(unit).Ceil().IntPart()
	if q < 1 {
		return 1
	}
	return q
}

func explicitOffer(snapshot *catalogdomain.Snapshot, kind catalogdomain.OfferKind, id string) (catalogdomain.HardwareOffer, error) {
	offer, ok := snapshot.Offer(id)
	if !ok || offer.Kind != kind || !offer.Priced() {
		return catalogdomain.HardwareOffer{}, apperr.NotFound(string(kind), id)
	}
	return offer, nil
}

// cheapest picks the candidate with the lowest total retail price for the
// quantity it needs. Ties break on the lower ID.
func cheapest(snapshot *catalogdomain.Snapshot, kind catalogdomain.OfferKind, viable func(catalogdomain.HardwareOffer) bool, quantity func(catalogdomain.HardwareOffer) int64) (selection, error) {
	candidates := make([]selection, 0)
	for _, o := range snapshot.Offers {
		if o.Kind != kind || !o.Priced() || !viable(o) {
			continue
		}
		candidates = append(candidates, selection{offer: o, quantity: quantity(o)})
	}
	if len(candidates) == 0 {
		return selection{}, apperr.NotFound(string(kind), "")
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ti := candidates[i].offer.RetailPrice.Mul(decimal.NewFromInt(candidates[i].quantity))
		tj := candidates[j].offer.RetailPrice.Mul(decimal.NewFromInt(candidates[j].quantity))
		if c := ti.Cmp(tj); c != 0 {
			return c < 0
		}
		return candidates[i].offer.ID < candidates[j].offer.ID
	})
	return candidates[0], nil
}

func anyOffer(catalogdomain.HardwareOffer) bool { return true }

func selectPanels(snapshot *catalogdomain.Snapshot, id string, sizeKw float64) (selection, error) {
	targetW := decimal.NewFromFloat(sizeKw).Mul(decimal.NewFromInt(1000))
	quantity := func(o catalogdomain.HardwareOffer) int64 {
		return unitsFor(targetW, decimal.NewFromFloat(o.RatedOutput))
	}
	if id != "" {
		offer, err := explicitOffer(snapshot, catalogdomain.KindPanel, id)
		if err != nil {
			return selection{}, err
		}
		return selection{offer: offer, quantity: quantity(offer)}, nil
	}
	return cheapest(snapshot, catalogdomain.KindPanel, anyOffer, quantity)
}

// selectInverter returns the inverter and whether it is undersized for the
// array.
func selectInverter(snapshot *catalogdomain.Snapshot, id string, minRatingW float64) (selection, bool, error) {
	one := func(catalogdomain.HardwareOffer) int64 { return 1 }
	if id != "" {
		offer, err := explicitOffer(snapshot, catalogdomain.KindInverter, id)
		if err != nil {
			return selection{}, false, err
		}
		return selection{offer: offer, quantity: 1}, offer.RatedOutput < minRatingW, nil
	}
	viable := func(o catalogdomain.HardwareOffer) bool { return o.RatedOutput >= minRatingW }
	sel, err := cheapest(snapshot, catalogdomain.KindInverter, viable, one)
	if err != nil {
		return selection{}, false, fmt.Errorf("inverter rated at least %.0f W: %w", minRatingW, err)
	}
	return sel, false, nil
}

func selectBattery(snapshot *catalogdomain.Snapshot, id string, sizeKwh float64) (selection, error) {
	target := decimal.NewFromFloat(sizeKwh)
	quantity := func(o catalogdomain.HardwareOffer) int64 {
		if sizeKwh <= 0 {
			return 1
		}
		return unitsFor(target, decimal.NewFromFloat(o.RatedOutput))
	}
	if id != "" {
		offer, err := explicitOffer(snapshot, catalogdomain.KindBattery, id)
		if err != nil {
			return selection{}, err
		}
		return selection{offer: offer, quantity: quantity(offer)}, nil
	}
	return cheapest(snapshot, catalogdomain.KindBattery, anyOffer, quantity)
}

type extraLine struct {
	extra    catalogdomain.Extra
	quantity int64
}

// selectExtras resolves extras by ID or code, merging repeats in first-seen order.
func selectExtras(snapshot *catalogdomain.Snapshot, refs []string) ([]domain.Line, error) {
	merged := make([]*extraLine, 0, len(refs))
	index := make(map[string]*extraLine, len(refs))
	for _, ref := range refs {
		extra, ok := snapshot.Extra(ref)
		if !ok || !extra.Active {
			return nil, apperr.NotFound("extra", ref)
		}
		key := extra.ID.String()
		if existing, ok := index[key]; ok {
			existing.quantity++
			continue
		}
		line := &extraLine{extra: extra, quantity: 1}
		index[key] = line
		merged = append(merged, line)
	}

	lines := make([]domain.Line, 0, len(merged))
	for _, m := range merged {
		qty := decimal.NewFromInt(m.quantity)
		lines = append(lines, domain.Line{
			Kind:        "extra",
			OfferID:     m.extra.ID.String(),
			SKU:         m.extra.Code,
			Description: m.extra.Name,
			Quantity:    m.quantity,
			UnitPrice:   m.extra.Price,
			UnitCost:    m.extra.Cost,
			Total:       m.extra.Price.Mul(qty).Round(2),
			TotalCost:   m.extra.Cost.Mul(qty).Round(2),
		})
	}
	return lines, nil
}
