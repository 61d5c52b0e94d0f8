// Package fixture loads a complete catalog from an HCL file. Fixtures back the
// offline quote command and the database seed.
package fixture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

type fileBody struct {
	Version string       `hcl:"version,optional"`
	Offers  []offerBlock `hcl:"offer,block"`
	Labor   *laborBlock  `hcl:"labor,block"`
	Extras  []extraBlock `hcl:"extra,block"`
}

type offerBlock struct {
	Kind          string        `hcl:"kind,label"`
	SKU           string        `hcl:"sku,label"`
	ID            int64         `hcl:"id"`
	Manufacturer  string        `hcl:"manufacturer,optional"`
	Model         string        `hcl:"model,optional"`
	RatedOutput   float64       `hcl:"rated_output"`
	UnitCost      string        `hcl:"unit_cost"`
	RetailPrice   string        `hcl:"retail_price"`
	WarrantyYears int           `hcl:"warranty_years,optional"`
	QualityTier   string        `hcl:"quality_tier,optional"`
	Active        *bool         `hcl:"active,optional"`
	Battery       *batteryBlock `hcl:"battery,block"`
}

type batteryBlock struct {
	UsableFraction      float64 `hcl:"usable_fraction"`
	RoundTripEfficiency float64 `hcl:"round_trip_efficiency,optional"`
}

type rateBlock struct {
	Cost  string `hcl:"cost"`
	Price string `hcl:"price"`
}

type laborBlock struct {
	Base          rateBlock         `hcl:"base,block"`
	PerPanel      rateBlock         `hcl:"per_panel,block"`
	PerInverter   rateBlock         `hcl:"per_inverter,block"`
	BatteryBase   rateBlock         `hcl:"battery_base,block"`
	BatteryPerKwh rateBlock         `hcl:"battery_per_kwh,block"`
	Roof          map[string]string `hcl:"roof,optional"`
	Storeys       map[string]string `hcl:"storeys,optional"`
}

type extraBlock struct {
	Code   string `hcl:"code,label"`
	ID     int64  `hcl:"id"`
	Name   string `hcl:"name,optional"`
	Cost   string `hcl:"cost"`
	Price  string `hcl:"price"`
	Active *bool  `hcl:"active,optional"`
}

var variableSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "variable", LabelNames: []string{"name"}}},
}

var functions = map[string]function.Function{
	"ceil":  stdlib.CeilFunc,
	"floor": stdlib.FloorFunc,
	"max":   stdlib.MaxFunc,
	"min":   stdlib.MinFunc,
}

// Fixture is an in-memory catalog. It satisfies domain.Catalog.
type Fixture struct {
	snapshot *domain.Snapshot
}

func (f *Fixture) Snapshot(context.Context) (*domain.Snapshot, error) {
	snap := *f.snapshot
	return &snap, nil
}

// Load reads and decodes the fixture at path. vars override the defaults of
// the file's variable blocks.
func Load(path string, vars map[string]cty.Value) (*Fixture, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog fixture: %w", err)
	}
	return Parse(src, path, vars)
}

func Parse(src []byte, filename string, vars map[string]cty.Value) (*Fixture, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse catalog fixture: %w", diags)
	}

	content, remain, diags := file.Body.PartialContent(variableSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse catalog fixture: %w", diags)
	}

	values := map[string]cty.Value{}
	for _, block := range content.Blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("variable %q: %w", block.Labels[0], diags)
		}
		attr, ok := attrs["default"]
		if !ok {
			continue
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("variable %q: %w", block.Labels[0], diags)
		}
		values[block.Labels[0]] = val
	}
	for name, val := range vars {
		values[name] = val
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(values)},
		Functions: functions,
	}

	var body fileBody
	if diags := gohcl.DecodeBody(remain, evalCtx, &body); diags.HasErrors() {
		return nil, fmt.Errorf("decode catalog fixture: %w", diags)
	}

	snap, err := body.snapshot()
	if err != nil {
		return nil, err
	}
	if snap.Version == "" {
		snap.Version = "fixture:" + strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("catalog fixture %s: %w", filename, err)
	}
	return &Fixture{snapshot: snap}, nil
}

// ParseVariable splits a name=value override. Numeric values become numbers.
func ParseVariable(raw string) (string, cty.Value, error) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", cty.NilVal, fmt.Errorf("variable %q must be name=value", raw)
	}
	value = strings.TrimSpace(value)
	if n, err := cty.ParseNumberVal(value); err == nil {
		return name, n, nil
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return name, cty.BoolVal(b), nil
	}
	return name, cty.StringVal(value), nil
}

func (b fileBody) snapshot() (*domain.Snapshot, error) {
	snap := &domain.Snapshot{Version: b.Version}

	for _, o := range b.Offers {
		cost, err := money(o.SKU, "unit_cost", o.UnitCost)
		if err != nil {
			return nil, err
		}
		price, err := money(o.SKU, "retail_price", o.RetailPrice)
		if err != nil {
			return nil, err
		}
		offer := domain.HardwareOffer{
			ID:            snowflake.ID(o.ID),
			SKU:           o.SKU,
			Kind:          domain.OfferKind(o.Kind),
			Manufacturer:  o.Manufacturer,
			Model:         o.Model,
			RatedOutput:   o.RatedOutput,
			UnitCost:      cost,
			RetailPrice:   price,
			WarrantyYears: o.WarrantyYears,
			QualityTier:   domain.QualityTier(o.QualityTier),
			Active:        o.Active == nil || *o.Active,
		}
		if offer.QualityTier == "" {
			offer.QualityTier = domain.TierStandard
		}
		if o.Battery != nil {
			offer.Battery = &domain.BatterySpec{
				UsableFraction:      o.Battery.UsableFraction,
				RoundTripEfficiency: o.Battery.RoundTripEfficiency,
			}
		}
		snap.Offers = append(snap.Offers, offer)
	}

	for _, e := range b.Extras {
		cost, err := money(e.Code, "cost", e.Cost)
		if err != nil {
			return nil, err
		}
		price, err := money(e.Code, "price", e.Price)
		if err != nil {
			return nil, err
		}
		snap.Extras = append(snap.Extras, domain.Extra{
			ID:     snowflake.ID(e.ID),
			Code:   e.Code,
			Name:   e.Name,
			Cost:   cost,
			Price:  price,
			Active: e.Active == nil || *e.Active,
		})
	}

	if b.Labor != nil {
		labor, err := b.Labor.rates()
		if err != nil {
			return nil, err
		}
		snap.Labor = labor
	}
	return snap, nil
}

func (l laborBlock) rates() (*domain.LaborRates, error) {
	rates := &domain.LaborRates{
		RoofMultipliers:   map[string]decimal.Decimal{},
		StoreyMultipliers: map[int]decimal.Decimal{},
	}
	blocks := []struct {
		code domain.LaborCode
		src  rateBlock
		dst  *domain.LaborRate
	}{
		{domain.LaborBase, l.Base, &rates.Base},
		{domain.LaborPerPanel, l.PerPanel, &rates.PerPanel},
		{domain.LaborPerInverter, l.PerInverter, &rates.PerInverter},
		{domain.LaborBatteryBase, l.BatteryBase, &rates.BatteryBase},
		{domain.LaborBatteryPerKwh, l.BatteryPerKwh, &rates.BatteryPerKwh},
	}
	for _, b := range blocks {
		cost, err := money(string(b.code), "cost", b.src.Cost)
		if err != nil {
			return nil, err
		}
		price, err := money(string(b.code), "price", b.src.Price)
		if err != nil {
			return nil, err
		}
		*b.dst = domain.LaborRate{Cost: cost, Price: price}
	}

	for roof, raw := range l.Roof {
		factor, err := multiplier("roof "+roof, raw)
		if err != nil {
			return nil, err
		}
		rates.RoofMultipliers[strings.ToLower(roof)] = factor
	}
	for key, raw := range l.Storeys {
		storeys, err := strconv.Atoi(key)
		if err != nil || storeys < 1 {
			return nil, fmt.Errorf("storeys multiplier key %q must be a positive integer", key)
		}
		factor, err := multiplier("storeys "+key, raw)
		if err != nil {
			return nil, err
		}
		rates.StoreyMultipliers[storeys] = factor
	}
	return rates, nil
}

func money(owner, field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %s %q: %w", owner, field, raw, err)
	}
	return d.Round(2), nil
}

func multiplier(owner, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s multiplier %q must be a positive number", owner, raw)
	}
	return d, nil
}
