package fixture_test

import (
	"context"
	"testing"

	"github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"github.com/railzwaylabs/solarquote/internal/catalog/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const minimalLabor = `
labor {
  base {
    cost  = "1"
    price = "1"
  }
  per_panel {
    cost  = "1"
    price = "1"
  }
  per_inverter {
    cost  = "1"
    price = "1"
  }
  battery_base {
    cost  = "1"
    price = "1"
  }
  battery_per_kwh {
    cost  = "1"
    price = "1"
  }
}
`

func TestLoadFixture(t *testing.T) {
	f, err := fixture.Load("testdata/catalog.hcl", nil)
	require.NoError(t, err)

	snap, err := f.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026.1", snap.Version)
	require.Len(t, snap.Offers, 4)
	require.NoError(t, snap.Validate())

	panel, ok := snap.Offer("101")
	require.True(t, ok)
	assert.Equal(t, domain.KindPanel, panel.Kind)
	assert.Equal(t, "180.00", panel.RetailPrice.StringFixed(2))
	assert.Equal(t, domain.TierPremium, panel.QualityTier)
	assert.True(t, panel.Active)

	inverter, ok := snap.Offer("201")
	require.True(t, ok)
	assert.Equal(t, domain.TierStandard, inverter.QualityTier)

	battery, ok := snap.Offer("301")
	require.True(t, ok)
	require.NotNil(t, battery.Battery)
	assert.Equal(t, 0.95, battery.Battery.UsableFraction)

	old, ok := snap.Offer("103")
	require.True(t, ok)
	assert.False(t, old.Active)

	require.NotNil(t, snap.Labor)
	assert.Equal(t, "45.00", snap.Labor.PerPanel.Price.StringFixed(2))
	assert.Equal(t, "1.1", snap.Labor.RoofMultipliers["tile"].String())
	assert.Equal(t, "1.15", snap.Labor.StoreyMultipliers[2].String())

	extra, ok := snap.Extra("monitoring")
	require.True(t, ok)
	assert.Equal(t, "290.00", extra.Price.StringFixed(2))
}

func TestVariableOverride(t *testing.T) {
	_, markup, err := fixture.ParseVariable("markup=2")
	require.NoError(t, err)

	f, err := fixture.Load("testdata/catalog.hcl", map[string]cty.Value{"markup": markup})
	require.NoError(t, err)
	snap, err := f.Snapshot(context.Background())
	require.NoError(t, err)

	panel, ok := snap.Offer("101")
	require.True(t, ok)
	assert.Equal(t, "240.00", panel.RetailPrice.StringFixed(2))
}

func TestParseVariable(t *testing.T) {
	name, val, err := fixture.ParseVariable(" markup = 1.75 ")
	require.NoError(t, err)
	assert.Equal(t, "markup", name)
	assert.Equal(t, cty.Number, val.Type())

	_, val, err = fixture.ParseVariable("promo=true")
	require.NoError(t, err)
	assert.Equal(t, cty.True, val)

	_, val, err = fixture.ParseVariable("region=nsw")
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("nsw"), val)

	_, _, err = fixture.ParseVariable("markup")
	assert.Error(t, err)
}

func TestParseRejectsBadFixtures(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax", `offer "panel" {`},
		{"unknown kind", `
offer "turbine" "T-1" {
  id = 1
  rated_output = 1
  unit_cost = "1"
  retail_price = "2"
}
` + minimalLabor},
		{"missing labor", `
offer "panel" "P-1" {
  id = 1
  rated_output = 400
  unit_cost = "1"
  retail_price = "2"
}`},
		{"bad money", `
extra "x" {
  id = 1
  cost = "abc"
  price = "2"
}`},
		{"undefined variable", `
offer "panel" "P-1" {
  id = 1
  rated_output = 400
  unit_cost = "1"
  retail_price = var.nope
}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixture.Parse([]byte(tc.src), "bad.hcl", nil)
			assert.Error(t, err)
		})
	}
}

func TestVersionDefaultsToFileName(t *testing.T) {
	src := minimalLabor
	f, err := fixture.Parse([]byte(src), "dir/spring.hcl", nil)
	require.NoError(t, err)
	snap, err := f.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixture:spring", snap.Version)
}

func TestStarterCatalogLoads(t *testing.T) {
	f, err := fixture.Load("../../../config/catalog.hcl", nil)
	require.NoError(t, err)
	snap, err := f.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026.03", snap.Version)
	assert.Len(t, snap.Offers, 8)
	assert.Len(t, snap.Extras, 3)
	require.NotNil(t, snap.Labor)
	assert.Equal(t, "900.00", snap.Labor.Base.Price.StringFixed(2))
	assert.Equal(t, "1.05", snap.Labor.RoofMultipliers["klip_lok"].StringFixed(2))
	assert.Len(t, snap.Labor.StoreyMultipliers, 3)
}
