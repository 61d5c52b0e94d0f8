package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*24*time.Hour, cfg.Redis.QuoteTTL)
	assert.Equal(t, "quotes.saved", cfg.NATS.Subject)
	assert.True(t, cfg.IsDevelopment())

	policy, err := cfg.Engine.Policy()
	require.NoError(t, err)
	assert.Equal(t, "38.5", policy.CertificatePrice.String())
	assert.Equal(t, 2031, policy.SchemeEndYear)
	assert.InDelta(t, 0.35, policy.DaytimeFraction, 1e-9)
	assert.Equal(t, quotedomain.CommissionPercentage, policy.Commission.Type)
	assert.Contains(t, policy.Rebates.States, "NSW")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SOLARQUOTE_HTTP_ADDR", ":9090")
	t.Setenv("SOLARQUOTE_ENGINE_CERTIFICATE_PRICE", "40.25")
	t.Setenv("SOLARQUOTE_ENGINE_HEURISTICS_DAYTIME_FRACTION", "0.4")
	t.Setenv("SOLARQUOTE_ENVIRONMENT", "production")

	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.False(t, cfg.IsDevelopment())
	policy, err := cfg.Engine.Policy()
	require.NoError(t, err)
	assert.Equal(t, "40.25", policy.CertificatePrice.String())
	assert.InDelta(t, 0.4, policy.DaytimeFraction, 1e-9)
}

func TestLoadKeepsZeroDaytimeFraction(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SOLARQUOTE_ENGINE_HEURISTICS_DAYTIME_FRACTION", "0")

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	policy, err := cfg.Engine.Policy()
	require.NoError(t, err)
	assert.Zero(t, policy.DaytimeFraction)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
engine:
  certificate:
    price: 35.10
  commission:
    type: fixed
    basis: after_rebates
    value: 900
  rebates:
    states:
      vic:
        rate_per_kwh: 50
        min_usable_kwh: 5
        combined_cap: 4000
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigFile())

	policy, err := cfg.Engine.Policy()
	require.NoError(t, err)
	assert.Equal(t, "35.1", policy.CertificatePrice.String())
	assert.Equal(t, quotedomain.CommissionFixed, policy.Commission.Type)
	assert.Equal(t, quotedomain.BasisAfterRebates, policy.Commission.Basis)
	require.Contains(t, policy.Rebates.States, "VIC")
	assert.Equal(t, "4000", policy.Rebates.States["VIC"].CombinedCap.String())
}

func TestLoadRejectsInvalidEngine(t *testing.T) {
	path := writeConfig(t, `
engine:
  commission:
    type: bonus
`)
	_, err := LoadFrom(path)
	assert.Error(t, err)

	path = writeConfig(t, `
engine:
  tax_rate_pct: ten
`)
	_, err = LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestPolicyHolderReload(t *testing.T) {
	path := writeConfig(t, `
engine:
  certificate:
    price: 38.50
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	holder, err := NewPolicyHolder(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "38.5", holder.Current().CertificatePrice.String())

	require.NoError(t, os.WriteFile(path, []byte("engine:\n  certificate:\n    price: 36.00\n"), 0o600))
	require.NoError(t, holder.Reload(cfg))
	assert.Equal(t, "36", holder.Current().CertificatePrice.String())

	require.NoError(t, os.WriteFile(path, []byte("engine:\n  heuristics:\n    daytime_fraction: 3\n"), 0o600))
	assert.Error(t, holder.Reload(cfg))
	assert.Equal(t, "36", holder.Current().CertificatePrice.String())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solarquote.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}
