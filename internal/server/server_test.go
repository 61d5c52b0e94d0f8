package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	_ "github.com/railzwaylabs/solarquote/docs"
	authdomain "github.com/railzwaylabs/solarquote/internal/authorization/domain"
	catalogdomain "github.com/railzwaylabs/solarquote/internal/catalog/domain"
	"github.com/railzwaylabs/solarquote/internal/catalog/fixture"
	"github.com/railzwaylabs/solarquote/internal/clock"
	"github.com/railzwaylabs/solarquote/internal/config"
	"github.com/railzwaylabs/solarquote/internal/observability"
	templatedomain "github.com/railzwaylabs/solarquote/internal/packagetemplate/domain"
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	quoteservice "github.com/railzwaylabs/solarquote/internal/quote/service"
	storedomain "github.com/railzwaylabs/solarquote/internal/quotestore/domain"
	storeservice "github.com/railzwaylabs/solarquote/internal/quotestore/service"
	zoneservice "github.com/railzwaylabs/solarquote/internal/rebatezone/service"
	"github.com/railzwaylabs/solarquote/internal/server"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func testPolicy() quotedomain.Policy {
	return quotedomain.Policy{
		CertificatePrice:    decimal.RequireFromString("38.50"),
		SchemeEndYear:       2031,
		DaytimeFraction:     0.35,
		BatteryBuffer:       0.20,
		InverterRatio:       1.33,
		RoundTripEfficiency: 0.90,
		UsableFraction:      0.90,
		TaxRatePct:          decimal.NewFromInt(10),
		Commission: quotedomain.Commission{
			Type:          quotedomain.CommissionPercentage,
			Basis:         quotedomain.BasisBeforeRebates,
			Value:         decimal.NewFromInt(10),
			MinimumProfit: decimal.NewFromInt(500),
		},
		Rebates: quotedomain.RebatePolicy{
			FederalBatteryRatePerKwh: decimal.NewFromInt(372),
			FederalMaxUsableKwh:      50,
		},
	}
}

type capturedEvents struct {
	saved []*storedomain.StoredQuote
}

func (c *capturedEvents) QuoteSaved(_ context.Context, q *storedomain.StoredQuote) error {
	c.saved = append(c.saved, q)
	return nil
}

type failingCatalog struct{}

func (failingCatalog) Snapshot(context.Context) (*catalogdomain.Snapshot, error) {
	return nil, apperr.CatalogUnavailable("load snapshot", errors.New("connection refused"))
}

type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) Create(ctx context.Context, req templatedomain.CreateRequest) (*templatedomain.Response, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*templatedomain.Response); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTemplateService) List(ctx context.Context, req templatedomain.ListRequest) ([]templatedomain.Response, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).([]templatedomain.Response); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTemplateService) Get(ctx context.Context, slug string) (*templatedomain.Response, error) {
	args := m.Called(ctx, slug)
	if r, ok := args.Get(0).(*templatedomain.Response); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTemplateService) QuoteTemplate(ctx context.Context, req templatedomain.QuoteRequest) (*quotedomain.Result, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*quotedomain.Result); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type staticAuth struct {
	keys map[string]authdomain.Role
}

func (a staticAuth) Issue(context.Context, string, authdomain.Role) (string, *authdomain.APIKey, error) {
	return "", nil, errors.New("not supported")
}

func (a staticAuth) Authenticate(_ context.Context, raw string) (*authdomain.Principal, error) {
	role, ok := a.keys[raw]
	if !ok {
		return nil, authdomain.ErrUnauthorized
	}
	return &authdomain.Principal{KeyID: raw, Role: role}, nil
}

func (a staticAuth) Authorize(role authdomain.Role, path, _ string) (bool, error) {
	if role == authdomain.RoleAnalyst {
		return true, nil
	}
	return path != "/api/internal/quotes/test", nil
}

type testServer struct {
	handler   http.Handler
	events    *capturedEvents
	templates *MockTemplateService
	metrics   *observability.Metrics
}

type options struct {
	catalog catalogdomain.Catalog
	auth    authdomain.Service
}

func newTestServer(t *testing.T, opts options) *testServer {
	t.Helper()

	catalog := opts.catalog
	if catalog == nil {
		f, err := fixture.Load("../catalog/fixture/testdata/catalog.hcl", nil)
		require.NoError(t, err)
		catalog = f
	}

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.Config{Environment: "test", Version: "test"}
	cfg.Auth.Enabled = opts.auth != nil

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	fixed := clock.Fixed(now)
	policy := quotedomain.StaticPolicy(testPolicy())
	resolver := zoneservice.New()
	quotes := quoteservice.NewService(quoteservice.Params{
		Catalog:  catalog,
		Policy:   policy,
		Resolver: resolver,
		Clock:    fixed,
		Log:      zap.NewNop(),
		Metrics:  metrics,
	})
	store := storeservice.NewStore(storeservice.Params{Redis: rdb, Cfg: cfg, Clock: fixed, Log: zap.NewNop()})

	events := &capturedEvents{}
	templates := new(MockTemplateService)
	engine := server.NewEngine(server.EngineParams{Cfg: cfg, Log: zap.NewNop(), Metrics: metrics})
	s := server.NewServer(server.Params{
		Cfg:         cfg,
		Log:         zap.NewNop(),
		Engine:      engine,
		Gatherer:    reg,
		Clock:       fixed,
		Policy:      policy,
		Resolver:    resolver,
		QuoteSvc:    quotes,
		Store:       store,
		Events:      events,
		TemplateSvc: templates,
		AuthSvc:     opts.auth,
		Redis:       rdb,
	})
	s.RegisterAPIRoutes()

	return &testServer{handler: s.Handler(), events: events, templates: templates, metrics: metrics}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, "missing data envelope: %v", body)
	return d
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func solarRequest() map[string]any {
	return map[string]any{
		"site":           map[string]any{"jurisdiction": "NSW", "postcode": "2000"},
		"system_size_kw": 6.6,
		"installation":   map[string]any{"roof_type": "tin", "storeys": 1},
	}
}

func TestCreateAndGetQuote(t *testing.T) {
	ts := newTestServer(t, options{})

	w, body := ts.do(t, http.MethodPost, "/api/quotes", solarRequest())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(server.HeaderRequestID))

	created := data(t, body)
	id, _ := created["id"].(string)
	require.Len(t, id, 26)
	quote := created["quote"].(map[string]any)
	assert.Equal(t, "2026.1", quote["catalog_version"])
	assert.NotContains(t, quote, "profit")
	assert.NotContains(t, quote, "costs")
	require.Len(t, ts.events.saved, 1)
	assert.Equal(t, id, ts.events.saved[0].ID)

	w, body = ts.do(t, http.MethodGet, "/api/quotes/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := data(t, body)
	assert.Equal(t, id, fetched["id"])
	assert.Equal(t, quote["final_price"], fetched["quote"].(map[string]any)["final_price"])

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.QuotesTotal.WithLabelValues("best_case", "ok")))
}

func TestGetQuoteErrors(t *testing.T) {
	ts := newTestServer(t, options{})

	w, body := ts.do(t, http.MethodGet, "/api/quotes/01J0000000000000000000000Q", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "quote_not_found", errorCode(body))

	w, body = ts.do(t, http.MethodGet, "/api/quotes/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_quote_id", errorCode(body))
}

func TestInternalQuoteShowsMargins(t *testing.T) {
	ts := newTestServer(t, options{})

	w, body := ts.do(t, http.MethodPost, "/api/internal/quotes/test", solarRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := data(t, body)
	assert.Contains(t, result, "profit")
	assert.Contains(t, result, "costs")
	assert.Empty(t, ts.events.saved)
}

func TestQuoteErrorMapping(t *testing.T) {
	ts := newTestServer(t, options{})

	invalid := solarRequest()
	invalid["system_size_kw"] = 0
	w, body := ts.do(t, http.MethodPost, "/api/quotes", invalid)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_system_size_kw", errorCode(body))

	missing := solarRequest()
	missing["panel_id"] = "999"
	w, body = ts.do(t, http.MethodPost, "/api/quotes", missing)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "panel_not_found", errorCode(body))

	badDate := solarRequest()
	badDate["installation_date"] = "01/03/2026"
	w, body = ts.do(t, http.MethodPost, "/api/quotes", badDate)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_installation_date", errorCode(body))

	w, body = ts.do(t, http.MethodPost, "/api/quotes", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", errorCode(body))
}

func TestCatalogOutageIsRetryable(t *testing.T) {
	ts := newTestServer(t, options{catalog: failingCatalog{}})

	w, body := ts.do(t, http.MethodPost, "/api/quotes", solarRequest())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "5", w.Header().Get("Retry-After"))
	assert.Equal(t, "catalog_unavailable", errorCode(body))
	assert.Equal(t, true, body["error"].(map[string]any)["retryable"])
}

func TestRebateZoneRoutes(t *testing.T) {
	ts := newTestServer(t, options{})

	w, body := ts.do(t, http.MethodGet, "/api/rebate-zones", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 4)

	w, body = ts.do(t, http.MethodGet, "/api/rebate-zones/resolve?jurisdiction=nsw&postcode=2000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	zone := data(t, body)
	assert.EqualValues(t, 3, zone["zone"])
	assert.Equal(t, false, zone["approximate"])

	w, body = ts.do(t, http.MethodGet, "/api/rebate-zones/resolve?postcode=2000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_jurisdiction", errorCode(body))
}

func TestCertificateRoutes(t *testing.T) {
	ts := newTestServer(t, options{})

	w, body := ts.do(t, http.MethodPost, "/api/certificates/valuation", map[string]any{
		"system_size_kw": 6.6,
		"site":           map[string]any{"jurisdiction": "NSW", "postcode": "2000"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	valuation := data(t, body)["valuation"].(map[string]any)
	assert.EqualValues(t, 54, valuation["count"])
	assert.EqualValues(t, 5, valuation["deeming_period"])
	assert.Equal(t, "2079", valuation["value"])

	w, body = ts.do(t, http.MethodPost, "/api/certificates/valuation", map[string]any{
		"system_size_kw":    6.6,
		"zone_rating":       4.5,
		"installation_date": "2030-06-30",
		"unit_price":        "40",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	valuation = data(t, body)["valuation"].(map[string]any)
	assert.EqualValues(t, 1, valuation["deeming_period"])
	assert.EqualValues(t, 10, valuation["count"])

	w, body = ts.do(t, http.MethodPost, "/api/certificates/eligibility", map[string]any{
		"hardware_validated":            true,
		"compliance_certificate_issued": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	eligibility := data(t, body)
	assert.Equal(t, false, eligibility["eligible"])
	assert.Equal(t, []any{"customer_declaration_signed", "photographic_evidence"}, eligibility["missing"])
}

func TestSizingRoutes(t *testing.T) {
	ts := newTestServer(t, options{})

	w, body := ts.do(t, http.MethodPost, "/api/battery-sizing", map[string]any{
		"daily_usage_kwh": 20,
		"pattern":         "balanced",
		"vehicles":        []any{map[string]any{"tier": "heavy", "charging_window": "evening"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 30, data(t, body)["recommended_kwh"])

	w, body = ts.do(t, http.MethodPost, "/api/battery-sizing", map[string]any{"daily_usage_kwh": 0, "pattern": "balanced"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_daily_usage_kwh", errorCode(body))

	w, body = ts.do(t, http.MethodPost, "/api/energy-flow", map[string]any{"production_kwh": 30, "consumption_kwh": 25})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	flow := data(t, body)
	assert.EqualValues(t, 8.75, flow["self_consumed_kwh"])
	assert.EqualValues(t, 21.25, flow["exported_kwh"])
}

func TestPackageRoutes(t *testing.T) {
	ts := newTestServer(t, options{})

	ts.templates.On("List", mock.Anything, mock.MatchedBy(func(req templatedomain.ListRequest) bool {
		return req.Active != nil && *req.Active
	})).Return([]templatedomain.Response{{Slug: "starter"}}, nil).Once()
	w, body := ts.do(t, http.MethodGet, "/api/packages?active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)

	w, _ = ts.do(t, http.MethodGet, "/api/packages?active=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.templates.On("Create", mock.Anything, mock.MatchedBy(func(req templatedomain.CreateRequest) bool {
		return req.Name == "Starter" && req.SystemSizeKw == 6.6
	})).Return(&templatedomain.Response{Slug: "starter"}, nil).Once()
	w, body = ts.do(t, http.MethodPost, "/api/packages", map[string]any{"name": "Starter", "system_size_kw": 6.6})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "starter", data(t, body)["slug"])

	ts.templates.On("QuoteTemplate", mock.Anything, mock.MatchedBy(func(req templatedomain.QuoteRequest) bool {
		return req.Slug == "starter" &&
			req.Site.Jurisdiction == "VIC" &&
			req.Mode == quotedomain.ModeConservative &&
			req.Installation.Storeys == 2
	})).Return(&quotedomain.Result{
		FinalPrice: decimal.RequireFromString("5000"),
		Profit:     quotedomain.ProfitBreakdown{GrossMargin: decimal.RequireFromString("1200")},
	}, nil).Once()
	w, body = ts.do(t, http.MethodGet, "/api/packages/starter/quote?jurisdiction=VIC&postcode=3000&mode=Conservative&storeys=2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := data(t, body)
	assert.Equal(t, "5000", view["final_price"])
	assert.NotContains(t, view, "profit")

	ts.templates.On("QuoteTemplate", mock.Anything, mock.Anything).Return(nil, apperr.NotFound("package_template", "gone")).Once()
	w, body = ts.do(t, http.MethodGet, "/api/packages/gone/quote?jurisdiction=VIC", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "package_template_not_found", errorCode(body))

	ts.templates.AssertExpectations(t)
}

func TestAPIKeyEnforcement(t *testing.T) {
	ts := newTestServer(t, options{auth: staticAuth{keys: map[string]authdomain.Role{
		"sales-key":   authdomain.RoleSales,
		"analyst-key": authdomain.RoleAnalyst,
	}}})

	w, body := ts.do(t, http.MethodGet, "/api/rebate-zones", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorCode(body))

	w, _ = ts.do(t, http.MethodGet, "/api/rebate-zones", nil, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = ts.do(t, http.MethodGet, "/api/rebate-zones", nil, "Authorization", "Bearer sales-key")
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = ts.do(t, http.MethodPost, "/api/internal/quotes/test", solarRequest(), "X-API-Key", "sales-key")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", errorCode(body))

	w, _ = ts.do(t, http.MethodPost, "/api/internal/quotes/test", solarRequest(), "X-API-Key", "analyst-key")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOperationalRoutes(t *testing.T) {
	ts := newTestServer(t, options{})

	w, body := ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["checks"].(map[string]any)["redis"])

	ts.do(t, http.MethodGet, "/api/rebate-zones", nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `solarquote_http_requests_total{method="GET",route="/api/rebate-zones",status="200"} 1`)

	req = httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Solar Quote API")
	assert.Contains(t, rec.Body.String(), "/packages/{slug}/quote")
}
