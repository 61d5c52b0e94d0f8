package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	batterydomain "github.com/railzwaylabs/solarquote/internal/batterysizing/domain"
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	storedomain "github.com/railzwaylabs/solarquote/internal/quotestore/domain"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type quoteRequest struct {
	Site             zonedomain.SiteLocation     `json:"site"`
	SystemSizeKw     float64                     `json:"system_size_kw"`
	BatterySizeKwh   float64                     `json:"battery_size_kwh"`
	PanelID          string                      `json:"panel_id"`
	InverterID       string                      `json:"inverter_id"`
	BatteryID        string                      `json:"battery_id"`
	Extras           []string                    `json:"extras"`
	Installation     quotedomain.Installation    `json:"installation"`
	InstallationDate string                      `json:"installation_date" example:"2026-03-01"`
	Mode             quotedomain.PricingMode     `json:"mode" enums:"best_case,conservative"`
	Commission       *quotedomain.Commission     `json:"commission"`
	Usage            *batterydomain.UsageProfile `json:"usage"`
}

func (r quoteRequest) toDomain() (quotedomain.Request, error) {
	req := quotedomain.Request{
		Site:           r.Site,
		SystemSizeKw:   r.SystemSizeKw,
		BatterySizeKwh: r.BatterySizeKwh,
		PanelID:        strings.TrimSpace(r.PanelID),
		InverterID:     strings.TrimSpace(r.InverterID),
		BatteryID:      strings.TrimSpace(r.BatteryID),
		Extras:         r.Extras,
		Installation:   r.Installation,
		Mode:           quotedomain.PricingMode(strings.ToLower(strings.TrimSpace(string(r.Mode)))),
		Commission:     r.Commission,
		Usage:          r.Usage,
	}
	date, err := parseDate(r.InstallationDate)
	if err != nil {
		return quotedomain.Request{}, err
	}
	req.InstallationDate = date
	return req, nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperr.Validation("installation_date", "must be formatted YYYY-MM-DD")
	}
	return &d, nil
}

type storedQuoteResponse struct {
	ID        string                   `json:"id"`
	CreatedAt time.Time                `json:"created_at"`
	ExpiresAt time.Time                `json:"expires_at"`
	Quote     quotedomain.CustomerView `json:"quote"`
}

func toStoredQuoteResponse(q *storedomain.StoredQuote) storedQuoteResponse {
	return storedQuoteResponse{
		ID:        q.ID,
		CreatedAt: q.CreatedAt,
		ExpiresAt: q.ExpiresAt,
		Quote:     q.Result.CustomerView(),
	}
}

// @Summary      Create Quote
// @Description  Price a system, store the result and return the customer view
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body quoteRequest true "Quote Request"
// @Success      201  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /quotes [post]
func (s *Server) CreateQuote(c *gin.Context) {
	var body quoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}
	req, err := body.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := s.quoteSvc.Calculate(ctx, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	stored, err := s.store.Save(ctx, result)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.events.QuoteSaved(ctx, stored); err != nil {
		s.log.Warn("failed to publish quote event", zap.String("quote_id", stored.ID), zap.Error(err))
	}

	respondCreated(c, toStoredQuoteResponse(stored))
}

// @Summary      Get Quote
// @Description  Fetch a stored quote by id
// @Tags         quotes
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /quotes/{id} [get]
func (s *Server) GetQuote(c *gin.Context) {
	stored, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, toStoredQuoteResponse(stored))
}

// @Summary      Test Quote
// @Description  Price a system without storing it and return costs and margins
// @Tags         internal
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body quoteRequest true "Quote Request"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /internal/quotes/test [post]
func (s *Server) TestQuote(c *gin.Context) {
	var body quoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}
	req, err := body.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.quoteSvc.Calculate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, result)
}
