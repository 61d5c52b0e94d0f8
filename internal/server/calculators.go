package server

import (
	"github.com/gin-gonic/gin"
	batterydomain "github.com/railzwaylabs/solarquote/internal/batterysizing/domain"
	batteryservice "github.com/railzwaylabs/solarquote/internal/batterysizing/service"
	certdomain "github.com/railzwaylabs/solarquote/internal/certificate/domain"
	certservice "github.com/railzwaylabs/solarquote/internal/certificate/service"
	flowdomain "github.com/railzwaylabs/solarquote/internal/energyflow/domain"
	flowservice "github.com/railzwaylabs/solarquote/internal/energyflow/service"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
	"github.com/shopspring/decimal"
)

type certificateValuationRequest struct {
	SystemSizeKw     float64                  `json:"system_size_kw"`
	InstallationDate string                   `json:"installation_date" example:"2026-03-01"`
	Site             *zonedomain.SiteLocation `json:"site"`
	ZoneRating       float64                  `json:"zone_rating"`
	UnitPrice        *decimal.Decimal         `json:"unit_price" swaggertype:"string"`
}

type certificateValuationResponse struct {
	Valuation certdomain.Valuation   `json:"valuation"`
	Zone      *zonedomain.Resolution `json:"zone,omitempty"`
}

// @Summary      Value Certificates
// @Description  Count certificates for a system and value them at the configured or supplied price
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body certificateValuationRequest true "Valuation Request"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /certificates/valuation [post]
func (s *Server) ValueCertificates(c *gin.Context) {
	var body certificateValuationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}
	policy := s.policy.Current()

	resp := certificateValuationResponse{}
	rating := body.ZoneRating
	if rating == 0 && body.Site != nil {
		zone, err := s.resolver.Resolve(*body.Site)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		rating = zone.Rating
		resp.Zone = &zone
	}

	installedAt, err := parseDate(body.InstallationDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if installedAt == nil {
		today := s.clock.Now(c.Request.Context()).UTC()
		installedAt = &today
	}

	price := policy.CertificatePrice
	if body.UnitPrice != nil {
		price = *body.UnitPrice
	}

	valuation, err := certservice.New(certdomain.Settings{SchemeEndYear: policy.SchemeEndYear}).Calculate(certdomain.Input{
		SystemSizeKw:     body.SystemSizeKw,
		InstallationDate: *installedAt,
		ZoneRating:       rating,
		UnitPrice:        price,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	resp.Valuation = valuation
	respondData(c, resp)
}

// @Summary      Check Certificate Eligibility
// @Description  Report which checklist items still block certificate creation
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body certdomain.Checklist true "Checklist"
// @Success      200  {object}  DataResponse
// @Router       /certificates/eligibility [post]
func (s *Server) CheckCertificateEligibility(c *gin.Context) {
	var body certdomain.Checklist
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}
	policy := s.policy.Current()
	respondData(c, certservice.New(certdomain.Settings{SchemeEndYear: policy.SchemeEndYear}).CheckEligibility(body))
}

// @Summary      Recommend Battery
// @Description  Size a battery from a household usage profile
// @Tags         sizing
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body batterydomain.UsageProfile true "Usage Profile"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /battery-sizing [post]
func (s *Server) RecommendBattery(c *gin.Context) {
	var body batterydomain.UsageProfile
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}

	sizer, err := batteryservice.New(batterydomain.Settings{Buffer: s.policy.Current().BatteryBuffer})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	rec, err := sizer.Recommend(body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rec)
}

// @Summary      Simulate Energy Flow
// @Description  Split a representative day into self-consumed, exported and imported energy
// @Tags         sizing
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body flowdomain.Input true "Energy Flow Input"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /energy-flow [post]
func (s *Server) SimulateEnergyFlow(c *gin.Context) {
	var body flowdomain.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}

	policy := s.policy.Current()
	if body.Battery != nil {
		if body.Battery.RoundTripEfficiency == 0 {
			body.Battery.RoundTripEfficiency = policy.RoundTripEfficiency
		}
		if body.Battery.UsableFraction == 0 {
			body.Battery.UsableFraction = policy.UsableFraction
		}
	}

	simulator, err := flowservice.New(flowdomain.Settings{DaytimeFraction: policy.DaytimeFraction})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	res, err := simulator.Simulate(body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, res)
}
