package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	templatedomain "github.com/railzwaylabs/solarquote/internal/packagetemplate/domain"
	quotedomain "github.com/railzwaylabs/solarquote/internal/quote/domain"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
	"github.com/railzwaylabs/solarquote/pkg/apperr"
)

// @Summary      List Package Templates
// @Description  List named system configurations
// @Tags         packages
// @Produce      json
// @Security     ApiKeyAuth
// @Param        active  query  bool  false  "Active"
// @Success      200  {object}  DataResponse
// @Router       /packages [get]
func (s *Server) ListPackages(c *gin.Context) {
	var req templatedomain.ListRequest
	if raw := strings.TrimSpace(c.Query("active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			AbortWithError(c, apperr.Validation("active", "must be true or false"))
			return
		}
		req.Active = &active
	}

	items, err := s.templateSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, items)
}

// @Summary      Create Package Template
// @Description  Save a named system configuration
// @Tags         packages
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body templatedomain.CreateRequest true "Create Package Request"
// @Success      201  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /packages [post]
func (s *Server) CreatePackage(c *gin.Context) {
	var body templatedomain.CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}

	resp, err := s.templateSvc.Create(c.Request.Context(), body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

// @Summary      Quote Package Template
// @Description  Price a package template for a site and return the customer view
// @Tags         packages
// @Produce      json
// @Security     ApiKeyAuth
// @Param        slug          path   string  true   "Template slug"
// @Param        jurisdiction  query  string  true   "State or territory"
// @Param        postcode      query  string  false  "Four digit postcode"
// @Param        mode          query  string  false  "best_case or conservative"
// @Param        roof_type     query  string  false  "Roof type"
// @Param        storeys       query  int     false  "Storeys"
// @Success      200  {object}  DataResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /packages/{slug}/quote [get]
func (s *Server) QuotePackage(c *gin.Context) {
	req := templatedomain.QuoteRequest{
		Slug: c.Param("slug"),
		Site: zonedomain.SiteLocation{
			Jurisdiction: c.Query("jurisdiction"),
			Postcode:     c.Query("postcode"),
		},
		Mode:         quotedomain.PricingMode(strings.ToLower(strings.TrimSpace(c.Query("mode")))),
		Installation: quotedomain.Installation{RoofType: c.Query("roof_type")},
	}
	if raw := strings.TrimSpace(c.Query("storeys")); raw != "" {
		storeys, err := strconv.Atoi(raw)
		if err != nil {
			AbortWithError(c, quotedomain.ErrInvalidStoreys)
			return
		}
		req.Installation.Storeys = storeys
	}

	result, err := s.templateSvc.QuoteTemplate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, result.CustomerView())
}
