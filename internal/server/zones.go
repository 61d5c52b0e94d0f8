package server

import (
	"github.com/gin-gonic/gin"
	zonedomain "github.com/railzwaylabs/solarquote/internal/rebatezone/domain"
)

// @Summary      List Rebate Zones
// @Description  List zones and their ratings in MWh per installed kW per year
// @Tags         rebate-zones
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  DataResponse
// @Router       /rebate-zones [get]
func (s *Server) ListRebateZones(c *gin.Context) {
	respondData(c, s.resolver.Zones())
}

// @Summary      Resolve Rebate Zone
// @Description  Resolve the rebate zone for a site
// @Tags         rebate-zones
// @Produce      json
// @Security     ApiKeyAuth
// @Param        jurisdiction  query  string  true   "State or territory"
// @Param        postcode      query  string  false  "Four digit postcode"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /rebate-zones/resolve [get]
func (s *Server) ResolveRebateZone(c *gin.Context) {
	res, err := s.resolver.Resolve(zonedomain.SiteLocation{
		Jurisdiction: c.Query("jurisdiction"),
		Postcode:     c.Query("postcode"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, res)
}
