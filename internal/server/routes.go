package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) RegisterAPIRoutes() {
	s.engine.GET("/healthz", s.Healthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	s.engine.GET("/swagger/doc.json", s.SwaggerDoc)

	api := s.engine.Group("/api", s.APIKeyRequired())
	{
		api.POST("/quotes", s.CreateQuote)
		api.GET("/quotes/:id", s.GetQuote)
		api.POST("/internal/quotes/test", s.TestQuote)

		api.GET("/rebate-zones", s.ListRebateZones)
		api.GET("/rebate-zones/resolve", s.ResolveRebateZone)

		api.POST("/certificates/valuation", s.ValueCertificates)
		api.POST("/certificates/eligibility", s.CheckCertificateEligibility)

		api.POST("/battery-sizing", s.RecommendBattery)
		api.POST("/energy-flow", s.SimulateEnergyFlow)

		api.GET("/packages", s.ListPackages)
		api.POST("/packages", s.CreatePackage)
		api.GET("/packages/:slug/quote", s.QuotePackage)
	}
}
