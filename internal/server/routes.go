package server

import "github.com/gin-gonic/gin"

// registerRoutes registers the /v1 endpoints:
//
//	POST /v1/analyses                      analyze a posted file structure
//	GET  /v1/analyses/:id                  stored analysis
//	GET  /v1/analyses/:id/reports/:format  rendered report (?file= for impact)
//	GET  /v1/analyses/:id/impact           change impact of ?file=
//	GET  /v1/analyses/:id/tokens/:format   token estimate of a report
//	GET  /v1/health                        liveness
func (s *Server) registerRoutes(rg *gin.RouterGroup) {
	analyses := rg.Group("/analyses")
	{
		analyses.POST("", s.handleCreateAnalysis)
		analyses.GET("/:id", s.handleGetAnalysis)
		analyses.GET("/:id/reports/:format", s.handleReport)
		analyses.GET("/:id/impact", s.handleImpact)
		analyses.GET("/:id/tokens/:format", s.handleTokens)
	}
	rg.GET("/health", s.handleHealth)
}
