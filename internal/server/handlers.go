package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/analyzer"
	"github.com/ludo-technologies/depscope/internal/version"
)

// handleCreateAnalysis handles POST /v1/analyses.
//
// Response:
//
//	201 Created: CreateAnalysisResponse
//	400 Bad Request: malformed body
func (s *Server) handleCreateAnalysis(c *gin.Context) {
	logger := s.requestLog(c, "CreateAnalysis")

	var req CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  domain.ErrCodeInvalidInput,
		})
		return
	}

	resp, engine := s.analyzer.AnalyzeStructure(c.Request.Context(), req.Files, req.Contents, req.DetectErrors)
	entry := s.store.put(resp, engine)

	logger.Info("analysis stored",
		"analysis_id", entry.id,
		"files", resp.Insight.Stats.TotalFiles,
		"cycles", len(resp.Insight.Cycles))

	c.JSON(http.StatusCreated, CreateAnalysisResponse{
		ID:          entry.id,
		Insight:     resp.Insight,
		Findings:    resp.Findings,
		Warnings:    resp.Warnings,
		GeneratedAt: resp.GeneratedAt,
	})
}

// handleGetAnalysis handles GET /v1/analyses/:id
func (s *Server) handleGetAnalysis(c *gin.Context) {
	entry, ok := s.lookup(c)
	if !ok {
		return
	}
	resp := entry.response
	c.JSON(http.StatusOK, AnalysisResponse{
		ID:                entry.id,
		Insight:           resp.Insight,
		Nodes:             resp.Nodes,
		ExternalLibraries: resp.ExternalLibraries,
		Coupling:          resp.Coupling,
		Findings:          resp.Findings,
		Warnings:          resp.Warnings,
		GeneratedAt:       resp.GeneratedAt,
	})
}

// handleReport handles GET /v1/analyses/:id/reports/:format. The impact
// format renders the change impact of ?file= when given.
func (s *Server) handleReport(c *gin.Context) {
	entry, ok := s.lookup(c)
	if !ok {
		return
	}
	format, err := domain.ParseReportFormat(c.Param("format"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	file := c.Query("file")

	var body string
	entry.withEngine(func(e *analyzer.Engine) {
		if format == domain.ReportFormatImpact && file != "" {
			body = e.ImpactReport(file)
			return
		}
		body = e.Report(format)
	})

	c.Data(http.StatusOK, reportContentType(format), []byte(body))
}

// handleImpact handles GET /v1/analyses/:id/impact?file=
func (s *Server) handleImpact(c *gin.Context) {
	entry, ok := s.lookup(c)
	if !ok {
		return
	}
	file := c.Query("file")
	if file == "" {
		s.writeError(c, domain.NewInvalidInputError("query parameter 'file' is required", nil))
		return
	}

	var (
		impact domain.ChangeImpact
		found  bool
	)
	entry.withEngine(func(e *analyzer.Engine) {
		if _, found = e.Graph().Lookup(file); found {
			impact = e.ChangeImpact(file)
		}
	})
	if !found {
		s.writeError(c, domain.NewNotFoundError("file "+file))
		return
	}

	c.JSON(http.StatusOK, ImpactResponse{File: file, Impact: impact})
}

// handleTokens handles GET /v1/analyses/:id/tokens/:format
func (s *Server) handleTokens(c *gin.Context) {
	entry, ok := s.lookup(c)
	if !ok {
		return
	}
	format, err := domain.ParseReportFormat(c.Param("format"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	var tokens int
	entry.withEngine(func(e *analyzer.Engine) {
		tokens = e.EstimateTokens(format)
	})
	c.JSON(http.StatusOK, TokensResponse{Format: format, Tokens: tokens})
}

// handleHealth handles GET /v1/health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:            "healthy",
		Version:           version.GetVersion(),
		StoredAnalyses:    s.store.len(),
		MaxStoredAnalyses: s.config.MaxStoredAnalyses,
	})
}

// lookup resolves the :id parameter, writing a 404 when it is unknown
func (s *Server) lookup(c *gin.Context) (*analysisEntry, bool) {
	id := c.Param("id")
	entry, ok := s.store.get(id)
	if !ok {
		s.writeError(c, domain.NewNotFoundError("analysis "+id))
		return nil, false
	}
	return entry, true
}

// writeError maps a domain error to its HTTP status
func (s *Server) writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.requestLog(c, "error").Error("request failed", "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func statusFor(err error) (int, string) {
	var de domain.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, domain.ErrCodeAnalysisError
	}
	switch de.Code {
	case domain.ErrCodeInvalidInput, domain.ErrCodeUnsupportedFormat:
		return http.StatusBadRequest, de.Code
	case domain.ErrCodeNotFound, domain.ErrCodeFileNotFound:
		return http.StatusNotFound, de.Code
	default:
		return http.StatusInternalServerError, de.Code
	}
}

func reportContentType(format domain.ReportFormat) string {
	switch format {
	case domain.ReportFormatJSON:
		return "application/json; charset=utf-8"
	case domain.ReportFormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
