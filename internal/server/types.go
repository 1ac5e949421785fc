package server

import (
	"time"

	"github.com/ludo-technologies/depscope/domain"
)

// CreateAnalysisRequest is the body of POST /v1/analyses
type CreateAnalysisRequest struct {
	// Files groups the pre-extracted file descriptors by directory
	Files domain.FileStructure `json:"files" binding:"required"`

	// Contents maps file paths to source text for the error detector
	Contents map[string]string `json:"contents,omitempty"`

	// DetectErrors runs the content-based error detector
	DetectErrors bool `json:"detectErrors,omitempty"`
}

// CreateAnalysisResponse is returned by POST /v1/analyses
type CreateAnalysisResponse struct {
	ID          string             `json:"id"`
	Insight     *domain.Insight    `json:"insight"`
	Findings    []domain.CodeError `json:"findings,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// AnalysisResponse is returned by GET /v1/analyses/:id
type AnalysisResponse struct {
	ID                string                   `json:"id"`
	Insight           *domain.Insight          `json:"insight"`
	Nodes             []domain.GraphNode       `json:"nodes"`
	ExternalLibraries []domain.ExternalLibrary `json:"externalLibraries"`
	Coupling          *domain.CouplingAnalysis `json:"coupling,omitempty"`
	Findings          []domain.CodeError       `json:"findings,omitempty"`
	Warnings          []string                 `json:"warnings,omitempty"`
	GeneratedAt       time.Time                `json:"generatedAt"`
}

// ImpactResponse is returned by GET /v1/analyses/:id/impact
type ImpactResponse struct {
	File   string              `json:"file"`
	Impact domain.ChangeImpact `json:"impact"`
}

// TokensResponse is returned by GET /v1/analyses/:id/tokens/:format
type TokensResponse struct {
	Format domain.ReportFormat `json:"format"`
	Tokens int                 `json:"tokens"`
}

// HealthResponse is returned by GET /v1/health
type HealthResponse struct {
	Status            string `json:"status"`
	Version           string `json:"version"`
	StoredAnalyses    int    `json:"storedAnalyses"`
	MaxStoredAnalyses int    `json:"maxStoredAnalyses"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	// Error is the error message
	Error string `json:"error"`

	// Code is the machine-readable error code
	Code string `json:"code,omitempty"`
}
