package app

import (
	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/analyzer"
)

// TokenEstimate is the approximate LLM token cost of one report
type TokenEstimate struct {
	Format domain.ReportFormat `json:"format"`
	Tokens int                 `json:"tokens"`
}

// EstimateTokens returns the token estimate of every report format in
// domain.ReportFormats order
func EstimateTokens(engine *analyzer.Engine) []TokenEstimate {
	out := make([]TokenEstimate, len(domain.ReportFormats))
	for i, format := range domain.ReportFormats {
		out[i] = TokenEstimate{Format: format, Tokens: engine.EstimateTokens(format)}
	}
	return out
}
