package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/depscope/domain"
)

// ImpactResult is the change impact of one file
type ImpactResult struct {
	Target   string                   `json:"target"`
	Impact   domain.ChangeImpact      `json:"impact"`
	Report   string                   `json:"-"`
	Response *domain.AnalysisResponse `json:"-"`
}

// ImpactUseCase answers "what breaks if I change this file"
type ImpactUseCase struct {
	analyzer   ProjectAnalyzer
	fileHelper *FileHelper
}

// NewImpactUseCase creates an impact use case
func NewImpactUseCase(analyzer ProjectAnalyzer) *ImpactUseCase {
	return &ImpactUseCase{analyzer: analyzer, fileHelper: NewFileHelper()}
}

// Execute analyzes req.Root and computes the impact of changing target, a
// path relative to the root or to the working directory
func (uc *ImpactUseCase) Execute(ctx context.Context, req domain.AnalysisRequest, target string) (*ImpactResult, error) {
	if req.Root == "" {
		return nil, domain.NewInvalidInputError("project root is required", nil)
	}

	rel, err := uc.fileHelper.ResolveTarget(req.Root, target)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid target %q", target), err)
	}

	response, engine, err := uc.analyzer.AnalyzeProject(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, ok := engine.Graph().Lookup(rel); !ok {
		return nil, domain.NewNotFoundError(fmt.Sprintf("file %s in the analyzed project", rel))
	}

	return &ImpactResult{
		Target:   rel,
		Impact:   engine.ChangeImpact(rel),
		Report:   engine.ImpactReport(rel),
		Response: response,
	}, nil
}
