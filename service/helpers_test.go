package service

import (
	"context"
	"testing"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/testutil"
)

// sampleStructure is a small project with one two-file cycle and one orphan
func sampleStructure() domain.FileStructure {
	return testutil.Structure(
		testutil.File("app/page.tsx", domain.FileKindPage, "../components/Header", "../lib/utils"),
		testutil.File("components/Header.tsx", domain.FileKindComponent, "../lib/utils"),
		testutil.File("lib/utils.ts", domain.FileKindUtil),
		testutil.File("types/index.d.ts", domain.FileKindType),
		testutil.File("core/a.ts", domain.FileKindOther, "./b"),
		testutil.File("core/b.ts", domain.FileKindOther, "./a"),
	)
}

// sampleResponse analyzes sampleStructure with a fixed clock
func sampleResponse(t *testing.T) *domain.AnalysisResponse {
	t.Helper()
	svc := NewAnalysisService(nil, WithClock(testutil.FixedClock))
	resp, _ := svc.AnalyzeStructure(context.Background(), sampleStructure(), nil, false)
	if resp == nil || !resp.Insight.HasFiles() {
		t.Fatal("Expected a non-empty analysis response")
	}
	return resp
}

// emptyResponse is the analysis of a project without files
func emptyResponse(t *testing.T) *domain.AnalysisResponse {
	t.Helper()
	svc := NewAnalysisService(nil, WithClock(testutil.FixedClock))
	resp, _ := svc.AnalyzeStructure(context.Background(), domain.FileStructure{}, nil, false)
	return resp
}
