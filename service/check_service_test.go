package service

import (
	"testing"
	"time"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/constants"
)

func TestCheckService_Pass(t *testing.T) {
	thresholds := domain.CheckThresholds{MaxCycles: 1, MinMaintainability: 0, MaxDepth: 0, AllowOrphans: true}

	result := NewCheckService(thresholds, false).Evaluate(sampleResponse(t), 15*time.Millisecond)

	if !result.Passed {
		t.Errorf("Expected check to pass, got violations %+v", result.Violations)
	}
	if result.ExitCode != constants.ExitCodePass {
		t.Errorf("Expected exit code %d, got %d", constants.ExitCodePass, result.ExitCode)
	}
	if result.Summary.FilesAnalyzed != 6 {
		t.Errorf("Expected 6 files analyzed, got %d", result.Summary.FilesAnalyzed)
	}
	if result.Summary.CircularDependencies != 1 {
		t.Errorf("Expected 1 cycle in summary, got %d", result.Summary.CircularDependencies)
	}
	if result.Duration != 15 {
		t.Errorf("Expected 15ms duration, got %d", result.Duration)
	}
	if result.GeneratedAt != "2025-01-02T03:04:05Z" {
		t.Errorf("Expected response timestamp, got %s", result.GeneratedAt)
	}
}

func TestCheckService_Violations(t *testing.T) {
	thresholds := domain.CheckThresholds{MaxCycles: 0, MinMaintainability: 101, MaxDepth: 1, AllowOrphans: false}

	result := NewCheckService(thresholds, false).Evaluate(sampleResponse(t), 0)

	if result.Passed {
		t.Fatal("Expected check to fail")
	}
	if result.ExitCode != constants.ExitCodeViolation {
		t.Errorf("Expected exit code %d, got %d", constants.ExitCodeViolation, result.ExitCode)
	}

	rules := map[string]bool{}
	for _, v := range result.Violations {
		rules[v.Rule] = true
	}
	for _, rule := range []string{RuleMaxCycles, RuleMinMaintainability, RuleMaxDepth, RuleNoOrphans} {
		if !rules[rule] {
			t.Errorf("Expected a %s violation, got %+v", rule, result.Violations)
		}
	}
	if result.Summary.TotalViolations != 4 {
		t.Errorf("Expected 4 violations, got %d", result.Summary.TotalViolations)
	}
}

func TestCheckService_Verbose(t *testing.T) {
	thresholds := domain.CheckThresholds{MaxCycles: 0, AllowOrphans: false}

	result := NewCheckService(thresholds, true).Evaluate(sampleResponse(t), 0)

	var cycleEntries, orphanEntries int
	for _, v := range result.Violations {
		switch v.Rule {
		case RuleCircularDependency:
			cycleEntries++
			if v.Location != "core/a.ts" {
				t.Errorf("Expected cycle location core/a.ts, got %s", v.Location)
			}
		case RuleNoOrphans:
			orphanEntries++
			if v.Location != "types/index.d.ts" {
				t.Errorf("Expected orphan location types/index.d.ts, got %s", v.Location)
			}
		}
	}
	if cycleEntries != 1 {
		t.Errorf("Expected 1 cycle entry, got %d", cycleEntries)
	}
	if orphanEntries != 1 {
		t.Errorf("Expected 1 orphan entry, got %d", orphanEntries)
	}
}

func TestCheckService_EmptyProject(t *testing.T) {
	thresholds := domain.CheckThresholds{MinMaintainability: 50, MaxDepth: 10}

	result := NewCheckService(thresholds, false).Evaluate(emptyResponse(t), 0)

	if !result.Passed {
		t.Errorf("Expected empty project to pass, got %+v", result.Violations)
	}
}
