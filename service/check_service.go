package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/constants"
	"github.com/ludo-technologies/depscope/internal/reporter"
)

// Check rule names
const (
	RuleMaxCycles          = "max-cycles"
	RuleCircularDependency = "circular-dependency"
	RuleMinMaintainability = "min-maintainability"
	RuleMaxDepth           = "max-depth"
	RuleNoOrphans          = "no-orphans"
)

// CheckService evaluates an analysis against quality thresholds for CI gates
type CheckService struct {
	thresholds domain.CheckThresholds
	verbose    bool
}

// NewCheckService creates a check service. In verbose mode every cycle and
// orphan gets its own violation entry.
func NewCheckService(thresholds domain.CheckThresholds, verbose bool) *CheckService {
	return &CheckService{thresholds: thresholds, verbose: verbose}
}

// Evaluate checks the response. A zero MinMaintainability or MaxDepth
// disables that rule; MaxCycles 0 allows no cycles. Any violation fails the
// check with ExitCodeViolation.
func (s *CheckService) Evaluate(response *domain.AnalysisResponse, duration time.Duration) *domain.CheckResult {
	in := response.Insight
	if in == nil {
		in = &domain.Insight{}
	}

	result := &domain.CheckResult{
		Passed:     true,
		ExitCode:   constants.ExitCodePass,
		Violations: []domain.CheckViolation{},
		Summary: domain.CheckSummary{
			FilesAnalyzed:        in.Stats.TotalFiles,
			CircularDependencies: len(in.Cycles),
			MaxDepth:             in.Depth,
			Maintainability:      in.Stats.MaintainabilityScore,
			Orphans:              len(in.Orphans),
			HealthGrade:          reporter.HealthGrade(in.Stats.MaintainabilityScore),
		},
		Duration:    duration.Milliseconds(),
		GeneratedAt: response.GeneratedAt.UTC().Format(time.RFC3339),
		Version:     response.Version,
	}

	t := s.thresholds

	if len(in.Cycles) > t.MaxCycles {
		result.Violations = append(result.Violations, domain.CheckViolation{
			Rule:      RuleMaxCycles,
			Severity:  domain.SeverityError,
			Message:   fmt.Sprintf("Found %d circular dependency cycles (max: %d)", len(in.Cycles), t.MaxCycles),
			Actual:    strconv.Itoa(len(in.Cycles)),
			Threshold: strconv.Itoa(t.MaxCycles),
		})
		if s.verbose {
			for _, cycle := range in.Cycles {
				result.Violations = append(result.Violations, domain.CheckViolation{
					Rule:     RuleCircularDependency,
					Severity: domain.SeverityError,
					Message:  formatCycle(cycle),
					Location: cycle[0],
					Actual:   strconv.Itoa(len(cycleMembers(cycle))),
				})
			}
		}
	}

	if t.MinMaintainability > 0 && in.HasFiles() && in.Stats.MaintainabilityScore < t.MinMaintainability {
		result.Violations = append(result.Violations, domain.CheckViolation{
			Rule:     RuleMinMaintainability,
			Severity: domain.SeverityError,
			Message: fmt.Sprintf("Maintainability score %d is below %d (grade %s)",
				in.Stats.MaintainabilityScore, t.MinMaintainability, result.Summary.HealthGrade),
			Actual:    strconv.Itoa(in.Stats.MaintainabilityScore),
			Threshold: strconv.Itoa(t.MinMaintainability),
		})
	}

	if t.MaxDepth > 0 && in.Depth > t.MaxDepth {
		result.Violations = append(result.Violations, domain.CheckViolation{
			Rule:      RuleMaxDepth,
			Severity:  domain.SeverityError,
			Message:   fmt.Sprintf("Dependency depth %d exceeds %d", in.Depth, t.MaxDepth),
			Actual:    strconv.Itoa(in.Depth),
			Threshold: strconv.Itoa(t.MaxDepth),
		})
	}

	if !t.AllowOrphans && len(in.Orphans) > 0 {
		if s.verbose {
			for _, n := range in.Orphans {
				result.Violations = append(result.Violations, domain.CheckViolation{
					Rule:      RuleNoOrphans,
					Severity:  domain.SeverityWarning,
					Message:   "File is neither imported nor importing",
					Location:  n.Path,
					Actual:    "1",
					Threshold: "0",
				})
			}
		} else {
			result.Violations = append(result.Violations, domain.CheckViolation{
				Rule:      RuleNoOrphans,
				Severity:  domain.SeverityWarning,
				Message:   fmt.Sprintf("Found %d orphaned files", len(in.Orphans)),
				Actual:    strconv.Itoa(len(in.Orphans)),
				Threshold: "0",
			})
		}
	}

	result.Summary.TotalViolations = len(result.Violations)
	if len(result.Violations) > 0 {
		result.Passed = false
		result.ExitCode = constants.ExitCodeViolation
	}
	return result
}

func formatCycle(cycle []string) string {
	msg := "Circular dependency: "
	for i, p := range cycle {
		if i > 0 {
			msg += " → "
		}
		msg += p
	}
	return msg
}
