package domain

// CheckThresholds are the limits enforced by the check command
type CheckThresholds struct {
	MaxCycles          int  `json:"max_cycles" yaml:"max_cycles"`
	MinMaintainability int  `json:"min_maintainability" yaml:"min_maintainability"`
	MaxDepth           int  `json:"max_depth" yaml:"max_depth"`
	AllowOrphans       bool `json:"allow_orphans" yaml:"allow_orphans"`
}

// CheckResult represents the result of a quality check
type CheckResult struct {
	Passed      bool             `json:"passed"`
	ExitCode    int              `json:"exit_code"`
	Violations  []CheckViolation `json:"violations"`
	Summary     CheckSummary     `json:"summary"`
	Duration    int64            `json:"duration_ms"`
	GeneratedAt string           `json:"generated_at"`
	Version     string           `json:"version"`
}

// CheckViolation represents a single threshold violation
type CheckViolation struct {
	Rule      string `json:"rule"`               // max-cycles, min-maintainability, ...
	Severity  string `json:"severity"`           // error, warning
	Message   string `json:"message"`            // Human-readable description
	Location  string `json:"location,omitempty"` // File path if applicable
	Actual    string `json:"actual"`
	Threshold string `json:"threshold,omitempty"`
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesAnalyzed        int    `json:"files_analyzed"`
	TotalViolations      int    `json:"total_violations"`
	CircularDependencies int    `json:"circular_dependencies"`
	MaxDepth             int    `json:"max_depth"`
	Maintainability      int    `json:"maintainability"`
	Orphans              int    `json:"orphans"`
	HealthGrade          string `json:"health_grade"`
}
