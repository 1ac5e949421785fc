package domain

// RiskLevel is the change risk of a file derived from its dependent count
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// GraphNode is a read-only snapshot of one analyzed file
type GraphNode struct {
	Path       string    `json:"path" yaml:"path"`
	Name       string    `json:"name" yaml:"name"`
	Kind       FileKind  `json:"type" yaml:"type"`
	Imports    []string  `json:"imports" yaml:"imports"`
	ImportedBy []string  `json:"importedBy" yaml:"imported_by"`
	Score      int       `json:"score" yaml:"score"`
	Risk       RiskLevel `json:"changeRisk" yaml:"change_risk"`
}

// ProjectStats holds the project-wide health metrics
type ProjectStats struct {
	TotalFiles            int     `json:"totalFiles" yaml:"total_files"`
	TotalDependencies     int     `json:"totalDependencies" yaml:"total_dependencies"`
	AverageImportsPerFile float64 `json:"averageImportsPerFile" yaml:"average_imports_per_file"`
	ReuseabilityScore     int     `json:"reuseabilityScore" yaml:"reuseability_score"`
	ComplexityScore       int     `json:"complexityScore" yaml:"complexity_score"`
	MaintainabilityScore  int     `json:"maintainabilityScore" yaml:"maintainability_score"`
}

// CodeError is a finding reported by the error detection collaborator
type CodeError struct {
	Type     string `json:"type" yaml:"type"`
	Severity string `json:"severity" yaml:"severity"`
	File     string `json:"file" yaml:"file"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Message  string `json:"message" yaml:"message"`
	Details  string `json:"details,omitempty" yaml:"details,omitempty"`
	QuickFix string `json:"quickFix,omitempty" yaml:"quick_fix,omitempty"`
}

// Code error types and severities
const (
	CodeErrorUnresolvedImport = "unresolved_import"
	CodeErrorCircular         = "circular_dependency"
	CodeErrorUnusedFile       = "unused_file"

	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Insight is the result of one analysis run
type Insight struct {
	Hotspots    []GraphNode  `json:"hotspots" yaml:"hotspots"`
	Orphans     []GraphNode  `json:"orphans" yaml:"orphans"`
	Cycles      [][]string   `json:"circularDeps" yaml:"circular_deps"`
	Depth       int          `json:"depth" yaml:"depth"`
	Suggestions []string     `json:"suggestions" yaml:"suggestions"`
	Stats       ProjectStats `json:"stats" yaml:"stats"`
	Errors      []CodeError  `json:"errors" yaml:"errors"`
}

// HasFiles reports whether the analysis saw at least one file
func (i *Insight) HasFiles() bool {
	return i != nil && i.Stats.TotalFiles > 0
}

// ChangeImpact lists the files affected by changing a single target file
type ChangeImpact struct {
	DirectDependents   []string `json:"directDependents" yaml:"direct_dependents"`
	IndirectDependents []string `json:"indirectDependents" yaml:"indirect_dependents"`
	AllAffectedFiles   []string `json:"allAffectedFiles" yaml:"all_affected_files"`
	RequiredFiles      []string `json:"requiredFiles" yaml:"required_files"`
}

// EmptyChangeImpact returns an impact with four empty (non-nil) lists
func EmptyChangeImpact() ChangeImpact {
	return ChangeImpact{
		DirectDependents:   []string{},
		IndirectDependents: []string{},
		AllAffectedFiles:   []string{},
		RequiredFiles:      []string{},
	}
}

// ReportFormat names one of the textual reports
type ReportFormat string

const (
	ReportFormatPrompt       ReportFormat = "prompt"
	ReportFormatMarkdown     ReportFormat = "markdown"
	ReportFormatJSON         ReportFormat = "json"
	ReportFormatImpact       ReportFormat = "impact"
	ReportFormatRelationship ReportFormat = "relationship"
)

// ReportFormats lists all report formats
var ReportFormats = []ReportFormat{
	ReportFormatPrompt,
	ReportFormatMarkdown,
	ReportFormatJSON,
	ReportFormatImpact,
	ReportFormatRelationship,
}

// ParseReportFormat validates a report format name
func ParseReportFormat(s string) (ReportFormat, error) {
	for _, f := range ReportFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", NewUnsupportedFormatError(s)
}
