package reporter

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ludo-technologies/depscope/domain"
)

// Compact summary caps
const (
	compactHotspots    = 3
	compactSuggestions = 5
)

// CompactSummary is the token-lean structured summary
type CompactSummary struct {
	Meta        CompactMeta         `json:"meta" yaml:"meta"`
	Metrics     domain.ProjectStats `json:"metrics" yaml:"metrics"`
	Hotspots    []CompactHotspot    `json:"hotspots" yaml:"hotspots"`
	Issues      CompactIssues       `json:"issues" yaml:"issues"`
	Suggestions []string            `json:"suggestions" yaml:"suggestions"`
}

type CompactMeta struct {
	Timestamp   string `json:"timestamp" yaml:"timestamp"`
	TotalFiles  int    `json:"totalFiles" yaml:"total_files"`
	HealthGrade string `json:"healthGrade" yaml:"health_grade"`
}

type CompactHotspot struct {
	Name         string           `json:"name" yaml:"name"`
	Path         string           `json:"path" yaml:"path"`
	Dependencies int              `json:"dependencies" yaml:"dependencies"`
	Risk         domain.RiskLevel `json:"risk" yaml:"risk"`
}

type CompactIssues struct {
	Unused   int `json:"unused" yaml:"unused"`
	Cycles   int `json:"cycles" yaml:"cycles"`
	MaxDepth int `json:"maxDepth" yaml:"max_depth"`
}

// CompactSummary builds the summary, or nil when nothing was analyzed
func (r *Reporter) CompactSummary(in *domain.Insight) *CompactSummary {
	if !in.HasFiles() {
		return nil
	}

	hot := in.Hotspots
	if len(hot) > compactHotspots {
		hot = hot[:compactHotspots]
	}
	hotspots := make([]CompactHotspot, len(hot))
	for i, f := range hot {
		hotspots[i] = CompactHotspot{
			Name:         f.Name,
			Path:         f.Path,
			Dependencies: len(f.ImportedBy),
			Risk:         f.Risk,
		}
	}

	sugg := in.Suggestions
	if len(sugg) > compactSuggestions {
		sugg = sugg[:compactSuggestions]
	}

	return &CompactSummary{
		Meta: CompactMeta{
			Timestamp:   r.timestamp(),
			TotalFiles:  in.Stats.TotalFiles,
			HealthGrade: HealthGrade(in.Stats.MaintainabilityScore),
		},
		Metrics:  in.Stats,
		Hotspots: hotspots,
		Issues: CompactIssues{
			Unused:   len(in.Orphans),
			Cycles:   len(in.Cycles),
			MaxDepth: in.Depth,
		},
		Suggestions: append([]string{}, sugg...),
	}
}

// CompactJSON renders the summary as two-space indented JSON, or "{}" when
// nothing was analyzed
func (r *Reporter) CompactJSON(in *domain.Insight) string {
	summary := r.CompactSummary(in)
	if summary == nil {
		return "{}"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return "{}"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
