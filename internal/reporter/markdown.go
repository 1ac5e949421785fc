package reporter

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/depscope/domain"
)

// Markdown renders the full human-readable report. It returns an empty
// string when nothing was analyzed.
func (r *Reporter) Markdown(in *domain.Insight) string {
	if !in.HasFiles() {
		return ""
	}
	s := in.Stats

	var b strings.Builder
	b.WriteString("# 🔍 Smart Dependency Analysis Report\n\n")

	b.WriteString("## 📊 Project Overview\n")
	fmt.Fprintf(&b, "- **Generated**: %s\n", r.timestamp())
	fmt.Fprintf(&b, "- **Total Files**: %d\n", s.TotalFiles)
	fmt.Fprintf(&b, "- **Total Dependencies**: %d\n", s.TotalDependencies)
	fmt.Fprintf(&b, "- **Average Imports/File**: %s\n", formatNumber(s.AverageImportsPerFile))
	fmt.Fprintf(&b, "- **Health Grade**: %s\n\n", HealthGrade(s.MaintainabilityScore))

	b.WriteString("## 🎯 Health Metrics\n")
	b.WriteString("| Metric | Score | Status |\n")
	b.WriteString("|--------|-------|--------|\n")
	fmt.Fprintf(&b, "| Reusability | %d%% | %s |\n", s.ReuseabilityScore, ScoreStatus(s.ReuseabilityScore))
	fmt.Fprintf(&b, "| Complexity | %d%% | %s |\n", s.ComplexityScore, ScoreStatus(s.ComplexityScore))
	fmt.Fprintf(&b, "| Maintainability | %d%% | %s |\n\n", s.MaintainabilityScore, ScoreStatus(s.MaintainabilityScore))

	b.WriteString("## 🔥 Critical Files (Hotspots)\n")
	if len(in.Hotspots) > 0 {
		items := make([]string, len(in.Hotspots))
		for i, f := range in.Hotspots {
			items[i] = fmt.Sprintf("%d. **%s** `%s`\n   - Referenced by: %d files\n   - Risk Level: %s\n",
				i+1, f.Name, f.Path, len(f.ImportedBy), f.Risk)
		}
		b.WriteString(strings.Join(items, "\n"))
	} else {
		b.WriteString("No critical dependencies found.")
	}
	b.WriteString("\n\n")

	b.WriteString("## ⚠️ Issues Detected\n")
	if len(in.Suggestions) > 0 {
		items := make([]string, len(in.Suggestions))
		for i, sg := range in.Suggestions {
			items[i] = "- " + sg
		}
		b.WriteString(strings.Join(items, "\n"))
	} else {
		b.WriteString("✅ No issues detected!")
	}
	b.WriteString("\n\n")

	b.WriteString("## 🔄 Circular Dependencies\n")
	if len(in.Cycles) > 0 {
		items := make([]string, len(in.Cycles))
		for i, c := range in.Cycles {
			items[i] = fmt.Sprintf("### Cycle %d\n```\n%s\n```", i+1, strings.Join(c, " → "))
		}
		b.WriteString(strings.Join(items, "\n\n"))
	} else {
		b.WriteString("✅ No circular dependencies found.")
	}
	b.WriteString("\n\n")

	b.WriteString("## 🗑️ Unused Files\n")
	if len(in.Orphans) > 0 {
		items := make([]string, len(in.Orphans))
		for i, f := range in.Orphans {
			items[i] = fmt.Sprintf("- `%s`", f.Path)
		}
		b.WriteString(strings.Join(items, "\n"))
	} else {
		b.WriteString("✅ No unused files found.")
	}
	b.WriteString("\n\n")

	b.WriteString("## 💡 Recommendations\n")
	b.WriteString("1. **Focus on hotspots** - Review files with high dependency counts\n")
	b.WriteString("2. **Clean up orphans** - Remove unused files to reduce maintenance overhead\n")
	b.WriteString("3. **Break cycles** - Refactor circular dependencies for better modularity\n")
	b.WriteString("4. **Monitor depth** - Keep dependency chains shallow for better maintainability\n\n")
	b.WriteString("---\n*Generated by Smart Dependency Analyzer*")
	return b.String()
}
