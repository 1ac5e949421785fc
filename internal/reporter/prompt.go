package reporter

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/depscope/domain"
)

// AIPrompt renders the consultation prompt meant to be pasted into an
// assistant. It returns an empty string when nothing was analyzed.
func (r *Reporter) AIPrompt(in *domain.Insight) string {
	if !in.HasFiles() {
		return ""
	}

	var hot []string
	for _, f := range in.Hotspots {
		hot = append(hot, fmt.Sprintf("- **%s** (%d dependencies)", f.Name, len(f.ImportedBy)))
	}

	var issues []string
	for _, s := range in.Suggestions {
		issues = append(issues, "- "+s)
	}

	cycles := "- None detected ✅"
	if len(in.Cycles) > 0 {
		lines := make([]string, len(in.Cycles))
		for i, c := range in.Cycles {
			lines[i] = fmt.Sprintf("- Cycle %d: %s", i+1, strings.Join(shortNames(c), " → "))
		}
		cycles = strings.Join(lines, "\n")
	}

	var b strings.Builder
	b.WriteString("# Project Analysis Request\n\n")
	b.WriteString("## Context\n")
	b.WriteString("I'm sharing my project's dependency analysis. Please review and provide architectural guidance.\n\n")
	fmt.Fprintf(&b, "## Project Health Score: %s\n\n", HealthGrade(in.Stats.MaintainabilityScore))
	b.WriteString("### Key Metrics\n")
	fmt.Fprintf(&b, "- **Files**: %d\n", in.Stats.TotalFiles)
	fmt.Fprintf(&b, "- **Dependencies**: %d  \n", in.Stats.TotalDependencies)
	fmt.Fprintf(&b, "- **Reusability**: %d%%\n", in.Stats.ReuseabilityScore)
	fmt.Fprintf(&b, "- **Maintainability**: %d%%\n\n", in.Stats.MaintainabilityScore)
	b.WriteString("### Critical Files (Hotspots)\n")
	b.WriteString(strings.Join(hot, "\n"))
	b.WriteString("\n\n### Issues Found\n")
	b.WriteString(strings.Join(issues, "\n"))
	b.WriteString("\n\n### Circular Dependencies\n")
	b.WriteString(cycles)
	b.WriteString("\n\n## What I Need Help With:\n")
	b.WriteString("1. **Architecture Review** - Is my current structure scalable?\n")
	b.WriteString("2. **Refactoring Priority** - Which issues should I tackle first?\n")
	b.WriteString("3. **Best Practices** - What patterns should I adopt?\n")
	b.WriteString("4. **Performance** - Any potential bottlenecks?\n\n")
	b.WriteString("Please provide specific, actionable advice for improvement.")
	return b.String()
}
