package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/reporter"
)

// Maximum entries listed per section of the text summary
const (
	textMaxHotspots  = 10
	textMaxLibraries = 10
	textMaxWarnings  = 20
	textMaxModules   = 10
)

// textStyles holds the styles of one text render, bound to the writer's
// color profile
type textStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
	risk    map[domain.RiskLevel]lipgloss.Style
	grade   lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		section: r.NewStyle().Bold(true).Underline(true),
		label:   r.NewStyle().Foreground(lipgloss.Color("245")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("240")),
		grade:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		risk: map[domain.RiskLevel]lipgloss.Style{
			domain.RiskLevelLow:    r.NewStyle().Foreground(lipgloss.Color("10")),
			domain.RiskLevelMedium: r.NewStyle().Foreground(lipgloss.Color("11")),
			domain.RiskLevelHigh:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		},
	}
}

// writeText writes the human-readable terminal summary
func (f *OutputFormatterImpl) writeText(response *domain.AnalysisResponse, w io.Writer) error {
	s := newTextStyles(w)
	in := response.Insight
	stats := in.Stats

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", s.title.Render("=== depscope Dependency Analysis ==="))
	fmt.Fprintf(&b, "%s %s\n", s.label.Render("Generated:"), response.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "%s %s\n", s.label.Render("Version:"), response.Version)
	if response.Root != "" {
		fmt.Fprintf(&b, "%s %s\n", s.label.Render("Root:"), response.Root)
	}
	b.WriteString("\n")

	if !in.HasFiles() {
		b.WriteString("No files analyzed.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "%s\n", s.section.Render("Summary"))
	fmt.Fprintf(&b, "  Files: %d\n", stats.TotalFiles)
	fmt.Fprintf(&b, "  Dependencies: %d\n", stats.TotalDependencies)
	fmt.Fprintf(&b, "  Average imports per file: %s\n", formatFloat(stats.AverageImportsPerFile))
	fmt.Fprintf(&b, "  Max depth: %d\n", in.Depth)
	fmt.Fprintf(&b, "  Circular dependencies: %d\n", len(in.Cycles))
	fmt.Fprintf(&b, "  Reusability: %d/100\n", stats.ReuseabilityScore)
	fmt.Fprintf(&b, "  Complexity: %d/100\n", stats.ComplexityScore)
	fmt.Fprintf(&b, "  Maintainability: %d/100 %s\n", stats.MaintainabilityScore,
		s.grade.Render(fmt.Sprintf("(%s, %s)", reporter.HealthGrade(stats.MaintainabilityScore), reporter.ScoreStatus(stats.MaintainabilityScore))))
	b.WriteString("\n")

	if len(in.Hotspots) > 0 {
		fmt.Fprintf(&b, "%s\n", s.section.Render("Hotspots"))
		for i, n := range in.Hotspots {
			if i == textMaxHotspots {
				break
			}
			risk := s.risk[n.Risk].Render(fmt.Sprintf("[%s]", strings.ToUpper(string(n.Risk))))
			fmt.Fprintf(&b, "  %s %s\n", n.Path, risk)
			fmt.Fprintf(&b, "    %s\n", s.dim.Render(fmt.Sprintf("%s, score %d, imported by %d, imports %d",
				n.Kind, n.Score, len(n.ImportedBy), len(n.Imports))))
		}
		b.WriteString("\n")
	}

	if len(in.Cycles) > 0 {
		fmt.Fprintf(&b, "%s\n", s.section.Render("Circular Dependencies"))
		for _, cycle := range in.Cycles {
			fmt.Fprintf(&b, "  %s\n", strings.Join(cycle, " → "))
		}
		b.WriteString("\n")
	}

	if len(in.Orphans) > 0 {
		fmt.Fprintf(&b, "%s\n", s.section.Render("Orphaned Files"))
		for _, n := range in.Orphans {
			fmt.Fprintf(&b, "  %s\n", n.Path)
		}
		b.WriteString("\n")
	}

	if len(response.ExternalLibraries) > 0 {
		fmt.Fprintf(&b, "%s\n", s.section.Render("External Libraries"))
		for i, lib := range response.ExternalLibraries {
			if i == textMaxLibraries {
				fmt.Fprintf(&b, "  %s\n", s.dim.Render(fmt.Sprintf("... and %d more", len(response.ExternalLibraries)-textMaxLibraries)))
				break
			}
			fmt.Fprintf(&b, "  %s (%d)\n", lib.Name, lib.Count)
		}
		b.WriteString("\n")
	}

	if c := response.Coupling; c != nil && len(c.Modules) > 1 {
		fmt.Fprintf(&b, "%s\n", s.section.Render("Module Coupling"))
		fmt.Fprintf(&b, "  Average instability: %s, main sequence deviation: %s\n",
			formatFloat2(c.AverageInstability), formatFloat2(c.MainSequenceDeviation))
		for i, m := range c.Modules {
			if i == textMaxModules {
				fmt.Fprintf(&b, "  %s\n", s.dim.Render(fmt.Sprintf("... and %d more", len(c.Modules)-textMaxModules)))
				break
			}
			risk := s.risk[m.Risk].Render(fmt.Sprintf("[%s]", strings.ToUpper(string(m.Risk))))
			fmt.Fprintf(&b, "  %s %s\n", m.Module, risk)
			fmt.Fprintf(&b, "    %s\n", s.dim.Render(fmt.Sprintf("Ca %d, Ce %d, I %s, A %s, D %s, %s",
				m.AfferentCoupling, m.EfferentCoupling, formatFloat2(m.Instability),
				formatFloat2(m.Abstractness), formatFloat2(m.Distance), m.Zone)))
		}
		b.WriteString("\n")
	}

	if len(in.Suggestions) > 0 {
		fmt.Fprintf(&b, "%s\n", s.section.Render("Suggestions"))
		for _, sug := range in.Suggestions {
			fmt.Fprintf(&b, "  - %s\n", sug)
		}
		b.WriteString("\n")
	}

	if len(response.Findings) > 0 {
		fmt.Fprintf(&b, "%s\n", s.section.Render("Findings"))
		for _, finding := range response.Findings {
			location := finding.File
			if finding.Line > 0 {
				location = fmt.Sprintf("%s:%d", finding.File, finding.Line)
			}
			fmt.Fprintf(&b, "  [%s] %s %s\n", finding.Severity, location, finding.Message)
		}
		b.WriteString("\n")
	}

	writeList(&b, s, "Warnings", response.Warnings)
	writeList(&b, s, "Skipped Files", response.SkippedFiles)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, s textStyles, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n", s.section.Render(title))
	for i, item := range items {
		if i == textMaxWarnings {
			fmt.Fprintf(b, "  %s\n", s.dim.Render(fmt.Sprintf("... and %d more", len(items)-textMaxWarnings)))
			break
		}
		fmt.Fprintf(b, "  - %s\n", item)
	}
	b.WriteString("\n")
}

// formatFloat2 prints v with two decimals
func formatFloat2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatFloat prints v with at most one decimal, dropping a trailing ".0"
func formatFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
