package reporter

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/depscope/domain"
)

// ErrorReport renders findings of the error detector grouped by severity
func (r *Reporter) ErrorReport(findings []domain.CodeError) string {
	var errs, warnings, infos []domain.CodeError
	for _, f := range findings {
		switch f.Severity {
		case domain.SeverityError:
			errs = append(errs, f)
		case domain.SeverityWarning:
			warnings = append(warnings, f)
		case domain.SeverityInfo:
			infos = append(infos, f)
		}
	}

	var b strings.Builder
	b.WriteString("# 🔍 Code Analysis Report\n\n")
	fmt.Fprintf(&b, "**Generated**: %s\n\n", r.timestamp())

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- 🔴 **Errors**: %d\n", len(errs))
	fmt.Fprintf(&b, "- 🟡 **Warnings**: %d\n", len(warnings))
	fmt.Fprintf(&b, "- 🔵 **Info**: %d\n\n", len(infos))

	if len(errs) > 0 {
		fmt.Fprintf(&b, "## 🔴 Errors (%d)\n\n", len(errs))
		for i, e := range errs {
			fmt.Fprintf(&b, "### %d. %s\n", i+1, e.Message)
			fmt.Fprintf(&b, "- **File**: `%s`%s\n", e.File, lineSuffix(e.Line))
			fmt.Fprintf(&b, "- **Type**: %s\n", strings.ReplaceAll(e.Type, "_", " "))
			writeFindingExtras(&b, e)
		}
	}

	if len(warnings) > 0 {
		fmt.Fprintf(&b, "## 🟡 Warnings (%d)\n\n", len(warnings))
		for i, w := range warnings {
			fmt.Fprintf(&b, "### %d. %s\n", i+1, w.Message)
			fmt.Fprintf(&b, "- **File**: `%s`%s\n", w.File, lineSuffix(w.Line))
			writeFindingExtras(&b, w)
		}
	}

	if len(infos) > 0 {
		fmt.Fprintf(&b, "## 🔵 Info (%d)\n\n", len(infos))
		for _, in := range infos {
			fmt.Fprintf(&b, "- %s in `%s`%s\n", in.Message, in.File, lineSuffix(in.Line))
		}
	}

	if len(findings) == 0 {
		b.WriteString("## ✅ No Issues Found!\n\n")
		b.WriteString("Your code looks clean! Keep up the good work.\n")
	}

	return b.String()
}

func writeFindingExtras(b *strings.Builder, f domain.CodeError) {
	if f.Details != "" {
		fmt.Fprintf(b, "- **Details**: %s\n", f.Details)
	}
	if f.QuickFix != "" {
		fmt.Fprintf(b, "- **Quick Fix**: %s\n", f.QuickFix)
	}
	b.WriteString("\n")
}

func lineSuffix(line int) string {
	if line <= 0 {
		return ""
	}
	return fmt.Sprintf(" (line %d)", line)
}
