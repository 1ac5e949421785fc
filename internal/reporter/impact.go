package reporter

import (
	"fmt"
	"math"
	"strings"

	"github.com/ludo-technologies/depscope/domain"
)

// tokensPerSharedFile is the flat per-file context estimate of the sharing summary
const tokensPerSharedFile = 100

// ImpactReport renders a change impact result for one file
func (r *Reporter) ImpactReport(path string, impact domain.ChangeImpact) string {
	target, ok := r.nodes.Node(path)
	if !ok {
		return fmt.Sprintf("# File not found: %s\n\nPlease check the file path and try again.", path)
	}
	name := ShortName(path)

	var b strings.Builder
	b.WriteString("# Change Impact Analysis\n\n")
	fmt.Fprintf(&b, "## Target File: `%s`\n", name)
	fmt.Fprintf(&b, "**Path**: `%s`\n", path)
	fmt.Fprintf(&b, "**Type**: %s\n", target.Kind)
	fmt.Fprintf(&b, "**Risk Level**: %s\n\n", target.Risk)

	if len(impact.RequiredFiles) > 0 {
		b.WriteString("## 📋 Required Files (Dependencies)\n")
		fmt.Fprintf(&b, "**Include these files when modifying `%s`:**\n\n", name)
		r.writeFileList(&b, impact.RequiredFiles)
	}

	if len(impact.DirectDependents) > 0 {
		b.WriteString("## ⚠️ Direct Impact (Files Using This File)\n")
		b.WriteString("**These files will be directly affected:**\n\n")
		r.writeFileList(&b, impact.DirectDependents)
	}

	if len(impact.IndirectDependents) > 0 {
		b.WriteString("## 🔄 Indirect Impact (Chain Effects)\n")
		b.WriteString("**These files may be indirectly affected:**\n\n")
		r.writeFileList(&b, impact.IndirectDependents)
	}

	related := append(append([]string{}, impact.RequiredFiles...), impact.AllAffectedFiles...)
	if len(related) > 0 {
		b.WriteString("## 🤖 AI Sharing Summary\n")
		fmt.Fprintf(&b, "**When asking AI about `%s`, include these %d related files:**\n\n", name, len(related))
		b.WriteString("```\n")
		for _, f := range related {
			b.WriteString(ShortName(f) + "\n")
		}
		b.WriteString("```\n\n")
		tokens := int(math.Ceil(float64(len(related)*tokensPerSharedFile) / 4))
		fmt.Fprintf(&b, "**Total context size**: ~%d tokens (estimated)\n\n", tokens)
	}

	if len(impact.RequiredFiles) == 0 && len(impact.AllAffectedFiles) == 0 {
		b.WriteString("## ✅ Isolated File\n")
		b.WriteString("This file has no dependencies and is not used by other files.\n")
		b.WriteString("It can be safely modified or removed without affecting other parts of the codebase.\n\n")
	}

	return b.String()
}

func (r *Reporter) writeFileList(b *strings.Builder, files []string) {
	for _, f := range files {
		kind := "unknown"
		if n, ok := r.nodes.Node(f); ok {
			kind = string(n.Kind)
		}
		fmt.Fprintf(b, "- `%s` - %s\n", ShortName(f), kind)
	}
	b.WriteString("\n")
}
