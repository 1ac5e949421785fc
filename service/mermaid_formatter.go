package service

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ludo-technologies/depscope/domain"
)

// MermaidFormatterConfig configures the Mermaid formatter
type MermaidFormatterConfig struct {
	// Direction is the flowchart direction: TD or LR
	Direction string

	// MaxNodes caps the number of files drawn (0 = unlimited)
	MaxNodes int
}

// DefaultMermaidFormatterConfig returns the default Mermaid configuration
func DefaultMermaidFormatterConfig() *MermaidFormatterConfig {
	return &MermaidFormatterConfig{Direction: "TD"}
}

// MermaidFormatter renders the dependency graph as a Mermaid flowchart
type MermaidFormatter struct {
	config *MermaidFormatterConfig
}

// NewMermaidFormatter creates a Mermaid formatter
func NewMermaidFormatter(config *MermaidFormatterConfig) *MermaidFormatter {
	if config == nil {
		config = DefaultMermaidFormatterConfig()
	}
	return &MermaidFormatter{config: config}
}

// mermaidKindStyles are the fill and stroke colors per file kind
var mermaidKindStyles = map[domain.FileKind][2]string{
	domain.FileKindPage:      {"#8b5cf6", "#7c3aed"},
	domain.FileKindComponent: {"#3b82f6", "#2563eb"},
	domain.FileKindUtil:      {"#10b981", "#059669"},
	domain.FileKindType:      {"#f59e0b", "#d97706"},
}

// Format returns the Mermaid source of the response graph
func (f *MermaidFormatter) Format(response *domain.AnalysisResponse) (string, error) {
	var sb strings.Builder
	if err := f.Write(response, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write writes the Mermaid source of the response graph. Files are drawn in
// node order; edges to files beyond MaxNodes are omitted.
func (f *MermaidFormatter) Write(response *domain.AnalysisResponse, writer io.Writer) error {
	if response == nil {
		return fmt.Errorf("nil response")
	}

	direction := f.config.Direction
	if direction == "" {
		direction = "TD"
	}
	if direction != "TD" && direction != "LR" {
		return fmt.Errorf("invalid direction %q: must be TD or LR", direction)
	}

	nodes := response.Nodes
	truncated := 0
	if f.config.MaxNodes > 0 && len(nodes) > f.config.MaxNodes {
		truncated = len(nodes) - f.config.MaxNodes
		nodes = nodes[:f.config.MaxNodes]
	}
	drawn := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		drawn[n.Path] = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", direction)
	if truncated > 0 {
		fmt.Fprintf(&b, "  %%%% %d more files omitted\n", truncated)
	}

	for _, n := range nodes {
		fmt.Fprintf(&b, "  %s[\"%s\"]\n", mermaidID(n.Path), mermaidLabel(path.Base(n.Path)))
	}

	for _, n := range nodes {
		for _, to := range n.Imports {
			if !drawn[to] {
				continue
			}
			fmt.Fprintf(&b, "  %s --> %s\n", mermaidID(n.Path), mermaidID(to))
		}
	}

	for _, n := range nodes {
		style, ok := mermaidKindStyles[n.Kind]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  style %s fill:%s,stroke:%s,color:#fff\n", mermaidID(n.Path), style[0], style[1])
	}

	_, err := io.WriteString(writer, b.String())
	return err
}

// mermaidID turns a path into a node id by replacing every character
// outside [A-Za-z0-9] with an underscore
func mermaidID(p string) string {
	var b strings.Builder
	b.Grow(len(p))
	for _, r := range p {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// mermaidLabel escapes double quotes inside a node label
func mermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
