package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/reporter"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	dot     *DOTFormatter
	mermaid *MermaidFormatter
}

// NewOutputFormatter creates a new output formatter with default graph
// formatters
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{
		dot:     NewDOTFormatter(nil),
		mermaid: NewMermaidFormatter(nil),
	}
}

// WithDOTConfig replaces the DOT formatter configuration
func (f *OutputFormatterImpl) WithDOTConfig(config *DOTFormatterConfig) *OutputFormatterImpl {
	f.dot = NewDOTFormatter(config)
	return f
}

// WithMermaidConfig replaces the Mermaid formatter configuration
func (f *OutputFormatterImpl) WithMermaidConfig(config *MermaidFormatterConfig) *OutputFormatterImpl {
	f.mermaid = NewMermaidFormatter(config)
	return f
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Format formats the analysis response according to the specified format
func (f *OutputFormatterImpl) Format(response *domain.AnalysisResponse, format domain.OutputFormat) (string, error) {
	var sb strings.Builder
	if err := f.Write(response, format, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write writes the analysis response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.AnalysisResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil || response.Insight == nil {
		return domain.NewOutputError("nothing to format", nil)
	}

	var err error
	switch format {
	case domain.OutputFormatText:
		err = f.writeText(response, writer)
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, response)
	case domain.OutputFormatMarkdown:
		err = writeReport(writer, markdownWithFindings(response))
	case domain.OutputFormatPrompt:
		err = writeReport(writer, responseReporter(response).AIPrompt(response.Insight))
	case domain.OutputFormatCompact:
		err = writeReport(writer, responseReporter(response).CompactJSON(response.Insight))
	case domain.OutputFormatRelationship:
		err = writeReport(writer, responseReporter(response).RelationshipMap())
	case domain.OutputFormatDOT:
		err = f.dot.Write(response, writer)
	case domain.OutputFormatMermaid:
		err = f.mermaid.Write(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}

	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write %s output", format), err)
	}
	return nil
}

// responseReporter builds a reporter over the response's node snapshot with
// the response timestamp, so re-rendering is deterministic
func responseReporter(response *domain.AnalysisResponse) *reporter.Reporter {
	generatedAt := response.GeneratedAt
	return reporter.New(
		reporter.NewSnapshot(response.Nodes),
		reporter.WithClock(func() time.Time { return generatedAt }),
	)
}

// markdownWithFindings appends the error report when findings exist
func markdownWithFindings(response *domain.AnalysisResponse) string {
	r := responseReporter(response)
	md := r.Markdown(response.Insight)
	if len(response.Findings) == 0 {
		return md
	}
	return md + "\n" + r.ErrorReport(response.Findings)
}

// writeReport writes a rendered report terminated by a newline
func writeReport(writer io.Writer, report string) error {
	if report != "" && !strings.HasSuffix(report, "\n") {
		report += "\n"
	}
	_, err := io.WriteString(writer, report)
	return err
}
