package domain

import (
	"context"
	"io"
	"time"
)

// OutputFormat represents the supported output formats of the analyze command
type OutputFormat string

const (
	OutputFormatText         OutputFormat = "text"
	OutputFormatJSON         OutputFormat = "json"
	OutputFormatYAML         OutputFormat = "yaml"
	OutputFormatMarkdown     OutputFormat = "markdown"
	OutputFormatPrompt       OutputFormat = "prompt"
	OutputFormatCompact      OutputFormat = "compact"
	OutputFormatRelationship OutputFormat = "relationship"
	OutputFormatDOT          OutputFormat = "dot"
	OutputFormatMermaid      OutputFormat = "mermaid"
)

// OutputFormats lists every accepted output format
var OutputFormats = []OutputFormat{
	OutputFormatText,
	OutputFormatJSON,
	OutputFormatYAML,
	OutputFormatMarkdown,
	OutputFormatPrompt,
	OutputFormatCompact,
	OutputFormatRelationship,
	OutputFormatDOT,
	OutputFormatMermaid,
}

// ParseOutputFormat validates an output format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	for _, f := range OutputFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", NewUnsupportedFormatError(s)
}

// AnalysisRequest describes one project analysis
type AnalysisRequest struct {
	// Project root to scan
	Root string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	OutputDir    string
	ShowProgress bool

	// Scan options
	IncludeExtensions  []string
	IgnoredFolders     []string
	AliasPrefixes      []string
	IncludeTypeImports bool
	RespectGitignore   bool
	FollowSymlinks     bool
	MaxFileSize        int64

	// Error detection collaborator
	DetectErrors bool

	// Performance
	MaxGoroutines int
	Timeout       time.Duration

	ConfigPath string
}

// AnalysisResponse is the complete result handed to formatters
type AnalysisResponse struct {
	Root              string            `json:"root" yaml:"root"`
	Insight           *Insight          `json:"insight" yaml:"insight"`
	Nodes             []GraphNode       `json:"nodes" yaml:"nodes"`
	ExternalLibraries []ExternalLibrary `json:"externalLibraries" yaml:"external_libraries"`
	Coupling          *CouplingAnalysis `json:"coupling,omitempty" yaml:"coupling,omitempty"`
	Findings          []CodeError       `json:"findings,omitempty" yaml:"findings,omitempty"`
	SkippedFiles      []string          `json:"skippedFiles,omitempty" yaml:"skipped_files,omitempty"`
	Warnings          []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	GeneratedAt       time.Time         `json:"generatedAt" yaml:"generated_at"`
	Version           string            `json:"version" yaml:"version"`
}

// ScanOptions controls project ingestion
type ScanOptions struct {
	IncludeExtensions  []string
	IgnoredFolders     []string
	AliasPrefixes      []string
	IncludeTypeImports bool
	RespectGitignore   bool
	FollowSymlinks     bool
	MaxFileSize        int64
	MaxGoroutines      int
}

// ScanResult is the output of the ingestion collaborator
type ScanResult struct {
	Root      string
	Structure FileStructure
	Contents  map[string]string
	Skipped   []string
}

// ProjectScanner walks a project and extracts per-file import facts
type ProjectScanner interface {
	Scan(ctx context.Context, root string, opts ScanOptions) (*ScanResult, error)
}

// AnalysisService runs ingestion and the engine for a request
type AnalysisService interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error)
}

// OutputFormatter defines the interface for formatting analysis results
type OutputFormatter interface {
	// Format formats the analysis response according to the specified format
	Format(response *AnalysisResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *AnalysisResponse, format OutputFormat, writer io.Writer) error
}

// ExecutableTask is one unit of work run by a parallel executor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) error
	IsEnabled() bool
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*AnalysisRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *AnalysisRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *AnalysisRequest, override *AnalysisRequest) *AnalysisRequest
}

// ProgressManager creates progress tasks for long running operations
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
