package config

import (
	"strconv"
	"strings"
)

// ProjectType represents the type of JavaScript/TypeScript project
type ProjectType string

const (
	ProjectTypeGeneric     ProjectType = "generic"
	ProjectTypeNext        ProjectType = "next"
	ProjectTypeVue         ProjectType = "vue"
	ProjectTypeNodeBackend ProjectType = "node"
)

// ProjectTypes lists the project types offered by init
var ProjectTypes = []ProjectType{ProjectTypeGeneric, ProjectTypeNext, ProjectTypeVue, ProjectTypeNodeBackend}

// Strictness represents the check gate strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// Strictnesses lists the strictness levels offered by init
var Strictnesses = []Strictness{StrictnessRelaxed, StrictnessStandard, StrictnessStrict}

// ProjectPreset holds scan presets for different project types
type ProjectPreset struct {
	IncludeExtensions []string
	IgnoredFolders    []string
	AliasPrefixes     []string
}

// StrictnessPreset holds check thresholds for different strictness levels
type StrictnessPreset struct {
	MaxCycles          int
	MinMaintainability int
	MaxDepth           int
	AllowOrphans       bool
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludeExtensions: []string{".tsx", ".ts", ".jsx", ".js"},
			IgnoredFolders:    []string{"node_modules", ".git", "dist", "build"},
			AliasPrefixes:     []string{},
		},
		ProjectTypeNext: {
			IncludeExtensions: []string{".tsx", ".ts", ".jsx", ".js", ".css", ".json", ".md"},
			IgnoredFolders:    []string{"node_modules", ".git", ".next", "dist", "build", "coverage"},
			AliasPrefixes:     []string{"@/"},
		},
		ProjectTypeVue: {
			IncludeExtensions: []string{".ts", ".js", ".vue"},
			IgnoredFolders:    []string{"node_modules", ".git", ".nuxt", "dist", "build", "coverage"},
			AliasPrefixes:     []string{"@/", "~/"},
		},
		ProjectTypeNodeBackend: {
			IncludeExtensions: []string{".ts", ".js", ".mjs", ".cjs", ".json"},
			IgnoredFolders:    []string{"node_modules", ".git", "dist", "build", "coverage", "__tests__"},
			AliasPrefixes:     []string{},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MaxCycles:          5,
			MinMaintainability: 30,
			MaxDepth:           15,
			AllowOrphans:       true,
		},
		StrictnessStandard: {
			MaxCycles:          0,
			MinMaintainability: 50,
			MaxDepth:           10,
			AllowOrphans:       true,
		},
		StrictnessStrict: {
			MaxCycles:          0,
			MinMaintainability: 70,
			MaxDepth:           6,
			AllowOrphans:       false,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	preset, ok := GetProjectPresets()[projectType]
	if !ok {
		preset = GetProjectPresets()[ProjectTypeGeneric]
	}
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	return `# depscope Configuration
# Documentation: https://github.com/ludo-technologies/depscope

# ============================================================================
# SCAN
# ============================================================================
# Controls which files are ingested into the dependency graph
scan:
  # File extensions to ingest
  include_extensions: ` + formatYAMLList(preset.IncludeExtensions) + `

  # Directory names that are never descended into
  ignored_folders: ` + formatYAMLList(preset.IgnoredFolders) + `

  # Bare specifier prefixes resolved as project files (tsconfig paths)
  alias_prefixes: ` + formatYAMLList(preset.AliasPrefixes) + `

  # Keep "import type" statements as dependencies
  include_type_imports: false

  # Skip paths matched by the project .gitignore
  respect_gitignore: true

  # Ingest files reached through symbolic links
  follow_symlinks: false

  # Maximum file size in bytes (0 = no limit)
  max_file_size: 1048576

  # Report unresolved imports, missing exports and other findings
  detect_errors: false

# ============================================================================
# OUTPUT
# ============================================================================
output:
  # text, json, yaml, markdown, prompt, compact, relationship, dot, mermaid
  format: text

  # Directory for report files (empty = stdout)
  directory: ""

  # Show progress bars in interactive terminals
  show_progress: true

# ============================================================================
# CHECK
# ============================================================================
# Thresholds enforced by "depscope check" (exit code 1 on violation)
check:
  max_cycles: ` + strconv.Itoa(strict.MaxCycles) + `
  min_maintainability: ` + strconv.Itoa(strict.MinMaintainability) + `
  max_depth: ` + strconv.Itoa(strict.MaxDepth) + `
  allow_orphans: ` + strconv.FormatBool(strict.AllowOrphans) + `

# ============================================================================
# PERFORMANCE
# ============================================================================
performance:
  # Concurrent file parsers
  max_goroutines: 8

  # Abort an analysis after this many seconds (0 = no timeout)
  timeout_seconds: 300

# ============================================================================
# SERVER
# ============================================================================
server:
  address: ":8080"
  max_stored_analyses: 100

# ============================================================================
# LLM
# ============================================================================
# Used by "depscope ask"
llm:
  model: gpt-4o-mini
  base_url: ""
  api_key_env: OPENAI_API_KEY
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# depscope Configuration (minimal)
# See full options: https://github.com/ludo-technologies/depscope

scan:
  ignored_folders: ["node_modules", ".git", "dist", "build"]
  alias_prefixes: ["@/"]

check:
  max_cycles: 0
  min_maintainability: 50
`
}

// formatYAMLList formats a string slice as a YAML flow sequence
func formatYAMLList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = strconv.Quote(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
