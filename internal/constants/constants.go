package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "depscope"

	// ConfigFileName is the default config file name
	ConfigFileName = ".depscope.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "DEPSCOPE"
)

// ConfigFileNames are searched in order in each directory
var ConfigFileNames = []string{
	".depscope.yaml",
	".depscope.yml",
	".depscope.toml",
	"depscope.json",
}

// DefaultIgnoredFolders are never descended into during a scan
var DefaultIgnoredFolders = []string{
	"node_modules",
	".git",
	".next",
	"dist",
	"build",
	"coverage",
}

// DefaultIncludeExtensions are the file extensions ingested by default
var DefaultIncludeExtensions = []string{
	".tsx", ".ts", ".jsx", ".js", ".mjs", ".cjs",
	".css", ".json", ".md",
}

// DefaultAliasPrefixes are bare specifier prefixes treated as project-local
var DefaultAliasPrefixes = []string{"@/", "~/"}

// Scan limits
const (
	DefaultMaxFileSize    = 1 << 20 // 1 MiB
	DefaultMaxGoroutines  = 8
	DefaultTimeoutSeconds = 300
)

// Check thresholds
const (
	DefaultMaxCycles          = 0
	DefaultMinMaintainability = 50
	DefaultMaxDepth           = 10
)

// Exit codes of the check command
const (
	ExitCodePass      = 0
	ExitCodeViolation = 1
	ExitCodeError     = 2
)

// Server defaults
const (
	DefaultServerAddress     = ":8080"
	DefaultMaxStoredAnalyses = 100
)

// LLM defaults
const (
	DefaultLLMModel     = "gpt-4o-mini"
	DefaultLLMAPIKeyEnv = "OPENAI_API_KEY"
)
