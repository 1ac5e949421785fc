package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Scan controls which files are ingested and how imports are extracted
	Scan ScanConfig `json:"scan" mapstructure:"scan" yaml:"scan"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Check holds the CI gate thresholds
	Check CheckConfig `json:"check" mapstructure:"check" yaml:"check"`

	// Performance holds concurrency and timeout limits
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Server holds HTTP API settings
	Server ServerConfig `json:"server" mapstructure:"server" yaml:"server"`

	// LLM holds settings for the AI consultation command
	LLM LLMConfig `json:"llm" mapstructure:"llm" yaml:"llm"`
}

// ScanConfig holds project ingestion configuration
type ScanConfig struct {
	// IncludeExtensions lists the file extensions that are ingested
	IncludeExtensions []string `json:"include_extensions" mapstructure:"include_extensions" yaml:"include_extensions"`

	// IgnoredFolders are directory names never descended into
	IgnoredFolders []string `json:"ignored_folders" mapstructure:"ignored_folders" yaml:"ignored_folders"`

	// AliasPrefixes are bare specifier prefixes treated as project-local (e.g. "@/")
	AliasPrefixes []string `json:"alias_prefixes" mapstructure:"alias_prefixes" yaml:"alias_prefixes"`

	// IncludeTypeImports keeps `import type` specifiers as graph edges
	IncludeTypeImports bool `json:"include_type_imports" mapstructure:"include_type_imports" yaml:"include_type_imports"`

	// RespectGitignore skips paths matched by the root .gitignore
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`

	// FollowSymlinks controls whether symlinked files are ingested
	FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" yaml:"follow_symlinks"`

	// MaxFileSize in bytes; larger files are skipped (0 = no limit)
	MaxFileSize int64 `json:"max_file_size" mapstructure:"max_file_size" yaml:"max_file_size"`

	// DetectErrors runs the content-based error detector after analysis
	DetectErrors bool `json:"detect_errors" mapstructure:"detect_errors" yaml:"detect_errors"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format of the analyze command
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Directory specifies where report files are written (empty = stdout)
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`

	// ShowProgress enables progress bars in interactive terminals
	ShowProgress bool `json:"show_progress" mapstructure:"show_progress" yaml:"show_progress"`
}

// CheckConfig holds the thresholds enforced by the check command
type CheckConfig struct {
	MaxCycles          int  `json:"max_cycles" mapstructure:"max_cycles" yaml:"max_cycles"`
	MinMaintainability int  `json:"min_maintainability" mapstructure:"min_maintainability" yaml:"min_maintainability"`
	MaxDepth           int  `json:"max_depth" mapstructure:"max_depth" yaml:"max_depth"`
	AllowOrphans       bool `json:"allow_orphans" mapstructure:"allow_orphans" yaml:"allow_orphans"`
}

// PerformanceConfig holds concurrency limits
type PerformanceConfig struct {
	// MaxGoroutines bounds concurrent file parsing
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a whole analysis (0 = no timeout)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Address           string `json:"address" mapstructure:"address" yaml:"address"`
	MaxStoredAnalyses int    `json:"max_stored_analyses" mapstructure:"max_stored_analyses" yaml:"max_stored_analyses"`
}

// LLMConfig holds settings for the OpenAI-compatible consultation endpoint
type LLMConfig struct {
	Model     string `json:"model" mapstructure:"model" yaml:"model"`
	BaseURL   string `json:"base_url" mapstructure:"base_url" yaml:"base_url"`
	APIKeyEnv string `json:"api_key_env" mapstructure:"api_key_env" yaml:"api_key_env"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			IncludeExtensions:  append([]string(nil), constants.DefaultIncludeExtensions...),
			IgnoredFolders:     append([]string(nil), constants.DefaultIgnoredFolders...),
			AliasPrefixes:      append([]string(nil), constants.DefaultAliasPrefixes...),
			IncludeTypeImports: false,
			RespectGitignore:   true,
			FollowSymlinks:     false,
			MaxFileSize:        constants.DefaultMaxFileSize,
			DetectErrors:       false,
		},
		Output: OutputConfig{
			Format:       string(domain.OutputFormatText),
			Directory:    "",
			ShowProgress: true,
		},
		Check: CheckConfig{
			MaxCycles:          constants.DefaultMaxCycles,
			MinMaintainability: constants.DefaultMinMaintainability,
			MaxDepth:           constants.DefaultMaxDepth,
			AllowOrphans:       true,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  constants.DefaultMaxGoroutines,
			TimeoutSeconds: constants.DefaultTimeoutSeconds,
		},
		Server: ServerConfig{
			Address:           constants.DefaultServerAddress,
			MaxStoredAnalyses: constants.DefaultMaxStoredAnalyses,
		},
		LLM: LLMConfig{
			Model:     constants.DefaultLLMModel,
			BaseURL:   "",
			APIKeyEnv: constants.DefaultLLMAPIKeyEnv,
		},
	}
}

// LoadConfig loads configuration from a file. An empty path yields the
// defaults with environment overrides applied.
func LoadConfig(configPath string) (*Config, error) {
	return loadConfigFromFile(configPath)
}

// discoverConfigFile handles configuration file discovery logic
func discoverConfigFile(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// newViper creates an isolated viper instance seeded with every default key
// so that DEPSCOPE_* environment variables can override any of them
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("scan.include_extensions", c.Scan.IncludeExtensions)
	v.SetDefault("scan.ignored_folders", c.Scan.IgnoredFolders)
	v.SetDefault("scan.alias_prefixes", c.Scan.AliasPrefixes)
	v.SetDefault("scan.include_type_imports", c.Scan.IncludeTypeImports)
	v.SetDefault("scan.respect_gitignore", c.Scan.RespectGitignore)
	v.SetDefault("scan.follow_symlinks", c.Scan.FollowSymlinks)
	v.SetDefault("scan.max_file_size", c.Scan.MaxFileSize)
	v.SetDefault("scan.detect_errors", c.Scan.DetectErrors)

	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.directory", c.Output.Directory)
	v.SetDefault("output.show_progress", c.Output.ShowProgress)

	v.SetDefault("check.max_cycles", c.Check.MaxCycles)
	v.SetDefault("check.min_maintainability", c.Check.MinMaintainability)
	v.SetDefault("check.max_depth", c.Check.MaxDepth)
	v.SetDefault("check.allow_orphans", c.Check.AllowOrphans)

	v.SetDefault("performance.max_goroutines", c.Performance.MaxGoroutines)
	v.SetDefault("performance.timeout_seconds", c.Performance.TimeoutSeconds)

	v.SetDefault("server.address", c.Server.Address)
	v.SetDefault("server.max_stored_analyses", c.Server.MaxStoredAnalyses)

	v.SetDefault("llm.model", c.LLM.Model)
	v.SetDefault("llm.base_url", c.LLM.BaseURL)
	v.SetDefault("llm.api_key_env", c.LLM.APIKeyEnv)
}

// loadConfigFromFile reads and parses a configuration file
// Single responsibility: file loading and parsing only
func loadConfigFromFile(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with target path context
// Orchestrates discovery and loading but delegates specific concerns
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = discoverConfigFile(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for a configuration file from the analyzed path
// upward, then in the working directory and the user config directory
func findDefaultConfig(targetPath string) string {
	candidates := constants.ConfigFileNames

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", constants.ToolName), candidates); config != "" {
			return config
		}
	}

	// DEPSCOPE_CONFIG points at an explicit file
	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if len(c.Scan.IncludeExtensions) == 0 {
		return fmt.Errorf("scan.include_extensions cannot be empty")
	}
	for _, ext := range c.Scan.IncludeExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("scan.include_extensions entry '%s' must start with '.'", ext)
		}
	}
	if c.Scan.MaxFileSize < 0 {
		return fmt.Errorf("scan.max_file_size must be >= 0, got %d", c.Scan.MaxFileSize)
	}

	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		names := make([]string, len(domain.OutputFormats))
		for i, f := range domain.OutputFormats {
			names[i] = string(f)
		}
		return fmt.Errorf("invalid output.format '%s', must be one of: %s", c.Output.Format, strings.Join(names, ", "))
	}

	if c.Check.MaxCycles < 0 {
		return fmt.Errorf("check.max_cycles must be >= 0, got %d", c.Check.MaxCycles)
	}
	if c.Check.MinMaintainability < 0 || c.Check.MinMaintainability > 100 {
		return fmt.Errorf("check.min_maintainability must be between 0 and 100, got %d", c.Check.MinMaintainability)
	}
	if c.Check.MaxDepth < 0 {
		return fmt.Errorf("check.max_depth must be >= 0, got %d", c.Check.MaxDepth)
	}

	if c.Performance.MaxGoroutines < 1 {
		return fmt.Errorf("performance.max_goroutines must be >= 1, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	if c.Server.Address == "" {
		return fmt.Errorf("server.address cannot be empty")
	}
	if c.Server.MaxStoredAnalyses < 1 {
		return fmt.Errorf("server.max_stored_analyses must be >= 1, got %d", c.Server.MaxStoredAnalyses)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model cannot be empty")
	}

	return nil
}

// Thresholds converts the check section into domain thresholds
func (c *CheckConfig) Thresholds() domain.CheckThresholds {
	return domain.CheckThresholds{
		MaxCycles:          c.MaxCycles,
		MinMaintainability: c.MinMaintainability,
		MaxDepth:           c.MaxDepth,
		AllowOrphans:       c.AllowOrphans,
	}
}

// ScanOptions converts the scan and performance sections into scanner options
func (c *Config) ScanOptions() domain.ScanOptions {
	return domain.ScanOptions{
		IncludeExtensions:  c.Scan.IncludeExtensions,
		IgnoredFolders:     c.Scan.IgnoredFolders,
		AliasPrefixes:      c.Scan.AliasPrefixes,
		IncludeTypeImports: c.Scan.IncludeTypeImports,
		RespectGitignore:   c.Scan.RespectGitignore,
		FollowSymlinks:     c.Scan.FollowSymlinks,
		MaxFileSize:        c.Scan.MaxFileSize,
		MaxGoroutines:      c.Performance.MaxGoroutines,
	}
}

// Timeout returns the analysis timeout, zero meaning none
func (c *PerformanceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("scan", config.Scan)
	v.Set("output", config.Output)
	v.Set("check", config.Check)
	v.Set("performance", config.Performance)
	v.Set("server", config.Server)
	v.Set("llm", config.LLM)

	return v.WriteConfig()
}
