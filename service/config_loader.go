package service

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/depscope/domain"
	"github.com/ludo-technologies/depscope/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.AnalysisRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.RequestFromConfig(cfg), nil
}

// LoadConfigWithTarget loads the explicit configuration file, or the one
// discovered from the target directory upward
func (c *ConfigurationLoaderImpl) LoadConfigWithTarget(path, target string) (*domain.AnalysisRequest, error) {
	cfg, err := config.LoadConfigWithTarget(path, target)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	req := c.RequestFromConfig(cfg)
	req.Root = target
	req.ConfigPath = path
	return req, nil
}

// LoadDefaultConfig loads the discovered configuration for the working
// directory, falling back to the built-in defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.AnalysisRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return c.RequestFromConfig(cfg)
	}

	// Fall back to hardcoded default configuration
	return c.RequestFromConfig(config.DefaultConfig())
}

// MergeConfig merges CLI flags with configuration file. Only non-zero
// override values win; boolean flags are applied by the caller when set.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.AnalysisRequest, override *domain.AnalysisRequest) *domain.AnalysisRequest {
	merged := *base

	// Root always comes from command arguments
	if override.Root != "" {
		merged.Root = override.Root
	}

	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}

	if override.OutputDir != "" {
		merged.OutputDir = override.OutputDir
	}

	if len(override.IncludeExtensions) > 0 {
		merged.IncludeExtensions = override.IncludeExtensions
	}

	if len(override.IgnoredFolders) > 0 {
		merged.IgnoredFolders = override.IgnoredFolders
	}

	if len(override.AliasPrefixes) > 0 {
		merged.AliasPrefixes = override.AliasPrefixes
	}

	if override.MaxFileSize > 0 {
		merged.MaxFileSize = override.MaxFileSize
	}

	if override.MaxGoroutines > 0 {
		merged.MaxGoroutines = override.MaxGoroutines
	}

	if override.Timeout > 0 {
		merged.Timeout = override.Timeout
	}

	// Config path is always from override if provided
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// RequestFromConfig converts a loaded Config into an AnalysisRequest without a root
func (c *ConfigurationLoaderImpl) RequestFromConfig(cfg *config.Config) *domain.AnalysisRequest {
	return &domain.AnalysisRequest{
		// Root is set by the caller, not from config
		Root: "",

		// Output settings
		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		OutputDir:    cfg.Output.Directory,
		ShowProgress: cfg.Output.ShowProgress,

		// Scan settings
		IncludeExtensions:  cfg.Scan.IncludeExtensions,
		IgnoredFolders:     cfg.Scan.IgnoredFolders,
		AliasPrefixes:      cfg.Scan.AliasPrefixes,
		IncludeTypeImports: cfg.Scan.IncludeTypeImports,
		RespectGitignore:   cfg.Scan.RespectGitignore,
		FollowSymlinks:     cfg.Scan.FollowSymlinks,
		MaxFileSize:        cfg.Scan.MaxFileSize,
		DetectErrors:       cfg.Scan.DetectErrors,

		// Performance settings
		MaxGoroutines: cfg.Performance.MaxGoroutines,
		Timeout:       cfg.Performance.Timeout(),
	}
}

// ValidateRequest validates a merged request
func (c *ConfigurationLoaderImpl) ValidateRequest(req *domain.AnalysisRequest) error {
	if req.Root == "" {
		return domain.NewInvalidInputError("project root is required", nil)
	}

	if _, err := domain.ParseOutputFormat(string(req.OutputFormat)); err != nil {
		names := make([]string, len(domain.OutputFormats))
		for i, f := range domain.OutputFormats {
			names[i] = string(f)
		}
		return domain.NewInvalidInputError(
			fmt.Sprintf("invalid output format: %s (must be one of: %s)", req.OutputFormat, strings.Join(names, ", ")), nil)
	}

	if req.MaxFileSize < 0 {
		return domain.NewInvalidInputError(fmt.Sprintf("max file size cannot be negative, got %d", req.MaxFileSize), nil)
	}

	if req.MaxGoroutines < 0 {
		return domain.NewInvalidInputError(fmt.Sprintf("max goroutines cannot be negative, got %d", req.MaxGoroutines), nil)
	}

	return nil
}
