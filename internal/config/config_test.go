package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ludo-technologies/depscope/internal/constants"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig should not return nil")
	}

	// Verify scan defaults
	if !config.Scan.RespectGitignore {
		t.Error("RespectGitignore should be true by default")
	}
	if config.Scan.FollowSymlinks {
		t.Error("FollowSymlinks should be false by default")
	}
	if config.Scan.MaxFileSize != constants.DefaultMaxFileSize {
		t.Errorf("Expected MaxFileSize %d, got %d", constants.DefaultMaxFileSize, config.Scan.MaxFileSize)
	}
	if len(config.Scan.IgnoredFolders) == 0 {
		t.Error("IgnoredFolders should not be empty")
	}

	// Verify output defaults
	if config.Output.Format != "text" {
		t.Errorf("Expected Format 'text', got '%s'", config.Output.Format)
	}

	// Verify check defaults
	if config.Check.MinMaintainability != constants.DefaultMinMaintainability {
		t.Errorf("Expected MinMaintainability %d, got %d", constants.DefaultMinMaintainability, config.Check.MinMaintainability)
	}
	if config.Server.MaxStoredAnalyses != constants.DefaultMaxStoredAnalyses {
		t.Errorf("Expected MaxStoredAnalyses %d, got %d", constants.DefaultMaxStoredAnalyses, config.Server.MaxStoredAnalyses)
	}
}

func TestDefaultConfig_Isolated(t *testing.T) {
	config := DefaultConfig()
	config.Scan.IgnoredFolders[0] = "changed"

	if constants.DefaultIgnoredFolders[0] == "changed" {
		t.Error("DefaultConfig should copy default slices")
	}
}

func TestLoadDefaultConfig_MatchesDefaults(t *testing.T) {
	embedded, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("Failed to parse embedded config: %v", err)
	}

	if !reflect.DeepEqual(embedded, DefaultConfig()) {
		t.Errorf("Embedded defaults differ from DefaultConfig:\n%+v\n%+v", embedded, DefaultConfig())
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	config := DefaultConfig()

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestConfig_Validate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"empty extensions", func(c *Config) { c.Scan.IncludeExtensions = nil }, "include_extensions"},
		{"extension without dot", func(c *Config) { c.Scan.IncludeExtensions = []string{"ts"} }, "must start with '.'"},
		{"negative file size", func(c *Config) { c.Scan.MaxFileSize = -1 }, "max_file_size"},
		{"output format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"negative cycles", func(c *Config) { c.Check.MaxCycles = -1 }, "max_cycles"},
		{"maintainability range", func(c *Config) { c.Check.MinMaintainability = 101 }, "min_maintainability"},
		{"negative depth", func(c *Config) { c.Check.MaxDepth = -2 }, "max_depth"},
		{"zero goroutines", func(c *Config) { c.Performance.MaxGoroutines = 0 }, "max_goroutines"},
		{"negative timeout", func(c *Config) { c.Performance.TimeoutSeconds = -1 }, "timeout_seconds"},
		{"empty address", func(c *Config) { c.Server.Address = "" }, "server.address"},
		{"zero stored analyses", func(c *Config) { c.Server.MaxStoredAnalyses = 0 }, "max_stored_analyses"},
		{"empty model", func(c *Config) { c.LLM.Model = "" }, "llm.model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfig_ValidOutputFormats(t *testing.T) {
	for _, format := range []string{"text", "json", "yaml", "markdown", "prompt", "compact", "relationship", "dot", "mermaid"} {
		config := DefaultConfig()
		config.Output.Format = format
		if err := config.Validate(); err != nil {
			t.Errorf("Format %s should be valid, got %v", format, err)
		}
	}
}

func TestLoadConfig_Default(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with empty path should succeed, got %v", err)
	}
	if !reflect.DeepEqual(config, DefaultConfig()) {
		t.Errorf("Expected defaults, got %+v", config)
	}
}

func TestLoadConfig_NonExistent(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/.depscope.yaml")
	if err == nil {
		t.Error("Expected error for non-existent config file")
	}
}

func TestLoadConfig_PartialYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".depscope.yaml")
	content := "output:\n  format: mermaid\ncheck:\n  max_depth: 4\n  allow_orphans: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Output.Format != "mermaid" {
		t.Errorf("Expected format mermaid, got %s", config.Output.Format)
	}
	if config.Check.MaxDepth != 4 || config.Check.AllowOrphans {
		t.Errorf("Unexpected check section: %+v", config.Check)
	}
	// Untouched keys keep their defaults
	if config.Check.MinMaintainability != constants.DefaultMinMaintainability {
		t.Errorf("Expected default MinMaintainability, got %d", config.Check.MinMaintainability)
	}
	if !config.Scan.RespectGitignore {
		t.Error("Expected default RespectGitignore")
	}
}

func TestLoadConfig_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".depscope.toml")
	content := "[scan]\nignored_folders = [\"vendor\"]\nfollow_symlinks = true\n\n[server]\naddress = \":9090\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !reflect.DeepEqual(config.Scan.IgnoredFolders, []string{"vendor"}) {
		t.Errorf("Expected [vendor], got %v", config.Scan.IgnoredFolders)
	}
	if !config.Scan.FollowSymlinks {
		t.Error("Expected FollowSymlinks true")
	}
	if config.Server.Address != ":9090" {
		t.Errorf("Expected :9090, got %s", config.Server.Address)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "depscope.json")
	if err := os.WriteFile(path, []byte(`{"performance": {"max_goroutines": 0}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Expected invalid configuration error, got %v", err)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("DEPSCOPE_OUTPUT_FORMAT", "json")
	t.Setenv("DEPSCOPE_CHECK_MAX_CYCLES", "3")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Output.Format != "json" {
		t.Errorf("Expected env format json, got %s", config.Output.Format)
	}
	if config.Check.MaxCycles != 3 {
		t.Errorf("Expected env max cycles 3, got %d", config.Check.MaxCycles)
	}
}

func TestSearchConfigInDirectory(t *testing.T) {
	dir := t.TempDir()

	if got := searchConfigInDirectory(dir, constants.ConfigFileNames); got != "" {
		t.Errorf("Expected no config, got %s", got)
	}

	ymlPath := filepath.Join(dir, ".depscope.yml")
	jsonPath := filepath.Join(dir, "depscope.json")
	for _, p := range []string{jsonPath, ymlPath} {
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// Candidate order decides
	if got := searchConfigInDirectory(dir, constants.ConfigFileNames); got != ymlPath {
		t.Errorf("Expected %s, got %s", ymlPath, got)
	}
}

func TestFindDefaultConfig_WalksUpward(t *testing.T) {
	root := t.TempDir()
	configPath := filepath.Join(root, ".depscope.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  format: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	nested := filepath.Join(root, "src", "components")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(nested, "Button.tsx")
	if err := os.WriteFile(file, []byte("export {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := findDefaultConfig(nested); got != configPath {
		t.Errorf("Expected %s from directory, got %s", configPath, got)
	}
	if got := findDefaultConfig(file); got != configPath {
		t.Errorf("Expected %s from file, got %s", configPath, got)
	}

	config, err := LoadConfigWithTarget("", nested)
	if err != nil {
		t.Fatalf("LoadConfigWithTarget failed: %v", err)
	}
	if config.Output.Format != "json" {
		t.Errorf("Expected discovered format json, got %s", config.Output.Format)
	}
}

func TestLoadConfigWithTarget_ExplicitPathWins(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".depscope.yaml"), []byte("output:\n  format: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(explicit, []byte("output:\n  format: dot\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigWithTarget(explicit, root)
	if err != nil {
		t.Fatalf("LoadConfigWithTarget failed: %v", err)
	}
	if config.Output.Format != "dot" {
		t.Errorf("Expected explicit format dot, got %s", config.Output.Format)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	config := DefaultConfig()
	config.Output.Format = "markdown"
	config.Check.MaxDepth = 7
	config.Scan.AliasPrefixes = []string{"#/"}

	path := filepath.Join(t.TempDir(), ".depscope.yaml")
	if err := SaveConfig(config, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Output.Format != "markdown" || loaded.Check.MaxDepth != 7 {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
	if !reflect.DeepEqual(loaded.Scan.AliasPrefixes, []string{"#/"}) {
		t.Errorf("Expected alias prefixes [#/], got %v", loaded.Scan.AliasPrefixes)
	}
}

func TestCheckConfig_Thresholds(t *testing.T) {
	check := CheckConfig{MaxCycles: 2, MinMaintainability: 60, MaxDepth: 5, AllowOrphans: false}
	th := check.Thresholds()

	if th.MaxCycles != 2 || th.MinMaintainability != 60 || th.MaxDepth != 5 || th.AllowOrphans {
		t.Errorf("Unexpected thresholds: %+v", th)
	}
}

func TestConfig_ScanOptions(t *testing.T) {
	config := DefaultConfig()
	config.Performance.MaxGoroutines = 3
	opts := config.ScanOptions()

	if opts.MaxGoroutines != 3 {
		t.Errorf("Expected MaxGoroutines 3, got %d", opts.MaxGoroutines)
	}
	if !opts.RespectGitignore || opts.MaxFileSize != config.Scan.MaxFileSize {
		t.Errorf("Unexpected scan options: %+v", opts)
	}
}

func TestPerformanceConfig_Timeout(t *testing.T) {
	perf := PerformanceConfig{TimeoutSeconds: 2}
	if perf.Timeout().Seconds() != 2 {
		t.Errorf("Expected 2s, got %v", perf.Timeout())
	}
}
