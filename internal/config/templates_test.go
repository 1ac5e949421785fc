package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetFullConfigTemplate_Loadable(t *testing.T) {
	for _, projectType := range ProjectTypes {
		for _, strictness := range Strictnesses {
			template := GetFullConfigTemplate(projectType, strictness)

			path := filepath.Join(t.TempDir(), ".depscope.yaml")
			if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
				t.Fatal(err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("%s/%s template does not load: %v", projectType, strictness, err)
			}

			strict := GetStrictnessPresets()[strictness]
			if config.Check.MaxDepth != strict.MaxDepth {
				t.Errorf("%s/%s: expected max depth %d, got %d", projectType, strictness, strict.MaxDepth, config.Check.MaxDepth)
			}
			if config.Check.AllowOrphans != strict.AllowOrphans {
				t.Errorf("%s/%s: expected allow orphans %v", projectType, strictness, strict.AllowOrphans)
			}

			preset := GetProjectPresets()[projectType]
			if len(config.Scan.IgnoredFolders) != len(preset.IgnoredFolders) {
				t.Errorf("%s: expected %d ignored folders, got %v", projectType, len(preset.IgnoredFolders), config.Scan.IgnoredFolders)
			}
		}
	}
}

func TestGetFullConfigTemplate_UnknownPresetsFallBack(t *testing.T) {
	template := GetFullConfigTemplate("unknown", "unknown")
	if !strings.Contains(template, "min_maintainability: 50") {
		t.Error("Expected standard strictness fallback")
	}
	if !strings.Contains(template, `ignored_folders: ["node_modules", ".git", "dist", "build"]`) {
		t.Error("Expected generic project fallback")
	}
}

func TestGetMinimalConfigTemplate_Loadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".depscope.yaml")
	if err := os.WriteFile(path, []byte(GetMinimalConfigTemplate()), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Minimal template does not load: %v", err)
	}
	if config.Output.Format != "text" {
		t.Errorf("Expected default format, got %s", config.Output.Format)
	}
}

func TestFormatYAMLList(t *testing.T) {
	if got := formatYAMLList(nil); got != "[]" {
		t.Errorf("Expected [], got %s", got)
	}
	if got := formatYAMLList([]string{"@/", "~/"}); got != `["@/", "~/"]` {
		t.Errorf("Unexpected list: %s", got)
	}
}
