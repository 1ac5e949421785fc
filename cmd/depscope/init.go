package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/depscope/internal/config"
	"github.com/ludo-technologies/depscope/internal/constants"
)

// initOptions are the resolved inputs of depscope init
type initOptions struct {
	path       string
	force      bool
	minimal    bool
	project    config.ProjectType
	strictness config.Strictness
}

func initCmd() *cobra.Command {
	var (
		opts        initOptions
		project     string
		strictness  string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a depscope configuration file",
		Long: `Write a documented .depscope.yaml for the current project.

The project preset picks scan extensions, ignored folders and alias
prefixes. The strictness preset picks the thresholds used by
'depscope check'.

Examples:
  depscope init
  depscope init --project next --strictness strict
  depscope init --minimal --config ci/depscope.yaml
  depscope init --force
  depscope init -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.project = config.ProjectType(project)
			if _, ok := config.GetProjectPresets()[opts.project]; !ok {
				return fmt.Errorf("unknown project preset %q (want one of %v)", project, config.ProjectTypes)
			}
			opts.strictness = config.Strictness(strictness)
			if _, ok := config.GetStrictnessPresets()[opts.strictness]; !ok {
				return fmt.Errorf("unknown strictness %q (want one of %v)", strictness, config.Strictnesses)
			}

			if interactive {
				if err := askInitOptions(&opts); err != nil {
					return err
				}
			}
			return writeInitConfig(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.path, "config", "c", constants.ConfigFileName, "Output path for the config file")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing config file")
	cmd.Flags().BoolVar(&opts.minimal, "minimal", false, "Write only the essential options")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Choose presets interactively")
	cmd.Flags().StringVar(&project, "project", string(config.ProjectTypeGeneric), "Project preset: generic, next, vue, node")
	cmd.Flags().StringVar(&strictness, "strictness", string(config.StrictnessStandard), "Check strictness: relaxed, standard, strict")

	return cmd
}

// writeInitConfig renders the chosen template to opts.path
func writeInitConfig(opts initOptions, out io.Writer) error {
	if _, err := os.Stat(opts.path); err == nil && !opts.force {
		return fmt.Errorf("%s already exists, use --force to overwrite", opts.path)
	}
	if dir := filepath.Dir(opts.path); dir != "." {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	content := config.GetFullConfigTemplate(opts.project, opts.strictness)
	if opts.minimal {
		content = config.GetMinimalConfigTemplate()
	}
	if err := os.WriteFile(opts.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	shown := opts.path
	if abs, err := filepath.Abs(opts.path); err == nil {
		shown = abs
	}
	fmt.Fprintf(out, "Created %s\n\nRun 'depscope analyze' to analyze your project.\n", shown)
	return nil
}

// presetChoice is one promptui row
type presetChoice struct {
	Label  string
	Detail string
}

var projectLabels = map[config.ProjectType]string{
	config.ProjectTypeGeneric:     "Generic JavaScript/TypeScript",
	config.ProjectTypeNext:        "Next.js / React",
	config.ProjectTypeVue:         "Vue / Nuxt",
	config.ProjectTypeNodeBackend: "Node.js backend",
}

// askInitOptions fills project, strictness and path from prompts
func askInitOptions(opts *initOptions) error {
	fmt.Println("\ndepscope configuration setup")

	projects := make([]presetChoice, len(config.ProjectTypes))
	presets := config.GetProjectPresets()
	for i, p := range config.ProjectTypes {
		projects[i] = presetChoice{Label: projectLabels[p], Detail: fmt.Sprintf("%v", presets[p].IncludeExtensions)}
	}
	i, err := choose("Project type", projects, indexOf(config.ProjectTypes, opts.project))
	if err != nil {
		return err
	}
	opts.project = config.ProjectTypes[i]

	levels := make([]presetChoice, len(config.Strictnesses))
	thresholds := config.GetStrictnessPresets()
	for i, s := range config.Strictnesses {
		t := thresholds[s]
		levels[i] = presetChoice{
			Label:  string(s),
			Detail: fmt.Sprintf("cycles <= %d, maintainability >= %d, depth <= %d", t.MaxCycles, t.MinMaintainability, t.MaxDepth),
		}
	}
	if i, err = choose("Check strictness", levels, indexOf(config.Strictnesses, opts.strictness)); err != nil {
		return err
	}
	opts.strictness = config.Strictnesses[i]

	pathPrompt := promptui.Prompt{Label: "Config file", Default: opts.path}
	path, err := pathPrompt.Run()
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if path != "" {
		opts.path = path
	}
	return nil
}

func choose(label string, items []presetChoice, cursor int) (int, error) {
	sel := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: cursor,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "> {{ .Label | cyan }} {{ .Detail | faint }}",
			Inactive: "  {{ .Label }} {{ .Detail | faint }}",
			Selected: "{{ .Label | green }}",
		},
	}
	i, _, err := sel.Run()
	if err != nil {
		return 0, fmt.Errorf("setup cancelled: %w", err)
	}
	return i, nil
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return 0
}
