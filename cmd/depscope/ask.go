package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/depscope/internal/llm"
)

var (
	askModel       string
	askBaseURL     string
	askConfigPath  string
	askPrintPrompt bool
)

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [path]",
		Short: "Ask an LLM for architecture advice on the project",
		Long: `Analyze the project, render the AI consultation prompt and send it to an
OpenAI-compatible chat endpoint. The API key is read from the environment
variable named by llm.api_key_env (OPENAI_API_KEY by default).

Examples:
  depscope ask
  depscope ask src/ --model gpt-4o
  depscope ask --base-url http://localhost:11434/v1 --model llama3
  depscope ask --print-prompt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVarP(&askModel, "model", "m", "", "Chat model (default from config)")
	cmd.Flags().StringVar(&askBaseURL, "base-url", "", "OpenAI-compatible API base URL")
	cmd.Flags().StringVarP(&askConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVar(&askPrintPrompt, "print-prompt", false, "Print the prompt instead of sending it")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, req, err := loadProject(askConfigPath, rootArg(args))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	svc, finish := newAnalysisService(nil)
	defer finish()

	_, engine, err := svc.AnalyzeProject(ctx, *req)
	if err != nil {
		return err
	}
	prompt := engine.AIPrompt()

	out := cmd.OutOrStdout()
	if askPrintPrompt {
		_, err := fmt.Fprintln(out, prompt)
		return err
	}

	llmCfg := llm.Config{
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
	}
	if askModel != "" {
		llmCfg.Model = askModel
	}
	if askBaseURL != "" {
		llmCfg.BaseURL = askBaseURL
	}

	client, err := llm.NewClient(llmCfg, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Consulting %s...\n", client.Model())
	answer, err := client.Consult(ctx, prompt)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, answer)
	return err
}
