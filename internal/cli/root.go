// Package cli provides the command-line interface for the analyst
// application.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"finsight/internal/agents"
	"finsight/internal/config"
	"finsight/internal/errors"
	"finsight/internal/intent"
	"finsight/internal/logging"
	"finsight/internal/marketdata"
	"finsight/internal/orchestrator"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	LLMClient agents.LLMClient
	Source    marketdata.Source
}

// NewRootCmd creates the root command for the CLI. The root command itself
// answers a question: `finsight "how has AAPL done YTD?"`.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Source: marketdata.NewYahooSource(logger),
	}

	if cfg.Credentials.OpenAIAPIKey != "" {
		app.LLMClient = agents.NewOpenAIClient(cfg.Credentials.OpenAIAPIKey, cfg.Agents.Model)
		logger.Debug().Str("model", cfg.Agents.Model).Msg("OpenAI LLM client initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "finsight [question]",
		Short: "Ask natural-language questions about stock price behavior",
		Long: `Finsight answers free-text questions about stock price behavior.

A planning model proposes tool calls, deterministic tools fetch prices and
compute technical indicators, and a narrating model explains the resulting
metrics. The question is read from the arguments, or from stdin when no
argument is given.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runQuestion(cmd, args)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/finsight)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.Flags().String("today", "", "anchor date for relative timeframes (YYYY-MM-DD)")
	rootCmd.Flags().Bool("show-parsed", false, "print the resolved intent before running")
	rootCmd.Flags().Int("timeout", 0, "overall run timeout in seconds (default from config)")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (a *App) runQuestion(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return errors.Wrap(err, "read question from stdin")
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return errors.ErrNoQuestion
	}

	today := time.Now()
	if anchor, _ := cmd.Flags().GetString("today"); anchor != "" {
		parsed, err := time.Parse("2006-01-02", anchor)
		if err != nil {
			return errors.Wrapf(err, "invalid --today value %q", anchor)
		}
		today = parsed
	}

	parsed, err := intent.Resolve(question, today)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if show, _ := cmd.Flags().GetBool("show-parsed"); show {
		out, _ := json.MarshalIndent(parsed, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}

	if a.LLMClient == nil {
		return errors.Wrap(errors.ErrConfigInvalid, "OPENAI_API_KEY is not set")
	}

	timeout := time.Duration(a.Config.Loop.TimeoutSeconds) * time.Second
	if secs, _ := cmd.Flags().GetInt("timeout"); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	loop := orchestrator.NewLoop(
		agents.NewPlanner(a.LLMClient, a.Logger),
		agents.NewNarrator(a.LLMClient, a.Logger),
		orchestrator.NewDispatcher(a.Source, a.Logger),
		a.Config.Loop.MaxIterations,
		a.Logger,
	)

	st := orchestrator.NewConversationState(question, parsed)
	phase, err := loop.Run(ctx, st)
	if err != nil {
		return err
	}

	if asJSON {
		out, _ := json.MarshalIndent(map[string]any{
			"question":   question,
			"parsed":     parsed,
			"iterations": st.Iteration,
			"phase":      phase,
			"answer":     st.FinalAnswer,
		}, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), st.FinalAnswer)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "finsight", Version)
		},
	}
}

// Execute loads configuration, builds the root command and runs it. The
// process exits non-zero when the run aborts or resolution fails.
func Execute() int {
	configDir := ""
	for i, arg := range os.Args[1:] {
		if arg == "--config" && i+2 < len(os.Args) {
			configDir = os.Args[i+2]
		}
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 1
	}

	logger := logging.NewLoggerWithConfig(logging.LogConfig{
		Level:    cfg.Logging.Level,
		Console:  cfg.Logging.Console,
		File:     cfg.Logging.File,
		FilePath: cfg.Logging.FilePath,
		MaxSize:  50, MaxBackups: 5, MaxAge: 30,
	})

	rootCmd := NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
