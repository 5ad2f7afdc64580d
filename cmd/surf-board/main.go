package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/surf-lamp/internal/app"
	"github.com/ngmaloney/surf-lamp/internal/config"
	"github.com/ngmaloney/surf-lamp/internal/database"
	"github.com/ngmaloney/surf-lamp/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logFile    string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "surf-board",
	Short: "Browse the rated hourly surf forecast in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the YAML config file (default "+config.DefaultPath+" if present)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (logging is off otherwise)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable development logging")
}

func runBoard(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	apiKey, err := cfg.Credential()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if logFile != "" {
		if logger, err = app.NewFileLogger(logFile, debug); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()
	}

	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	fetcher := app.NewFetcher(cfg, apiKey, store, logger)
	evaluator := app.NewEvaluator(cfg, fetcher, logger)

	p := tea.NewProgram(ui.NewModel(evaluator), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
