package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ngmaloney/surf-lamp/internal/app"
	"github.com/ngmaloney/surf-lamp/internal/checker"
	"github.com/ngmaloney/surf-lamp/internal/config"
	"github.com/ngmaloney/surf-lamp/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	console    bool
	debug      bool
	selfTest   bool
)

var rootCmd = &cobra.Command{
	Use:   "surf-lamp <run|halt>",
	Short: "Light the surf lamps from this morning's forecast",
	Long: `surf-lamp checks the next five days of surf at the configured spot and lights
GREEN for good surf, YELLOW for marginal surf and BLUE when the check failed.

  run   evaluate the forecast and set the lamps
  halt  turn every lamp off`,
	Args: validateAction,
	RunE: runLamp,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the YAML config file (default "+config.DefaultPath+" if present)")
	rootCmd.Flags().BoolVar(&console, "console", false, "print lamp changes instead of driving GPIO pins")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable development logging")
	rootCmd.Flags().BoolVar(&selfTest, "self-test", false, "blink every lamp before running the action")
}

// validateAction accepts exactly one of run or halt, in any case
func validateAction(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one action (run or halt), got %d", len(args))
	}
	switch strings.ToLower(args[0]) {
	case "run", "halt":
		return nil
	}
	return fmt.Errorf("unknown action %q, expected run or halt", args[0])
}

func runLamp(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	action := strings.ToLower(args[0])

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if console {
		cfg.Lamps.Console = true
	}

	logger, err := app.NewLogger(debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	board, err := app.NewBoard(cfg, os.Stdout, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if selfTest {
		if err := board.Test(ctx, 3, 300*time.Millisecond); err != nil {
			return fmt.Errorf("lamp self-test failed: %w", err)
		}
	}

	if action == "halt" {
		return checker.NewService(nil, nil, board, logger).Halt(ctx)
	}

	apiKey, err := cfg.Credential()
	if err != nil {
		return err
	}

	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	fetcher := app.NewFetcher(cfg, apiKey, store, logger)
	evaluator := app.NewEvaluator(cfg, fetcher, logger)
	svc := checker.NewService(evaluator, store, board, logger)

	report, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if report.Err != nil {
		logger.Warn("surf check failed", zap.Error(report.Err))
	}
	fmt.Printf("Surf is %s\n", report.Rating)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
