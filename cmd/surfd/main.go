package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ngmaloney/surf-lamp/internal/app"
	"github.com/ngmaloney/surf-lamp/internal/checker"
	"github.com/ngmaloney/surf-lamp/internal/config"
	"github.com/ngmaloney/surf-lamp/internal/database"
	"github.com/ngmaloney/surf-lamp/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	console    bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "surfd",
	Short: "Run the surf check every morning and serve its status",
	Long: `surfd evaluates the surf forecast on a cron schedule, keeps the lamps lit with
the result and serves status, history and metrics over HTTP.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the YAML config file (default "+config.DefaultPath+" if present)")
	rootCmd.Flags().BoolVar(&console, "console", false, "print lamp changes instead of driving GPIO pins")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable development logging")
}

// cronLogger adapts zap to the scheduler's logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if console {
		cfg.Lamps.Console = true
	}

	apiKey, err := cfg.Credential()
	if err != nil {
		return err
	}

	logger, err := app.NewLogger(debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	board, err := app.NewBoard(cfg, os.Stdout, logger)
	if err != nil {
		return err
	}

	fetcher := app.NewFetcher(cfg, apiKey, m.WrapRecorder(store), logger)
	evaluator := app.NewEvaluator(cfg, fetcher, logger)
	svc := checker.NewService(evaluator, store, board, logger)
	svc.SetObserver(m)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCheck := func() {
		if _, err := svc.Run(ctx); err != nil {
			logger.Error("scheduled surf check failed", zap.Error(err))
		}
	}

	cl := cronLogger{s: logger.Named("cron").Sugar()}
	scheduler := cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl)))
	if _, err := scheduler.AddFunc(cfg.Daemon.Schedule, runCheck); err != nil {
		return fmt.Errorf("failed to schedule surf check: %w", err)
	}

	if cfg.Daemon.RunOnStart {
		go runCheck()
	}
	scheduler.Start()
	logger.Info("surf check scheduled", zap.String("schedule", cfg.Daemon.Schedule))

	routes := NewRouteManager(svc, store, registry, logger)
	routes.Setup()

	server := &http.Server{
		Handler:      routes.Router,
		Addr:         cfg.Daemon.Listen,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.API.Timeout + 30*time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		<-scheduler.Stop().Done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}
		if err := svc.Halt(shutdownCtx); err != nil {
			logger.Error("failed to clear lamps", zap.Error(err))
		}
	}()

	logger.Info("starting status server", zap.String("addr", cfg.Daemon.Listen))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-shutdownDone
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
