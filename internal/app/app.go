// Package app wires configuration into the clients, evaluator and lamps the binaries share
package app

import (
	"fmt"
	"io"

	"github.com/ngmaloney/surf-lamp/internal/config"
	"github.com/ngmaloney/surf-lamp/internal/forecast"
	"github.com/ngmaloney/surf-lamp/internal/indicator"
	"github.com/ngmaloney/surf-lamp/internal/stormglass"
	"github.com/ngmaloney/surf-lamp/internal/surf"
	"go.uber.org/zap"
)

// NewLogger returns a production logger, or a development one when debug is set
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewFileLogger logs to path only, for programs that own the terminal
func NewFileLogger(path string, debug bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}

// NewFetcher builds a rate-limited Stormglass client. recorder may be nil.
func NewFetcher(cfg *config.Config, apiKey string, recorder stormglass.PullRecorder, logger *zap.Logger) stormglass.Fetcher {
	client := stormglass.NewClient(apiKey, logger)
	client.SetBaseURL(cfg.API.URL)
	client.SetTimeout(cfg.API.Timeout)
	if recorder != nil {
		client.SetRecorder(recorder)
	}

	if cfg.API.RateInterval == 0 {
		return client
	}
	return stormglass.NewRateLimitedFetcher(client, cfg.API.RateInterval, cfg.API.RateBurst)
}

// NewEvaluator builds the evaluator for the configured spot
func NewEvaluator(cfg *config.Config, fetcher stormglass.Fetcher, logger *zap.Logger) *forecast.Evaluator {
	rater := surf.NewRater(cfg.Thresholds, cfg.Spot.ShoreNormal)
	return forecast.NewEvaluator(fetcher, rater, forecast.Config{
		Lat:           cfg.Spot.Lat,
		Lng:           cfg.Spot.Lng,
		Params:        stormglass.DefaultParams,
		Horizon:       cfg.Spot.Horizon,
		PrimarySource: cfg.Spot.PrimarySource,
	}, logger)
}

// NewBoard opens the lamps: console pins writing to out in console mode, GPIO otherwise
func NewBoard(cfg *config.Config, out io.Writer, logger *zap.Logger) (*indicator.Board, error) {
	var pins map[indicator.Lamp]indicator.Pin
	if cfg.Lamps.Console {
		pins = indicator.ConsolePins(out)
	} else {
		var err error
		pins, err = indicator.OpenGPIO(cfg.Lamps.Pins())
		if err != nil {
			return nil, fmt.Errorf("opening lamps (use --console without hardware): %w", err)
		}
	}
	return indicator.NewBoard(pins, logger)
}
