package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ngmaloney/surf-lamp/internal/models"
	"github.com/ngmaloney/surf-lamp/internal/stormglass"
	"github.com/ngmaloney/surf-lamp/internal/surf"
	"go.uber.org/zap"
)

// DefaultHorizon is how far ahead a morning check looks
const DefaultHorizon = 5 * 24 * time.Hour

// ErrNoData is reported when the API returns an empty series
var ErrNoData = errors.New("forecast contains no hours")

// Config locates the spot and shapes each fetch
type Config struct {
	Lat           float64
	Lng           float64
	Params        []string
	Horizon       time.Duration
	PrimarySource string
}

// RatedForecast is a forecast slot with its score
type RatedForecast struct {
	models.Forecast
	WindQuality float64
	Rating      models.Rating
}

// Report is the outcome of one evaluation. Rating is RatingError whenever Err is set.
type Report struct {
	ID       uuid.UUID
	Start    time.Time
	Finished time.Time
	Rating   models.Rating
	Slots    []RatedForecast
	Best     *RatedForecast // earliest slot carrying Rating, nil on error
	Err      error
}

// Evaluation converts the report into a history record. Repeated calls return the same record.
func (r Report) Evaluation() models.Evaluation {
	e := models.Evaluation{
		ID:        r.ID,
		Start:     r.Start,
		Rating:    r.Rating,
		Slots:     len(r.Slots),
		CreatedAt: r.Finished,
	}
	if r.Best != nil {
		e.BestAt = r.Best.Time
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	return e
}

// Evaluator fetches a forecast window and reduces it to the best rating
type Evaluator struct {
	fetcher stormglass.Fetcher
	rater   *surf.Rater
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewEvaluator creates an evaluator. Zero Horizon, Params or PrimarySource take their defaults.
func NewEvaluator(fetcher stormglass.Fetcher, rater *surf.Rater, cfg Config, logger *zap.Logger) *Evaluator {
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultHorizon
	}
	if len(cfg.Params) == 0 {
		cfg.Params = stormglass.DefaultParams
	}
	if cfg.PrimarySource == "" {
		cfg.PrimarySource = DefaultPrimarySource
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		fetcher: fetcher,
		rater:   rater,
		cfg:     cfg,
		logger:  logger.Named("evaluator"),
		now:     time.Now,
	}
}

// SetClock replaces the clock used by Run and for report timestamps
func (e *Evaluator) SetClock(now func() time.Time) {
	e.now = now
}

// Run evaluates the window starting now
func (e *Evaluator) Run(ctx context.Context) Report {
	return e.Evaluate(ctx, e.now())
}

// Evaluate rates every hour in [start, start+Horizon) and reports the best rating.
// Failures never escape: they produce a RatingError report.
func (e *Evaluator) Evaluate(ctx context.Context, start time.Time) Report {
	report, err := e.evaluate(ctx, start)
	if err != nil {
		e.logger.Error("evaluation failed", zap.Time("start", start), zap.Error(err))
		report = Report{Start: start, Rating: models.RatingError, Err: err}
	}
	report.ID = uuid.New()
	report.Finished = e.now().UTC()
	if err != nil {
		return report
	}

	e.logger.Info("evaluation complete",
		zap.Time("start", start),
		zap.Stringer("rating", report.Rating),
		zap.Int("slots", len(report.Slots)),
		zap.Time("best_at", report.Best.Time),
	)
	return report
}

func (e *Evaluator) evaluate(ctx context.Context, start time.Time) (Report, error) {
	q := stormglass.Query{
		Lat:    e.cfg.Lat,
		Lng:    e.cfg.Lng,
		Params: e.cfg.Params,
		Start:  start,
		End:    start.Add(e.cfg.Horizon),
	}

	resp, err := e.fetcher.FetchForecast(ctx, q)
	if err != nil {
		return Report{}, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	if resp == nil || len(resp.Hours) == 0 {
		return Report{}, ErrNoData
	}

	forecasts, err := Ingest(resp.Hours, e.cfg.PrimarySource)
	if err != nil {
		return Report{}, fmt.Errorf("failed to ingest forecast: %w", err)
	}

	slots := make([]RatedForecast, len(forecasts))
	best := 0
	for i, f := range forecasts {
		slots[i] = RatedForecast{
			Forecast:    f,
			WindQuality: e.rater.WindQuality(f),
			Rating:      e.rater.Rate(f),
		}
		if slots[i].Rating > slots[best].Rating {
			best = i
		}
		e.logger.Debug("rated slot", zap.Stringer("forecast", f), zap.Stringer("rating", slots[i].Rating))
	}

	return Report{
		Start:  start,
		Rating: slots[best].Rating,
		Slots:  slots,
		Best:   &slots[best],
	}, nil
}
