// Package checker runs one surf check: evaluate the forecast, record it and light the lamps
package checker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ngmaloney/surf-lamp/internal/forecast"
	"github.com/ngmaloney/surf-lamp/internal/indicator"
	"github.com/ngmaloney/surf-lamp/internal/models"
	"go.uber.org/zap"
)

// ErrBusy is returned when a check is already in progress
var ErrBusy = errors.New("a surf check is already running")

// Evaluator produces a forecast report for the window starting now
type Evaluator interface {
	Run(ctx context.Context) forecast.Report
}

// EvaluationStore keeps evaluation history
type EvaluationStore interface {
	SaveEvaluation(ctx context.Context, e models.Evaluation) error
}

// Lamps displays a signal
type Lamps interface {
	Set(ctx context.Context, s indicator.Signal) error
	Clear(ctx context.Context) error
}

// Observer receives the outcome of every check
type Observer interface {
	ObserveEvaluation(rating models.Rating, took time.Duration)
}

// Service runs surf checks one at a time
type Service struct {
	evaluator Evaluator
	store     EvaluationStore
	lamps     Lamps
	observer  Observer
	logger    *zap.Logger

	running sync.Mutex

	mu   sync.RWMutex
	last *forecast.Report
}

// NewService creates a check service. store and observer may be nil.
func NewService(evaluator Evaluator, store EvaluationStore, lamps Lamps, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		evaluator: evaluator,
		store:     store,
		lamps:     lamps,
		logger:    logger.Named("checker"),
	}
}

// SetObserver attaches an outcome observer such as the metrics collectors
func (s *Service) SetObserver(o Observer) {
	s.observer = o
}

// Run evaluates the forecast, records the evaluation and sets the lamps.
// The report is returned even when the lamps could not be set.
func (s *Service) Run(ctx context.Context) (forecast.Report, error) {
	if !s.running.TryLock() {
		return forecast.Report{}, ErrBusy
	}
	defer s.running.Unlock()

	began := time.Now()
	report := s.evaluator.Run(ctx)
	took := time.Since(began)

	s.mu.Lock()
	s.last = &report
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.ObserveEvaluation(report.Rating, took)
	}

	if s.store != nil {
		if err := s.store.SaveEvaluation(ctx, report.Evaluation()); err != nil {
			s.logger.Warn("failed to save evaluation", zap.Error(err))
		}
	}

	signal := indicator.SignalFor(report.Rating)
	if err := s.lamps.Set(ctx, signal); err != nil {
		return report, fmt.Errorf("failed to set lamps: %w", err)
	}

	s.logger.Info("surf check complete",
		zap.Stringer("rating", report.Rating),
		zap.Stringer("signal", signal),
		zap.Duration("took", took),
	)
	return report, nil
}

// Halt turns every lamp off
func (s *Service) Halt(ctx context.Context) error {
	if err := s.lamps.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear lamps: %w", err)
	}
	s.logger.Info("lamps cleared")
	return nil
}

// Last returns the most recent report, false before the first check
func (s *Service) Last() (forecast.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return forecast.Report{}, false
	}
	return *s.last, true
}
