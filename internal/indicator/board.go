package indicator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pin switches a single lamp
type Pin interface {
	Set(on bool) error
}

// Board owns the lamp pins. Set and Clear are serialised.
type Board struct {
	mu     sync.Mutex
	pins   map[Lamp]Pin
	signal Signal
	logger *zap.Logger
}

// NewBoard creates a board over pins. Every lamp in Lamps must have a pin.
func NewBoard(pins map[Lamp]Pin, logger *zap.Logger) (*Board, error) {
	for _, l := range Lamps {
		if pins[l] == nil {
			return nil, fmt.Errorf("no pin for %s lamp", l)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{
		pins:   pins,
		logger: logger.Named("indicator"),
	}, nil
}

// Signal returns the last signal successfully set
func (b *Board) Signal() Signal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.signal
}

// Set turns every lamp off and then lights the one for s
func (b *Board) Set(ctx context.Context, s Signal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.clearLocked(); err != nil {
		return err
	}

	if lamp, ok := lampFor(s); ok {
		if err := b.pins[lamp].Set(true); err != nil {
			return fmt.Errorf("failed to light %s lamp: %w", lamp, err)
		}
	}

	b.signal = s
	b.logger.Info("signal set", zap.Stringer("signal", s))
	return nil
}

// Clear turns every lamp off
func (b *Board) Clear(ctx context.Context) error {
	return b.Set(ctx, SignalNone)
}

// Test blinks every lamp in turn, cycles times, and leaves the board cleared
func (b *Board) Test(ctx context.Context, cycles int, delay time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Info("lamp self-test", zap.Int("cycles", cycles))

	for i := 0; i < cycles; i++ {
		for _, lamp := range Lamps {
			if err := b.pins[lamp].Set(true); err != nil {
				return fmt.Errorf("failed to light %s lamp: %w", lamp, err)
			}
			if err := sleep(ctx, delay); err != nil {
				b.signal = SignalNone
				return errors.Join(err, b.clearLocked())
			}
			if err := b.pins[lamp].Set(false); err != nil {
				return fmt.Errorf("failed to darken %s lamp: %w", lamp, err)
			}
		}
	}

	b.signal = SignalNone
	return b.clearLocked()
}

func (b *Board) clearLocked() error {
	for _, lamp := range Lamps {
		if err := b.pins[lamp].Set(false); err != nil {
			return fmt.Errorf("failed to darken %s lamp: %w", lamp, err)
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
