package indicator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ngmaloney/surf-lamp/internal/models"
	"go.uber.org/zap/zaptest"
)

// fakePin records its state and every write
type fakePin struct {
	on     bool
	writes int
	err    error
}

func (p *fakePin) Set(on bool) error {
	if p.err != nil {
		return p.err
	}
	p.on = on
	p.writes++
	return nil
}

func newFakeBoard(t *testing.T) (*Board, map[Lamp]*fakePin) {
	fakes := map[Lamp]*fakePin{
		LampGreen:  {},
		LampYellow: {},
		LampBlue:   {},
	}
	pins := make(map[Lamp]Pin, len(fakes))
	for l, p := range fakes {
		pins[l] = p
	}

	board, err := NewBoard(pins, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	return board, fakes
}

func lit(fakes map[Lamp]*fakePin) []Lamp {
	var on []Lamp
	for _, l := range Lamps {
		if fakes[l].on {
			on = append(on, l)
		}
	}
	return on
}

func TestSignalFor(t *testing.T) {
	tests := []struct {
		rating models.Rating
		want   Signal
	}{
		{models.RatingGood, SignalGood},
		{models.RatingMarginal, SignalMarginal},
		{models.RatingPoor, SignalNone},
		{models.RatingError, SignalError},
	}

	for _, tt := range tests {
		t.Run(tt.rating.String(), func(t *testing.T) {
			if got := SignalFor(tt.rating); got != tt.want {
				t.Errorf("SignalFor(%v) = %v, want %v", tt.rating, got, tt.want)
			}
		})
	}
}

func TestBoard_Set(t *testing.T) {
	tests := []struct {
		signal Signal
		want   []Lamp
	}{
		{SignalGood, []Lamp{LampGreen}},
		{SignalMarginal, []Lamp{LampYellow}},
		{SignalError, []Lamp{LampBlue}},
		{SignalNone, nil},
	}

	for _, tt := range tests {
		t.Run(tt.signal.String(), func(t *testing.T) {
			board, fakes := newFakeBoard(t)

			// Start from a different lamp to prove Set clears first
			fakes[LampBlue].on = true
			fakes[LampGreen].on = true

			if err := board.Set(context.Background(), tt.signal); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got := lit(fakes)
			if len(got) != len(tt.want) {
				t.Fatalf("lit = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("lit = %v, want %v", got, tt.want)
				}
			}
			if board.Signal() != tt.signal {
				t.Errorf("Signal() = %v, want %v", board.Signal(), tt.signal)
			}
		})
	}
}

func TestBoard_SetIsIdempotent(t *testing.T) {
	board, fakes := newFakeBoard(t)

	for i := 0; i < 2; i++ {
		if err := board.Set(context.Background(), SignalGood); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	got := lit(fakes)
	if len(got) != 1 || got[0] != LampGreen {
		t.Errorf("lit = %v, want only GREEN", got)
	}
}

func TestBoard_Clear(t *testing.T) {
	board, fakes := newFakeBoard(t)

	if err := board.Set(context.Background(), SignalMarginal); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := board.Clear(context.Background()); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if got := lit(fakes); len(got) != 0 {
		t.Errorf("lit = %v, want none", got)
	}
}

func TestBoard_PinFailure(t *testing.T) {
	board, fakes := newFakeBoard(t)
	fakes[LampYellow].err = errors.New("pin busy")

	if err := board.Set(context.Background(), SignalGood); err == nil {
		t.Error("Set() expected error, got nil")
	}
	if board.Signal() != SignalNone {
		t.Errorf("Signal() = %v, want none after a failed Set", board.Signal())
	}
}

func TestNewBoard_MissingPin(t *testing.T) {
	pins := map[Lamp]Pin{LampGreen: &fakePin{}, LampYellow: &fakePin{}}

	if _, err := NewBoard(pins, nil); err == nil {
		t.Error("NewBoard() expected error for missing BLUE pin")
	}
}

func TestBoard_Test(t *testing.T) {
	board, fakes := newFakeBoard(t)

	if err := board.Test(context.Background(), 2, time.Millisecond); err != nil {
		t.Fatalf("Test() error = %v", err)
	}

	if got := lit(fakes); len(got) != 0 {
		t.Errorf("lit = %v, want none after self-test", got)
	}
	// each cycle writes on and off per lamp, then a final clear
	for _, l := range Lamps {
		if fakes[l].writes != 2*2+1 {
			t.Errorf("%s writes = %d, want 5", l, fakes[l].writes)
		}
	}
}

func TestBoard_TestCanceled(t *testing.T) {
	board, fakes := newFakeBoard(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := board.Test(ctx, 3, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Test() error = %v, want context.Canceled", err)
	}
	if got := lit(fakes); len(got) != 0 {
		t.Errorf("lit = %v, want none after canceled self-test", got)
	}
}

// stuckPin lights but fails to turn off
type stuckPin struct {
	on bool
}

func (p *stuckPin) Set(on bool) error {
	if !on {
		return errors.New("pin write failed")
	}
	p.on = true
	return nil
}

func TestBoard_TestCanceledReportsClearFailure(t *testing.T) {
	pins := map[Lamp]Pin{LampGreen: &stuckPin{}, LampYellow: &fakePin{}, LampBlue: &fakePin{}}
	board, err := NewBoard(pins, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = board.Test(ctx, 1, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Test() error = %v, want context.Canceled", err)
	}
	if err == nil || !strings.Contains(err.Error(), "failed to darken GREEN lamp") {
		t.Errorf("Test() error = %v, want the clear failure too", err)
	}
}

func TestConsolePins(t *testing.T) {
	var buf bytes.Buffer
	board, err := NewBoard(ConsolePins(&buf), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}

	if err := board.Set(context.Background(), SignalGood); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := board.Set(context.Background(), SignalGood); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "GREEN") || !strings.Contains(out, "led is now on") {
		t.Errorf("output = %q, want GREEN turned on", out)
	}
	if n := strings.Count(out, "now on"); n != 1 {
		t.Errorf("printed %d transitions to on, want 1", n)
	}
	if strings.Contains(out, "now off") {
		t.Errorf("output = %q, lamps that were never on should not report off", out)
	}
}
