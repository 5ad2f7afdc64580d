package checker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ngmaloney/surf-lamp/internal/forecast"
	"github.com/ngmaloney/surf-lamp/internal/indicator"
	"github.com/ngmaloney/surf-lamp/internal/models"
	"go.uber.org/zap/zaptest"
)

type mockEvaluator struct {
	report  forecast.Report
	release chan struct{}
	started chan struct{}
}

func (m *mockEvaluator) Run(ctx context.Context) forecast.Report {
	if m.started != nil {
		close(m.started)
	}
	if m.release != nil {
		<-m.release
	}
	return m.report
}

type mockStore struct {
	saved []models.Evaluation
	err   error
}

func (m *mockStore) SaveEvaluation(ctx context.Context, e models.Evaluation) error {
	m.saved = append(m.saved, e)
	return m.err
}

type mockLamps struct {
	signals []indicator.Signal
	cleared int
	err     error
}

func (m *mockLamps) Set(ctx context.Context, s indicator.Signal) error {
	if m.err != nil {
		return m.err
	}
	m.signals = append(m.signals, s)
	return nil
}

func (m *mockLamps) Clear(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.cleared++
	return nil
}

type mockObserver struct {
	ratings []models.Rating
}

func (m *mockObserver) ObserveEvaluation(r models.Rating, took time.Duration) {
	m.ratings = append(m.ratings, r)
}

func TestService_Run(t *testing.T) {
	tests := []struct {
		name   string
		report forecast.Report
		want   indicator.Signal
	}{
		{"good", forecast.Report{Rating: models.RatingGood}, indicator.SignalGood},
		{"marginal", forecast.Report{Rating: models.RatingMarginal}, indicator.SignalMarginal},
		{"poor", forecast.Report{Rating: models.RatingPoor}, indicator.SignalNone},
		{"error", forecast.Report{Rating: models.RatingError, Err: forecast.ErrNoData}, indicator.SignalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			lamps := &mockLamps{}
			observer := &mockObserver{}

			svc := NewService(&mockEvaluator{report: tt.report}, store, lamps, zaptest.NewLogger(t))
			svc.SetObserver(observer)

			report, err := svc.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if report.Rating != tt.report.Rating {
				t.Errorf("Rating = %v, want %v", report.Rating, tt.report.Rating)
			}

			if len(lamps.signals) != 1 || lamps.signals[0] != tt.want {
				t.Errorf("signals = %v, want [%v]", lamps.signals, tt.want)
			}
			if len(store.saved) != 1 || store.saved[0].Rating != tt.report.Rating {
				t.Errorf("saved = %+v, want one %v evaluation", store.saved, tt.report.Rating)
			}
			if len(observer.ratings) != 1 || observer.ratings[0] != tt.report.Rating {
				t.Errorf("observed = %v", observer.ratings)
			}

			last, ok := svc.Last()
			if !ok || last.Rating != tt.report.Rating {
				t.Errorf("Last() = %v, %v", last.Rating, ok)
			}
		})
	}
}

func TestService_RunStoreFailureStillLights(t *testing.T) {
	store := &mockStore{err: errors.New("database is locked")}
	lamps := &mockLamps{}

	svc := NewService(&mockEvaluator{report: forecast.Report{Rating: models.RatingGood}}, store, lamps, zaptest.NewLogger(t))

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(lamps.signals) != 1 || lamps.signals[0] != indicator.SignalGood {
		t.Errorf("signals = %v, want [good]", lamps.signals)
	}
}

func TestService_RunLampFailure(t *testing.T) {
	lamps := &mockLamps{err: errors.New("gpio busy")}
	svc := NewService(&mockEvaluator{report: forecast.Report{Rating: models.RatingGood}}, nil, lamps, zaptest.NewLogger(t))

	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}
	if report.Rating != models.RatingGood {
		t.Errorf("Rating = %v, want the report despite the lamp failure", report.Rating)
	}
}

func TestService_RunBusy(t *testing.T) {
	eval := &mockEvaluator{
		report:  forecast.Report{Rating: models.RatingPoor},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	svc := NewService(eval, nil, &mockLamps{}, zaptest.NewLogger(t))

	done := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background())
		done <- err
	}()
	<-eval.started

	if _, err := svc.Run(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Run() error = %v, want ErrBusy", err)
	}

	close(eval.release)
	if err := <-done; err != nil {
		t.Errorf("first Run() error = %v", err)
	}
}

func TestService_Halt(t *testing.T) {
	lamps := &mockLamps{}
	svc := NewService(&mockEvaluator{}, nil, lamps, zaptest.NewLogger(t))

	if err := svc.Halt(context.Background()); err != nil {
		t.Fatalf("Halt() error = %v", err)
	}
	if lamps.cleared != 1 {
		t.Errorf("cleared = %d, want 1", lamps.cleared)
	}

	if _, ok := svc.Last(); ok {
		t.Error("Last() before any run should report false")
	}
}
