package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ngmaloney/surf-lamp/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var windowStart = time.Date(2023, 1, 31, 6, 0, 0, 0, time.UTC)

func TestStore_Pulls(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := models.Pull{
		ID:           uuid.New(),
		Start:        windowStart,
		End:          windowStart.Add(120 * time.Hour),
		FetchedAt:    windowStart.Add(time.Minute),
		Body:         []byte(`{"hours":[]}`),
		Cost:         1,
		RequestCount: 3,
		DailyQuota:   10,
	}
	second := first
	second.ID = uuid.New()
	second.FetchedAt = windowStart.Add(24 * time.Hour)
	second.RequestCount = 4

	for _, p := range []models.Pull{first, second} {
		if err := store.RecordPull(ctx, p); err != nil {
			t.Fatalf("RecordPull() error = %v", err)
		}
	}

	pulls, err := store.ListPulls(ctx, 10)
	if err != nil {
		t.Fatalf("ListPulls() error = %v", err)
	}

	if len(pulls) != 2 {
		t.Fatalf("len(pulls) = %d, want 2", len(pulls))
	}
	if pulls[0].ID != second.ID {
		t.Errorf("pulls[0].ID = %v, want newest %v", pulls[0].ID, second.ID)
	}

	got := pulls[1]
	if string(got.Body) != string(first.Body) {
		t.Errorf("Body = %s, want %s", got.Body, first.Body)
	}
	if !got.Start.Equal(first.Start) || !got.End.Equal(first.End) || !got.FetchedAt.Equal(first.FetchedAt) {
		t.Errorf("times = %v/%v/%v", got.Start, got.End, got.FetchedAt)
	}
	if got.Cost != 1 || got.RequestCount != 3 || got.DailyQuota != 10 {
		t.Errorf("meta = %d/%d/%d, want 1/3/10", got.Cost, got.RequestCount, got.DailyQuota)
	}
}

func TestStore_RecordPullAssignsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.RecordPull(ctx, models.Pull{Body: []byte("{}")}); err != nil {
		t.Fatalf("RecordPull() error = %v", err)
	}

	pulls, err := store.ListPulls(ctx, 1)
	if err != nil {
		t.Fatalf("ListPulls() error = %v", err)
	}
	if len(pulls) != 1 || pulls[0].ID == uuid.Nil {
		t.Errorf("pulls = %+v, want one pull with an ID", pulls)
	}
}

func TestStore_Evaluations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.LatestEvaluation(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestEvaluation() on empty store error = %v, want ErrNotFound", err)
	}

	good := models.Evaluation{
		ID:        uuid.New(),
		Start:     windowStart,
		Rating:    models.RatingGood,
		BestAt:    windowStart.Add(37 * time.Hour),
		Slots:     120,
		CreatedAt: windowStart.Add(time.Second),
	}
	failed := models.Evaluation{
		ID:        uuid.New(),
		Start:     windowStart.Add(24 * time.Hour),
		Rating:    models.RatingError,
		Error:     "stormglass request timed out",
		CreatedAt: windowStart.Add(24*time.Hour + time.Second),
	}

	for _, e := range []models.Evaluation{good, failed} {
		if err := store.SaveEvaluation(ctx, e); err != nil {
			t.Fatalf("SaveEvaluation() error = %v", err)
		}
	}

	latest, err := store.LatestEvaluation(ctx)
	if err != nil {
		t.Fatalf("LatestEvaluation() error = %v", err)
	}
	if latest.ID != failed.ID {
		t.Errorf("latest ID = %v, want %v", latest.ID, failed.ID)
	}
	if latest.Rating != models.RatingError || latest.Error != failed.Error {
		t.Errorf("latest = %+v", latest)
	}
	if !latest.BestAt.IsZero() {
		t.Errorf("BestAt = %v, want zero", latest.BestAt)
	}

	evals, err := store.ListEvaluations(ctx, 10)
	if err != nil {
		t.Fatalf("ListEvaluations() error = %v", err)
	}
	if len(evals) != 2 {
		t.Fatalf("len(evals) = %d, want 2", len(evals))
	}

	got := evals[1]
	if got.Rating != models.RatingGood || got.Slots != 120 || got.Error != "" {
		t.Errorf("evals[1] = %+v", got)
	}
	if !got.BestAt.Equal(good.BestAt) || !got.Start.Equal(good.Start) {
		t.Errorf("evals[1] times = %v/%v", got.Start, got.BestAt)
	}

	limited, err := store.ListEvaluations(ctx, 1)
	if err != nil {
		t.Fatalf("ListEvaluations() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("len(limited) = %d, want 1", len(limited))
	}
}

func TestStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.SaveEvaluation(ctx, models.Evaluation{Start: windowStart, Rating: models.RatingMarginal}); err != nil {
		t.Fatalf("SaveEvaluation() error = %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer store.Close()

	latest, err := store.LatestEvaluation(ctx)
	if err != nil {
		t.Fatalf("LatestEvaluation() error = %v", err)
	}
	if latest.Rating != models.RatingMarginal {
		t.Errorf("Rating = %v, want marginal", latest.Rating)
	}
}
