package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ngmaloney/surf-lamp/internal/models"
)

// timeLayout sorts lexically in chronological order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when no evaluation has been recorded yet
var ErrNotFound = errors.New("no evaluation recorded")

// Store handles persistence for pulls and evaluations
type Store struct {
	db *sql.DB
}

// NewStore wraps an open handle whose schema is already in place
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (and if needed creates) the database at dbPath
func Open(dbPath string) (*Store, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordPull appends a raw API response
func (s *Store) RecordPull(ctx context.Context, p models.Pull) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.FetchedAt.IsZero() {
		p.FetchedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pulls (id, window_start, window_end, fetched_at, body, cost, request_count, daily_quota)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID.String(),
		formatTime(p.Start),
		formatTime(p.End),
		formatTime(p.FetchedAt),
		p.Body,
		p.Cost,
		p.RequestCount,
		p.DailyQuota,
	)
	if err != nil {
		return fmt.Errorf("saving pull: %w", err)
	}
	return nil
}

// ListPulls returns the most recent pulls, newest first
func (s *Store) ListPulls(ctx context.Context, limit int) ([]models.Pull, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, window_start, window_end, fetched_at, body, cost, request_count, daily_quota
		FROM pulls ORDER BY fetched_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying pulls: %w", err)
	}
	defer rows.Close()

	var pulls []models.Pull
	for rows.Next() {
		var p models.Pull
		var id, start, end, fetchedAt string

		if err := rows.Scan(&id, &start, &end, &fetchedAt, &p.Body, &p.Cost, &p.RequestCount, &p.DailyQuota); err != nil {
			return nil, fmt.Errorf("scanning pull: %w", err)
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing pull id: %w", err)
		}
		if p.Start, err = parseTime(start); err != nil {
			return nil, err
		}
		if p.End, err = parseTime(end); err != nil {
			return nil, err
		}
		if p.FetchedAt, err = parseTime(fetchedAt); err != nil {
			return nil, err
		}
		pulls = append(pulls, p)
	}

	return pulls, rows.Err()
}

// SaveEvaluation records the outcome of one check
func (s *Store) SaveEvaluation(ctx context.Context, e models.Evaluation) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	var bestAt, errText sql.NullString
	if !e.BestAt.IsZero() {
		bestAt = sql.NullString{String: formatTime(e.BestAt), Valid: true}
	}
	if e.Error != "" {
		errText = sql.NullString{String: e.Error, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, window_start, rating, best_at, slots, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID.String(),
		formatTime(e.Start),
		int(e.Rating),
		bestAt,
		e.Slots,
		errText,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving evaluation: %w", err)
	}
	return nil
}

// LatestEvaluation returns the most recent evaluation or ErrNotFound
func (s *Store) LatestEvaluation(ctx context.Context) (*models.Evaluation, error) {
	evals, err := s.ListEvaluations(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(evals) == 0 {
		return nil, ErrNotFound
	}
	return &evals[0], nil
}

// ListEvaluations returns the most recent evaluations, newest first
func (s *Store) ListEvaluations(ctx context.Context, limit int) ([]models.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, window_start, rating, best_at, slots, error, created_at
		FROM evaluations ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying evaluations: %w", err)
	}
	defer rows.Close()

	var evals []models.Evaluation
	for rows.Next() {
		var e models.Evaluation
		var id, start, createdAt string
		var rating int
		var bestAt, errText sql.NullString // Handle potential nulls

		if err := rows.Scan(&id, &start, &rating, &bestAt, &e.Slots, &errText, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning evaluation: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing evaluation id: %w", err)
		}
		if e.Start, err = parseTime(start); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if bestAt.Valid {
			if e.BestAt, err = parseTime(bestAt.String); err != nil {
				return nil, err
			}
		}
		e.Rating = models.Rating(rating)
		e.Error = errText.String
		evals = append(evals, e)
	}

	return evals, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, err)
	}
	return t, nil
}
