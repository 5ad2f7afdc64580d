package models

import (
	"time"

	"github.com/google/uuid"
)

// Evaluation is the outcome of one morning check
type Evaluation struct {
	ID        uuid.UUID `json:"id"`
	Start     time.Time `json:"start"`   // first instant of the rated window
	Rating    Rating    `json:"rating"`  // best rating across the window
	BestAt    time.Time `json:"best_at"` // slot that produced Rating (zero on error)
	Slots     int       `json:"slots"`   // number of hourly slots rated
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Pull is a raw forecast API response kept for later inspection
type Pull struct {
	ID           uuid.UUID
	Start        time.Time
	End          time.Time
	FetchedAt    time.Time
	Body         []byte // response body exactly as received
	Cost         int
	RequestCount int
	DailyQuota   int
}
