// Package stormglass retrieves hourly point forecasts from the Stormglass weather API
package stormglass

import (
	"context"
	"time"

	"github.com/ngmaloney/surf-lamp/internal/models"
)

// Forecast fields requested from the point endpoint
const (
	FieldWindSpeed      = "windSpeed"
	FieldWindDirection  = "windDirection"
	FieldSwellHeight    = "swellHeight"
	FieldSwellDirection = "swellDirection"
	FieldSwellPeriod    = "swellPeriod"
)

// DefaultParams is the field set every surf check needs
var DefaultParams = []string{
	FieldWindSpeed,
	FieldWindDirection,
	FieldSwellHeight,
	FieldSwellDirection,
	FieldSwellPeriod,
}

// Query describes one point forecast request. It is built per call and never shared.
type Query struct {
	Lat    float64
	Lng    float64
	Params []string
	Start  time.Time
	End    time.Time
}

// Fetcher defines the interface for retrieving an hourly forecast series
type Fetcher interface {
	// FetchForecast retrieves every hour between q.Start and q.End
	FetchForecast(ctx context.Context, q Query) (*Response, error)
}

// PullRecorder stores raw API responses
type PullRecorder interface {
	// RecordPull appends a raw response to the pull log
	RecordPull(ctx context.Context, pull models.Pull) error
}
