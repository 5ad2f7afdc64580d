package models

import (
	"fmt"
	"time"
)

// Forecast represents the sea conditions predicted for a single hourly slot
type Forecast struct {
	Time          time.Time
	WaveHeight    float64 // meters
	WavePeriod    float64 // seconds
	WaveDirection float64 // degrees, bearing the swell comes from
	WindSpeed     float64 // m/s, mean over every source reporting that hour
	WindDirection float64 // degrees, bearing the wind comes from
}

// String returns a one-line summary of the slot
func (f Forecast) String() string {
	return fmt.Sprintf("%s height %.2fm period %.1fs dir %.0f° wind %.1fm/s from %.0f°",
		f.Time.Format(time.RFC3339), f.WaveHeight, f.WavePeriod, f.WaveDirection,
		f.WindSpeed, f.WindDirection)
}
