// Package forecast turns raw Stormglass hours into rated forecast slots
package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/ngmaloney/surf-lamp/internal/models"
	"github.com/ngmaloney/surf-lamp/internal/stormglass"
)

// DefaultPrimarySource is the Stormglass aggregate source
const DefaultPrimarySource = "sg"

// MalformedRecordError reports an hour that cannot be turned into a forecast slot
type MalformedRecordError struct {
	Index  int    // position of the hour in the series
	Field  string // offending field
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed hour %d: %s: %s", e.Index, e.Field, e.Reason)
}

// Ingest converts hours into forecasts. Wind speed is the mean over every source for the
// hour; the remaining fields come from primarySource. The whole series fails on the first
// malformed hour.
func Ingest(hours []stormglass.Hour, primarySource string) ([]models.Forecast, error) {
	forecasts := make([]models.Forecast, 0, len(hours))
	for i, h := range hours {
		f, err := ingestHour(i, h, primarySource)
		if err != nil {
			return nil, err
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, nil
}

func ingestHour(index int, h stormglass.Hour, primarySource string) (models.Forecast, error) {
	t, err := time.Parse(time.RFC3339, h.Time)
	if err != nil {
		return models.Forecast{}, &MalformedRecordError{Index: index, Field: "time", Reason: err.Error()}
	}

	windSpeed, err := meanOf(h.Sources(stormglass.FieldWindSpeed))
	if err != nil {
		return models.Forecast{}, &MalformedRecordError{Index: index, Field: stormglass.FieldWindSpeed, Reason: err.Error()}
	}

	f := models.Forecast{
		Time:      t,
		WindSpeed: windSpeed,
	}

	primary := []struct {
		field string
		dest  *float64
	}{
		{stormglass.FieldSwellHeight, &f.WaveHeight},
		{stormglass.FieldSwellPeriod, &f.WavePeriod},
		{stormglass.FieldSwellDirection, &f.WaveDirection},
		{stormglass.FieldWindDirection, &f.WindDirection},
	}
	for _, p := range primary {
		v, ok := h.Value(p.field, primarySource)
		if !ok {
			return models.Forecast{}, &MalformedRecordError{
				Index:  index,
				Field:  p.field,
				Reason: fmt.Sprintf("no %q source", primarySource),
			}
		}
		*p.dest = v
	}

	return f, nil
}

// meanOf averages the readings in a stable source order
func meanOf(sources map[string]float64) (float64, error) {
	if len(sources) == 0 {
		return 0, fmt.Errorf("no sources")
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var sum float64
	for _, name := range names {
		sum += sources[name]
	}
	return sum / float64(len(sources)), nil
}
