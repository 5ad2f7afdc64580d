package models

import (
	"strings"
	"testing"
	"time"
)

func TestForecast_String(t *testing.T) {
	f := Forecast{
		Time:          time.Date(2023, 1, 31, 10, 0, 0, 0, time.UTC),
		WaveHeight:    1.83,
		WavePeriod:    7.51,
		WaveDirection: 268.68,
		WindSpeed:     8.44,
		WindDirection: 274.46,
	}

	s := f.String()
	for _, want := range []string{"2023-01-31T10:00:00Z", "1.83m", "7.5s", "8.4m/s", "274°"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
