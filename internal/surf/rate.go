package surf

import (
	"fmt"

	"github.com/ngmaloney/surf-lamp/internal/models"
)

// Thresholds are the per-axis limits used to vote on a slot.
// Period and height are good at or above their Good value and bad at or below their Bad value;
// wind quality runs the other way.
type Thresholds struct {
	GoodPeriod float64 `json:"goodPeriod" yaml:"goodPeriod"` // seconds
	BadPeriod  float64 `json:"badPeriod" yaml:"badPeriod"`
	GoodHeight float64 `json:"goodHeight" yaml:"goodHeight"` // meters
	BadHeight  float64 `json:"badHeight" yaml:"badHeight"`
	GoodWind   float64 `json:"goodWind" yaml:"goodWind"` // wind quality
	BadWind    float64 `json:"badWind" yaml:"badWind"`
}

// DefaultThresholds are tuned for the home break
var DefaultThresholds = Thresholds{
	GoodPeriod: 8.5,
	BadPeriod:  6.5,
	GoodHeight: 1.4,
	BadHeight:  0.8,
	GoodWind:   2.4,
	BadWind:    6.5,
}

// Validate reports thresholds whose good and bad ranges are inverted
func (t Thresholds) Validate() error {
	if t.GoodPeriod < t.BadPeriod {
		return fmt.Errorf("good period %.2f is below bad period %.2f", t.GoodPeriod, t.BadPeriod)
	}
	if t.GoodHeight < t.BadHeight {
		return fmt.Errorf("good height %.2f is below bad height %.2f", t.GoodHeight, t.BadHeight)
	}
	if t.GoodWind > t.BadWind {
		return fmt.Errorf("good wind %.2f is above bad wind %.2f", t.GoodWind, t.BadWind)
	}
	return nil
}

// Rater classifies forecast slots by majority vote over period, height and wind quality
type Rater struct {
	thresholds  Thresholds
	shoreNormal float64
}

// NewRater creates a rater for a spot facing shoreNormal
func NewRater(thresholds Thresholds, shoreNormal float64) *Rater {
	return &Rater{
		thresholds:  thresholds,
		shoreNormal: shoreNormal,
	}
}

// Rate rates a single forecast slot
func (r *Rater) Rate(f models.Forecast) models.Rating {
	return r.RateConditions(f.WavePeriod, f.WaveHeight, r.WindQuality(f))
}

// WindQuality scores the slot's wind against the rater's shore normal
func (r *Rater) WindQuality(f models.Forecast) float64 {
	return WindQuality(f.WindDirection, f.WindSpeed, r.shoreNormal)
}

// RateConditions returns RatingGood when at least two axes are good, otherwise RatingPoor
// when at least two are bad, otherwise RatingMarginal. Good always wins the tie.
func (r *Rater) RateConditions(period, height, windQuality float64) models.Rating {
	t := r.thresholds

	good := countTrue(
		period >= t.GoodPeriod,
		height >= t.GoodHeight,
		windQuality <= t.GoodWind,
	)
	if good >= 2 {
		return models.RatingGood
	}

	bad := countTrue(
		period <= t.BadPeriod,
		height <= t.BadHeight,
		windQuality >= t.BadWind,
	)
	if bad >= 2 {
		return models.RatingPoor
	}

	return models.RatingMarginal
}

func countTrue(conditions ...bool) int {
	n := 0
	for _, c := range conditions {
		if c {
			n++
		}
	}
	return n
}
