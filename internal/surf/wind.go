// Package surf scores forecast slots for surf quality at a single spot
package surf

import "math"

const (
	// DefaultShoreNormal is the bearing, in degrees, that points straight off the beach.
	// Wind blowing from this bearing is fully offshore.
	DefaultShoreNormal = 105.0

	// Edge splits the two regimes of the direction factor, in degrees either side of the
	// shore normal. Inside it the wind is on- to cross-shore, outside it is near offshore.
	Edge = 121.628
)

// relativeBearing returns windDirection relative to shoreNormal, folded into (-180, 180]
// for bearings in the usual [0, 360) range.
func relativeBearing(windDirection, shoreNormal float64) float64 {
	deg := windDirection - shoreNormal
	if deg > 180 {
		deg -= 360
	}
	return deg
}

// DirectionFactor is the dimensionless penalty for wind blowing from windDirection.
// The cosine argument is scaled by π/90, so the curve repeats every 180 degrees.
// The two regimes are not matched at ±Edge; the jump there is part of the tuning.
func DirectionFactor(windDirection, shoreNormal float64) float64 {
	deg := relativeBearing(windDirection, shoreNormal)
	c := math.Cos(deg * math.Pi / 90)
	if -Edge < deg && deg < Edge {
		return -1.5*c + 2.5
	}
	return c/1.5 + 0.3
}

// WindQuality combines wind direction and speed into a single score.
// Lower is better: light offshore wind scores near zero, strong onshore wind scores high.
// NaN in either input yields NaN; callers get no clamping.
func WindQuality(windDirection, windSpeed, shoreNormal float64) float64 {
	return DirectionFactor(windDirection, shoreNormal) * windSpeed / 10
}
