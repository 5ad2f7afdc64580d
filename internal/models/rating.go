package models

import "fmt"

// Rating is the surf quality of a slot or of a whole forecast window.
// Ratings order naturally: a higher value is better surf.
type Rating int

const (
	RatingError    Rating = -1 // retrieval or ingestion failed, no rating available
	RatingPoor     Rating = 0
	RatingMarginal Rating = 1
	RatingGood     Rating = 2
)

// String returns the lower-case name of the rating
func (r Rating) String() string {
	switch r {
	case RatingError:
		return "error"
	case RatingPoor:
		return "poor"
	case RatingMarginal:
		return "marginal"
	case RatingGood:
		return "good"
	}
	return "unknown"
}

// ParseRating is the inverse of Rating.String
func ParseRating(s string) (Rating, bool) {
	for _, r := range []Rating{RatingError, RatingPoor, RatingMarginal, RatingGood} {
		if r.String() == s {
			return r, true
		}
	}
	return RatingError, false
}

// MarshalText encodes the rating by name so JSON payloads stay readable
func (r Rating) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rating name
func (r *Rating) UnmarshalText(text []byte) error {
	parsed, ok := ParseRating(string(text))
	if !ok {
		return fmt.Errorf("unknown rating %q", string(text))
	}
	*r = parsed
	return nil
}
