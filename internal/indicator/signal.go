// Package indicator drives the status lamps that show the morning rating
package indicator

import "github.com/ngmaloney/surf-lamp/internal/models"

// Signal is what the lamps should display
type Signal int

const (
	SignalNone Signal = iota
	SignalMarginal
	SignalGood
	SignalError
)

func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalMarginal:
		return "marginal"
	case SignalGood:
		return "good"
	case SignalError:
		return "error"
	default:
		return "unknown"
	}
}

// SignalFor maps a rating onto a signal. Poor surf leaves every lamp off.
func SignalFor(r models.Rating) Signal {
	switch r {
	case models.RatingGood:
		return SignalGood
	case models.RatingMarginal:
		return SignalMarginal
	case models.RatingError:
		return SignalError
	default:
		return SignalNone
	}
}

// Lamp identifies one physical lamp
type Lamp int

const (
	LampGreen Lamp = iota
	LampYellow
	LampBlue
)

// Lamps lists every lamp in blink order
var Lamps = []Lamp{LampGreen, LampYellow, LampBlue}

func (l Lamp) String() string {
	switch l {
	case LampGreen:
		return "GREEN"
	case LampYellow:
		return "YELLOW"
	case LampBlue:
		return "BLUE"
	default:
		return "UNKNOWN"
	}
}

// lampFor returns the lamp lit for s, false for SignalNone
func lampFor(s Signal) (Lamp, bool) {
	switch s {
	case SignalGood:
		return LampGreen, true
	case SignalMarginal:
		return LampYellow, true
	case SignalError:
		return LampBlue, true
	default:
		return 0, false
	}
}
