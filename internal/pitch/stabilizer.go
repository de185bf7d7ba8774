package pitch

import (
	"math"

	"github.com/leandrodaf/tuner/sdk/contracts"
)

// Color thresholds for the tray indicator. Unlike Judge, red starts at exactly 10 cents.
const (
	GreenCents      = 3.0
	RedCents        = 10.0
	HysteresisCents = 1.0
)

// Stabilizer picks an indicator color from successive cent readings, requiring
// the reading to cross a threshold by HysteresisCents before leaving the current
// color so that the indicator does not flicker on a boundary.
// The zero value is ready to use.
type Stabilizer struct {
	current contracts.TuningColor
}

// Next feeds one reading and returns the resulting color.
func (s *Stabilizer) Next(cent float64) contracts.TuningColor {
	s.current = colorWithHysteresis(math.Abs(cent), s.current)
	return s.current
}

// Current returns the last color, or ColorNone before the first reading.
func (s *Stabilizer) Current() contracts.TuningColor {
	return s.current
}

// Reset forgets the previous color.
func (s *Stabilizer) Reset() {
	s.current = contracts.ColorNone
}

func colorWithHysteresis(abs float64, prev contracts.TuningColor) contracts.TuningColor {
	switch prev {
	case contracts.ColorGreen:
		switch {
		case abs <= GreenCents+HysteresisCents:
			return contracts.ColorGreen
		case abs >= RedCents:
			return contracts.ColorRed
		default:
			return contracts.ColorYellow
		}
	case contracts.ColorYellow:
		switch {
		case abs <= GreenCents-HysteresisCents:
			return contracts.ColorGreen
		case abs >= RedCents+HysteresisCents:
			return contracts.ColorRed
		default:
			return contracts.ColorYellow
		}
	case contracts.ColorRed:
		switch {
		case abs >= RedCents-HysteresisCents:
			return contracts.ColorRed
		case abs <= GreenCents-HysteresisCents:
			return contracts.ColorGreen
		default:
			return contracts.ColorYellow
		}
	default:
		switch {
		case abs <= GreenCents:
			return contracts.ColorGreen
		case abs < RedCents:
			return contracts.ColorYellow
		default:
			return contracts.ColorRed
		}
	}
}
