package pitch

import (
	"math"
	"strconv"

	"github.com/leandrodaf/tuner/sdk/contracts"
)

// Cent thresholds for Judge. They are fixed; displays and tests depend on them.
const (
	PerfectCents = 3.0
	GoodCents    = 10.0
)

// Judge classifies a cent deviation.
func Judge(cent float64) contracts.TuningStatus {
	abs := math.Abs(cent)
	switch {
	case abs <= PerfectCents:
		return contracts.TuningPerfect
	case abs <= GoodCents:
		return contracts.TuningGood
	default:
		return contracts.TuningOff
	}
}

// FormatCent rounds cent to an integer and prefixes positive values with "+".
func FormatCent(cent float64) string {
	c := int(math.Round(cent))
	if c > 0 {
		return "+" + strconv.Itoa(c)
	}
	return strconv.Itoa(c)
}
