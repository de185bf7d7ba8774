package pitch

import (
	"math"

	"github.com/leandrodaf/tuner/sdk/contracts"
)

// ResolveA4 returns the reference frequency the detection engine works against.
// customPitch is used as-is; range checks belong to the caller.
func ResolveA4(mode contracts.PitchMode, customPitch float64, tuningShift int) float64 {
	switch mode {
	case contracts.PitchCustom:
		return customPitch
	case contracts.PitchShift:
		return StandardA4 * math.Pow(2, float64(tuningShift)/12)
	default:
		return StandardA4
	}
}

// DisplayA4 returns the reference used to name detected notes. Only a custom
// pitch moves it; a tuning shift renames the string targets instead, so a
// detuned string is still shown under its real name.
func DisplayA4(mode contracts.PitchMode, customPitch float64) float64 {
	if mode == contracts.PitchCustom && positiveFinite(customPitch) {
		return customPitch
	}
	return StandardA4
}

// ValidCustomPitch reports whether hz is an accepted custom reference pitch.
func ValidCustomPitch(hz float64) bool {
	return hz >= MinCustomPitch && hz <= MaxCustomPitch
}
