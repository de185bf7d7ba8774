package pitch

import (
	"math"

	"github.com/leandrodaf/tuner/sdk/contracts"
)

// NumStrings is the number of strings on the instrument.
const NumStrings = 6

// OpenStrings is the MIDI note of each open string in standard tuning, low to high:
// E2(40) A2(45) D3(50) G3(55) B3(59) E4(64).
var OpenStrings = [NumStrings]int{40, 45, 50, 55, 59, 64}

// TuningShift is a whole-instrument detuning preset.
type TuningShift struct {
	Semitones int
	Label     string
}

// TuningShifts lists the offered downward shifts.
var TuningShifts = []TuningShift{
	{-1, "Half step down (Eb)"},
	{-2, "Whole step down (D)"},
	{-3, "1.5 steps down (Db)"},
	{-4, "2 steps down (C)"},
	{-5, "2.5 steps down (B)"},
}

// DropTuning is a sixth-string drop preset.
type DropTuning struct {
	Note  contracts.DropTuningNote
	Label string
}

// DropTunings lists the offered drop tunings.
var DropTunings = []DropTuning{
	{contracts.DropDSharp, "Drop D#"},
	{contracts.DropD, "Drop D"},
	{contracts.DropCSharp, "Drop C#"},
	{contracts.DropC, "Drop C"},
	{contracts.DropB, "Drop B"},
}

// GuitarStrings returns the target of every string, low to high.
//
// A shift moves the note identity of every string. A custom pitch only scales
// frequencies. With drop tuning the sixth string is named after the nearest
// semitone of the drop frequency but keeps the drop frequency itself as target.
func GuitarStrings(cfg contracts.TuningConfig) [NumStrings]contracts.GuitarNote {
	shift := 0
	if cfg.Mode == contracts.PitchShift {
		shift = cfg.TuningShift
	}
	scale := 1.0
	if cfg.Mode == contracts.PitchCustom && positiveFinite(cfg.CustomPitch) {
		scale = cfg.CustomPitch / StandardA4
	}

	var out [NumStrings]contracts.GuitarNote
	for i, open := range OpenStrings {
		midi := open + shift
		out[i] = contracts.GuitarNote{
			Name: NoteName(midi),
			Freq: MIDIToFrequency(float64(midi)) * scale,
		}
	}

	if cfg.DropTuningEnabled {
		exact := FrequencyToMIDI(cfg.DropTuningNote.Frequency()) + float64(shift)
		out[0] = contracts.GuitarNote{
			Name: NoteName(int(math.Round(exact))),
			Freq: MIDIToFrequency(exact) * scale,
		}
	}
	return out
}
