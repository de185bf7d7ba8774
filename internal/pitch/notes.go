// Package pitch converts frequencies to notes and derives per-string targets
// for a six-string guitar under the standard, custom and shifted pitch modes.
package pitch

import (
	"math"
	"strconv"

	"github.com/leandrodaf/tuner/sdk/contracts"
)

const (
	// StandardA4 is the concert reference pitch in Hz.
	StandardA4 = 440.0
	// A4MIDI is the MIDI note number of A4.
	A4MIDI = 69
	// MinCustomPitch and MaxCustomPitch bound an accepted custom reference pitch.
	MinCustomPitch = 438.0
	MaxCustomPitch = 445.0
)

// NoteNames lists pitch classes starting at C.
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MapFrequency returns the nearest note to *freq relative to a4.
// A nil frequency means "no signal".
func MapFrequency(freq *float64, a4 float64) contracts.NoteInfo {
	if freq == nil {
		return contracts.SilentNote
	}
	return NoteFromFrequency(*freq, a4)
}

// NoteFromFrequency returns the nearest semitone, the cent deviation from it and
// its frequency. Non-positive or non-finite inputs yield contracts.SilentNote.
func NoteFromFrequency(f, a4 float64) contracts.NoteInfo {
	if !positiveFinite(f) || !positiveFinite(a4) {
		return contracts.SilentNote
	}

	// Log difference instead of log of the ratio: f/a4 can underflow or overflow.
	semitones := 12 * (math.Log2(f) - math.Log2(a4))
	// Ties go to the lower semitone so the deviation stays within (-50, 50].
	nearest := math.Ceil(semitones - 0.5)
	target := a4 * math.Pow(2, nearest/12)
	if math.IsNaN(semitones) || math.IsInf(semitones, 0) || math.IsInf(target, 0) {
		return contracts.SilentNote
	}

	return contracts.NoteInfo{
		Name:       NoteName(A4MIDI + int(nearest)),
		Cent:       (semitones - nearest) * 100,
		TargetFreq: target,
	}
}

// NoteName renders a MIDI note number as pitch class plus octave, e.g. 69 -> "A4".
// Negative note numbers wrap into the correct pitch class.
func NoteName(midi int) string {
	octave := floorDiv(midi, 12) - 1
	idx := ((midi % 12) + 12) % 12
	return NoteNames[idx] + strconv.Itoa(octave)
}

// MIDIToFrequency is the equal-tempered frequency of a (possibly fractional) MIDI note at A4 = 440 Hz.
func MIDIToFrequency(midi float64) float64 {
	return StandardA4 * math.Pow(2, (midi-A4MIDI)/12)
}

// FrequencyToMIDI is the inverse of MIDIToFrequency. The result is not rounded.
func FrequencyToMIDI(f float64) float64 {
	return 12*math.Log2(f/StandardA4) + A4MIDI
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
