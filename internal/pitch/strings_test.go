package pitch

import (
	"math"
	"testing"

	"github.com/leandrodaf/tuner/sdk/contracts"
)

var standardTable = [NumStrings]contracts.GuitarNote{
	{Name: "E2", Freq: 82.41},
	{Name: "A2", Freq: 110.0},
	{Name: "D3", Freq: 146.83},
	{Name: "G3", Freq: 196.0},
	{Name: "B3", Freq: 246.94},
	{Name: "E4", Freq: 329.63},
}

func TestResolveA4(t *testing.T) {
	if got := ResolveA4(contracts.PitchStandard, 445, -3); got != 440.0 {
		t.Fatalf("standard: got %v want 440", got)
	}
	if got := ResolveA4(contracts.PitchCustom, 442, -3); got != 442 {
		t.Fatalf("custom: got %v want 442", got)
	}
	if got := ResolveA4(contracts.PitchShift, 442, -1); math.Abs(got-415.3047) > 0.001 {
		t.Fatalf("shift -1: got %v want ~415.305", got)
	}
	if got := ResolveA4(contracts.PitchMode("bogus"), 442, -1); got != 440.0 {
		t.Fatalf("unknown mode: got %v want 440", got)
	}
}

func TestDisplayA4(t *testing.T) {
	if got := DisplayA4(contracts.PitchShift, 442); got != StandardA4 {
		t.Fatalf("shift should name against 440, got %v", got)
	}
	if got := DisplayA4(contracts.PitchCustom, 442); got != 442 {
		t.Fatalf("custom should name against 442, got %v", got)
	}
}

func TestGuitarStringsStandard(t *testing.T) {
	got := GuitarStrings(contracts.TuningConfig{
		Mode:           contracts.PitchStandard,
		CustomPitch:    440,
		DropTuningNote: contracts.DropD,
	})
	for i, want := range standardTable {
		if got[i].Name != want.Name {
			t.Errorf("string %d: name %q want %q", i, got[i].Name, want.Name)
		}
		if math.Abs(got[i].Freq-want.Freq) > 0.01 {
			t.Errorf("string %d: freq %.4f want %.2f", i, got[i].Freq, want.Freq)
		}
	}
}

func TestGuitarStringsDropOnlyTouchesSixthString(t *testing.T) {
	modes := []contracts.TuningConfig{
		{Mode: contracts.PitchStandard, CustomPitch: 440},
		{Mode: contracts.PitchCustom, CustomPitch: 443},
		{Mode: contracts.PitchShift, CustomPitch: 440, TuningShift: -2},
	}
	for _, cfg := range modes {
		cfg.DropTuningNote = contracts.DropD
		off := GuitarStrings(cfg)
		cfg.DropTuningEnabled = true
		on := GuitarStrings(cfg)
		for i := 1; i < NumStrings; i++ {
			if on[i] != off[i] {
				t.Errorf("mode %s: string %d changed by drop tuning: %+v -> %+v", cfg.Mode, i, off[i], on[i])
			}
		}
		if on[0] == off[0] {
			t.Errorf("mode %s: sixth string unchanged by drop tuning", cfg.Mode)
		}
	}
}

func TestGuitarStringsDropD(t *testing.T) {
	got := GuitarStrings(contracts.TuningConfig{
		Mode:              contracts.PitchStandard,
		CustomPitch:       440,
		DropTuningEnabled: true,
		DropTuningNote:    contracts.DropD,
	})
	if got[0].Name != "D2" {
		t.Fatalf("name: got %q want D2", got[0].Name)
	}
	if math.Abs(got[0].Freq-73.42) > 0.005 {
		t.Fatalf("freq: got %.4f want 73.42", got[0].Freq)
	}
}

// The drop string is named from the rounded semitone but keeps the preset's
// exact frequency, which is not an equal-tempered value.
func TestGuitarStringsDropNamingAndFrequencySplit(t *testing.T) {
	tests := []struct {
		note     contracts.DropTuningNote
		wantName string
	}{
		{contracts.DropDSharp, "D#2"},
		{contracts.DropCSharp, "C#2"},
		{contracts.DropC, "C2"},
		{contracts.DropB, "B1"},
	}
	for _, tt := range tests {
		got := GuitarStrings(contracts.TuningConfig{
			Mode:              contracts.PitchStandard,
			DropTuningEnabled: true,
			DropTuningNote:    tt.note,
		})
		if got[0].Name != tt.wantName {
			t.Errorf("%s: name %q want %q", tt.note, got[0].Name, tt.wantName)
		}
		if math.Abs(got[0].Freq-tt.note.Frequency()) > 1e-9 {
			t.Errorf("%s: freq %.6f want exact preset %.2f", tt.note, got[0].Freq, tt.note.Frequency())
		}
		rounded := MIDIToFrequency(math.Round(FrequencyToMIDI(tt.note.Frequency())))
		if math.Abs(got[0].Freq-rounded) < 1e-3 {
			t.Errorf("%s: freq %.6f collapsed onto equal-tempered %.6f", tt.note, got[0].Freq, rounded)
		}
	}
}

func TestGuitarStringsShift(t *testing.T) {
	got := GuitarStrings(contracts.TuningConfig{
		Mode:           contracts.PitchShift,
		CustomPitch:    445,
		TuningShift:    -2,
		DropTuningNote: contracts.DropD,
	})
	wantNames := [NumStrings]string{"D2", "G2", "C3", "F3", "A3", "D4"}
	for i, want := range wantNames {
		if got[i].Name != want {
			t.Errorf("string %d: name %q want %q", i, got[i].Name, want)
		}
		wantFreq := standardTable[i].Freq * math.Pow(2, -2.0/12)
		if math.Abs(got[i].Freq-wantFreq) > 0.01 {
			t.Errorf("string %d: freq %.4f want %.4f", i, got[i].Freq, wantFreq)
		}
	}

	dropped := GuitarStrings(contracts.TuningConfig{
		Mode:              contracts.PitchShift,
		TuningShift:       -2,
		DropTuningEnabled: true,
		DropTuningNote:    contracts.DropD,
	})
	if dropped[0].Name != "C2" {
		t.Fatalf("shifted drop D: name %q want C2", dropped[0].Name)
	}
	if math.Abs(dropped[0].Freq-65.41) > 0.01 {
		t.Fatalf("shifted drop D: freq %.4f want ~65.41", dropped[0].Freq)
	}
}

func TestGuitarStringsCustomScalesFrequencyOnly(t *testing.T) {
	std := GuitarStrings(contracts.TuningConfig{Mode: contracts.PitchStandard})
	got := GuitarStrings(contracts.TuningConfig{
		Mode:        contracts.PitchCustom,
		CustomPitch: 442,
		TuningShift: -3,
	})
	for i := range got {
		if got[i].Name != std[i].Name {
			t.Errorf("string %d: custom pitch renamed %q to %q", i, std[i].Name, got[i].Name)
		}
		want := std[i].Freq * 442 / 440
		if math.Abs(got[i].Freq-want) > 1e-9 {
			t.Errorf("string %d: freq %.6f want %.6f", i, got[i].Freq, want)
		}
	}
}
