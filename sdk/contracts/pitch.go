package contracts

// GuitarNote is the target of one string.
type GuitarNote struct {
	Name string  `json:"name"`
	Freq float64 `json:"freq"`
}

// NoteInfo describes the nearest semitone to a detected frequency.
// Name is NoSignal when there is no usable frequency.
type NoteInfo struct {
	Name       string  `json:"name"`
	Cent       float64 `json:"cent"`
	TargetFreq float64 `json:"targetFreq"`
}

// NoSignal is the note name reported when no frequency is available.
const NoSignal = "-"

// SilentNote is the NoteInfo returned for missing or non-positive frequencies.
var SilentNote = NoteInfo{Name: NoSignal, Cent: 0, TargetFreq: 0}

// TuningStatus is the qualitative judgment of a cent deviation.
type TuningStatus string

const (
	TuningPerfect TuningStatus = "perfect"
	TuningGood    TuningStatus = "good"
	TuningOff     TuningStatus = "off"
)

// TuningColor is the hysteresis-stabilized indicator color.
type TuningColor string

const (
	ColorNone   TuningColor = ""
	ColorGreen  TuningColor = "green"
	ColorYellow TuningColor = "yellow"
	ColorRed    TuningColor = "red"
)

// PitchMode selects how the reference pitch is derived.
type PitchMode string

const (
	PitchStandard PitchMode = "standard"
	PitchCustom   PitchMode = "custom"
	PitchShift    PitchMode = "shift"
)

// Valid reports whether m is one of the known pitch modes.
func (m PitchMode) Valid() bool {
	switch m {
	case PitchStandard, PitchCustom, PitchShift:
		return true
	}
	return false
}

// Index is the numeric code the detection backend expects.
func (m PitchMode) Index() int {
	switch m {
	case PitchCustom:
		return 1
	case PitchShift:
		return 2
	default:
		return 0
	}
}

// DropTuningNote names the note the lowest string is dropped to.
type DropTuningNote string

const (
	DropDSharp DropTuningNote = "D#"
	DropD      DropTuningNote = "D"
	DropCSharp DropTuningNote = "C#"
	DropC      DropTuningNote = "C"
	DropB      DropTuningNote = "B"
)

var dropFrequencies = map[DropTuningNote]float64{
	DropDSharp: 77.78,
	DropD:      73.42,
	DropCSharp: 69.30,
	DropC:      65.41,
	DropB:      61.74,
}

// Valid reports whether n is one of the known drop notes.
func (n DropTuningNote) Valid() bool {
	_, ok := dropFrequencies[n]
	return ok
}

// Frequency is the standard-tuning frequency of the dropped sixth string.
// Unknown notes fall back to Drop D.
func (n DropTuningNote) Frequency() float64 {
	if f, ok := dropFrequencies[n]; ok {
		return f
	}
	return dropFrequencies[DropD]
}

// Index is the numeric code the detection backend expects. The engine knows
// codes 0-3; D# takes the next free value, 4, which the engine stores as-is.
func (n DropTuningNote) Index() int {
	switch n {
	case DropCSharp:
		return 1
	case DropC:
		return 2
	case DropB:
		return 3
	case DropDSharp:
		return 4
	default:
		return 0
	}
}

// DropTuningNoteFromIndex is the inverse of DropTuningNote.Index.
func DropTuningNoteFromIndex(i int) DropTuningNote {
	switch i {
	case 1:
		return DropCSharp
	case 2:
		return DropC
	case 3:
		return DropB
	case 4:
		return DropDSharp
	default:
		return DropD
	}
}

// ChannelMode selects which input channel the backend analyzes.
type ChannelMode int

const (
	ChannelLeft ChannelMode = iota
	ChannelRight
	ChannelAverage
)

// Valid reports whether c is left, right or average.
func (c ChannelMode) Valid() bool {
	return c >= ChannelLeft && c <= ChannelAverage
}

// TrayIconMode selects what the tray icon renders.
type TrayIconMode int

const (
	TrayIndicator TrayIconMode = iota
	TrayIndicatorNote
)

// Valid reports whether t is a known tray mode.
func (t TrayIconMode) Valid() bool {
	return t == TrayIndicator || t == TrayIndicatorNote
}

// TuningConfig is the subset of state that determines reference pitch and string targets.
type TuningConfig struct {
	Mode              PitchMode
	CustomPitch       float64
	TuningShift       int
	DropTuningEnabled bool
	DropTuningNote    DropTuningNote
}
