package contracts

import "context"

// Phase is the synchronizer lifecycle state.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
)

// State is the UI-facing configuration and live values owned by a Tuner.
// Values returned by Tuner.State are copies.
type State struct {
	Phase          Phase
	Devices        []string
	SelectedDevice string
	ListenStatus   string
	Error          string

	Threshold    float64
	ChannelMode  ChannelMode
	TrayIconMode TrayIconMode

	PitchMode         PitchMode
	CustomPitch       float64
	TuningShift       int
	DropTuningEnabled bool
	DropTuningNote    DropTuningNote

	Frequency    *float64 // Smoothed frequency; nil when there is no signal.
	RawFrequency *float64
	InputLevel   float64
	Color        TuningColor
}

// TuningConfig extracts the reference-pitch inputs from s.
func (s State) TuningConfig() TuningConfig {
	return TuningConfig{
		Mode:              s.PitchMode,
		CustomPitch:       s.CustomPitch,
		TuningShift:       s.TuningShift,
		DropTuningEnabled: s.DropTuningEnabled,
		DropTuningNote:    s.DropTuningNote,
	}
}

// Display holds the values derived from State for rendering.
type Display struct {
	Note        NoteInfo
	Status      TuningStatus
	CentDisplay string
	Color       TuningColor
	EffectiveA4 float64
	DisplayA4   float64
	Strings     [6]GuitarNote
}

// Tuner keeps UI state, persisted settings and the detection backend in agreement.
type Tuner interface {
	// Load reads devices and settings, pushes the resolved configuration to the
	// backend and restores the selected device.
	Load(ctx context.Context) error
	Close() error

	State() State
	Display() Display
	// Changes receives a value whenever State changes. Notifications are coalesced.
	Changes() <-chan struct{}

	SelectDevice(ctx context.Context, name string) error
	SetThreshold(ctx context.Context, ratio float64) error
	SetChannelMode(ctx context.Context, mode ChannelMode) error
	SetTrayIconMode(ctx context.Context, mode TrayIconMode) error
	SetPitchMode(ctx context.Context, mode PitchMode) error
	SetCustomPitch(ctx context.Context, hz float64) error
	SetTuningShift(ctx context.Context, semitones int) error
	SetDropTuning(ctx context.Context, enabled bool, note DropTuningNote) error
}
