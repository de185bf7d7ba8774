package contracts

import "context"

// EventKind names a backend-initiated event stream.
type EventKind string

const (
	EventFrequency    EventKind = "frequency"
	EventRawFrequency EventKind = "raw_frequency"
	EventInputLevel   EventKind = "input_level"
	EventReset        EventKind = "reset"
)

// Event is one emission from the detection backend. Payload is untyped because
// the backend makes no promise about its shape; consumers must filter it.
type Event struct {
	Kind    EventKind
	Payload any
}

// DetectionBackend is the native pitch-detection engine.
type DetectionBackend interface {
	ListDevices(ctx context.Context) ([]string, error)
	// StartListening opens the named device and restarts analysis on it.
	StartListening(ctx context.Context, device string) error
	SetThreshold(ctx context.Context, ratio float64) error
	SetChannelMode(ctx context.Context, mode ChannelMode) error
	SetPitchMode(ctx context.Context, mode PitchMode) error
	SetCustomPitch(ctx context.Context, hz float64) error
	SetTuningShift(ctx context.Context, semitones int) error
	SetDropTuning(ctx context.Context, enabled bool, note DropTuningNote) error
	SetTrayIconMode(ctx context.Context, mode TrayIconMode) error
	// Events delivers frequency, level and reset events. It is closed by Close.
	Events() <-chan Event
	Close() error
}

// SettingsStore persists the Settings aggregate.
type SettingsStore interface {
	GetSettings(ctx context.Context) (Settings, error)
	SetSettings(ctx context.Context, s Settings) error
}
