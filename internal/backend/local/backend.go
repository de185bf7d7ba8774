// Package local is an in-process detection backend. It holds the live engine
// configuration with the same validation the native engine applies, and lets
// the capture/DSP layer publish frequency and level readings.
package local

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/tuner/internal/pitch"
	"github.com/leandrodaf/tuner/sdk/contracts"
)

// Errors returned by the local backend.
var (
	ErrDeviceNotFound = errors.New("audio input device not found")
	ErrPitchRange     = errors.New("pitch must be between 438 and 445 Hz")
	ErrClosed         = errors.New("backend closed")
)

// Threshold bounds applied by SetThreshold.
const (
	MinThreshold = 1.1
	MaxThreshold = 10.0
)

// EngineConfig is the live configuration of the engine.
type EngineConfig struct {
	Device            string
	StreamID          uint32
	Threshold         float64
	ChannelMode       contracts.ChannelMode
	TrayIconMode      contracts.TrayIconMode
	PitchMode         contracts.PitchMode
	CustomPitch       float64
	TuningShift       int
	DropTuningEnabled bool
	DropTuningNote    contracts.DropTuningNote
}

// DefaultEngineConfig is the configuration before any setter is called.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Threshold:      2.0,
		ChannelMode:    contracts.ChannelRight,
		TrayIconMode:   contracts.TrayIndicatorNote,
		PitchMode:      contracts.PitchStandard,
		CustomPitch:    pitch.StandardA4,
		DropTuningNote: contracts.DropD,
	}
}

// Backend implements contracts.DetectionBackend in process.
type Backend struct {
	logger  contracts.Logger
	devices []string

	mu     sync.Mutex
	cfg    EngineConfig
	events chan contracts.Event
	closed bool
}

// New creates a backend. devices is used where the OS offers no enumerator;
// buffer is the event channel capacity.
func New(logger contracts.Logger, devices []string, buffer int) *Backend {
	if buffer <= 0 {
		buffer = 64
	}
	return &Backend{
		logger:  logger,
		devices: devices,
		cfg:     DefaultEngineConfig(),
		events:  make(chan contracts.Event, buffer),
	}
}

// Config returns a copy of the live configuration.
func (b *Backend) Config() EngineConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// EffectiveA4 is the reference pitch the analysis runs against.
func (b *Backend) EffectiveA4() float64 {
	cfg := b.Config()
	return pitch.ResolveA4(cfg.PitchMode, cfg.CustomPitch, cfg.TuningShift)
}

func (b *Backend) ListDevices(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return enumerateDevices(b.logger, b.devices)
}

// StartListening switches analysis to the named device. Every start bumps the
// stream ID and emits a reset so consumers drop readings from the old stream.
func (b *Backend) StartListening(ctx context.Context, device string) error {
	devices, err := b.ListDevices(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, d := range devices {
		if d == device {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, device)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.cfg.Device = device
	b.cfg.StreamID++
	id := b.cfg.StreamID
	b.mu.Unlock()

	b.logger.Info("Starting stream", b.logger.Field().String("device", device), b.logger.Field().Uint64("streamID", uint64(id)))
	b.Publish(contracts.EventReset, nil)
	return nil
}

// SetThreshold clamps ratio to [MinThreshold, MaxThreshold].
func (b *Backend) SetThreshold(ctx context.Context, ratio float64) error {
	return b.update(ctx, func(cfg *EngineConfig) error {
		cfg.Threshold = min(max(ratio, MinThreshold), MaxThreshold)
		b.logger.Debug("Threshold set", b.logger.Field().Float64("threshold", cfg.Threshold))
		return nil
	})
}

// SetChannelMode caps mode at average.
func (b *Backend) SetChannelMode(ctx context.Context, mode contracts.ChannelMode) error {
	return b.update(ctx, func(cfg *EngineConfig) error {
		cfg.ChannelMode = min(max(mode, contracts.ChannelLeft), contracts.ChannelAverage)
		return nil
	})
}

// SetTrayIconMode caps mode at indicator+note.
func (b *Backend) SetTrayIconMode(ctx context.Context, mode contracts.TrayIconMode) error {
	return b.update(ctx, func(cfg *EngineConfig) error {
		cfg.TrayIconMode = min(max(mode, contracts.TrayIndicator), contracts.TrayIndicatorNote)
		return nil
	})
}

func (b *Backend) SetPitchMode(ctx context.Context, mode contracts.PitchMode) error {
	return b.update(ctx, func(cfg *EngineConfig) error {
		if !mode.Valid() {
			return fmt.Errorf("unknown pitch mode %q", mode)
		}
		cfg.PitchMode = mode
		return nil
	})
}

func (b *Backend) SetCustomPitch(ctx context.Context, hz float64) error {
	return b.update(ctx, func(cfg *EngineConfig) error {
		if !pitch.ValidCustomPitch(hz) {
			return ErrPitchRange
		}
		cfg.CustomPitch = hz
		return nil
	})
}

func (b *Backend) SetTuningShift(ctx context.Context, semitones int) error {
	return b.update(ctx, func(cfg *EngineConfig) error {
		cfg.TuningShift = semitones
		return nil
	})
}

func (b *Backend) SetDropTuning(ctx context.Context, enabled bool, note contracts.DropTuningNote) error {
	return b.update(ctx, func(cfg *EngineConfig) error {
		if !note.Valid() {
			return fmt.Errorf("unknown drop tuning note %q", note)
		}
		cfg.DropTuningEnabled = enabled
		cfg.DropTuningNote = note
		return nil
	})
}

func (b *Backend) update(ctx context.Context, fn func(*EngineConfig) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	next := b.cfg
	if err := fn(&next); err != nil {
		return err
	}
	b.cfg = next
	return nil
}

// Events returns the event channel.
func (b *Backend) Events() <-chan contracts.Event {
	return b.events
}

// Publish emits one event without blocking. Events are dropped when the
// buffer is full or the backend is closed.
func (b *Backend) Publish(kind contracts.EventKind, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.events <- contracts.Event{Kind: kind, Payload: payload}:
	default:
		b.logger.Warn("Event buffer full; dropping event", b.logger.Field().String("kind", string(kind)))
	}
}

// PublishReading emits smoothed frequency, raw frequency and input level for one analysis frame.
func (b *Backend) PublishReading(smoothed, raw, level float64) {
	b.Publish(contracts.EventFrequency, smoothed)
	b.Publish(contracts.EventRawFrequency, raw)
	b.Publish(contracts.EventInputLevel, level)
}

// Close closes the event channel. It is safe to call more than once.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.events)
	}
	return nil
}
