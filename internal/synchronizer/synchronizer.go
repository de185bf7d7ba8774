// Package synchronizer keeps the tuner's UI state, the persisted settings and
// the detection backend in agreement.
//
// All state lives in one contracts.State owned by a Synchronizer. Mutations
// update the local field, apply it to the backend and then persist it through
// a single settings writer. Backend events are filtered and delivered to the
// state by one dispatcher goroutine.
package synchronizer

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/leandrodaf/tuner/internal/pitch"
	"github.com/leandrodaf/tuner/internal/settings"
	"github.com/leandrodaf/tuner/sdk/contracts"
	"go.uber.org/multierr"
)

// Errors returned by the synchronizer.
var (
	ErrNotLoaded             = errors.New("tuner not loaded")
	ErrAlreadyLoaded         = errors.New("tuner already loaded")
	ErrUnknownDevice         = errors.New("device not in device list")
	ErrInvalidValue          = errors.New("invalid value")
	ErrCustomPitchOutOfRange = errors.New("custom pitch must be between 438 and 445 Hz")
)

// Defaults applied when settings carry no value.
const (
	DefaultThreshold    = 2.0
	DefaultChannelMode  = contracts.ChannelRight
	DefaultTrayIconMode = contracts.TrayIndicatorNote
	DefaultPitchMode    = contracts.PitchStandard
	DefaultCustomPitch  = pitch.StandardA4
	DefaultDropNote     = contracts.DropD
	DefaultCallTimeout  = 3 * time.Second
)

// Config wires a Synchronizer to its collaborators.
type Config struct {
	Backend     contracts.DetectionBackend
	Store       contracts.SettingsStore
	Logger      contracts.Logger
	CallTimeout time.Duration
}

// Synchronizer implements contracts.Tuner.
type Synchronizer struct {
	backend contracts.DetectionBackend
	store   contracts.SettingsStore
	logger  contracts.Logger
	timeout time.Duration
	writer  *settings.Writer

	// mutating is held for the whole set-push-persist sequence so the backend
	// and the store see mutations in the same order.
	mutating sync.Mutex

	mu         sync.RWMutex
	state      contracts.State
	stabilizer pitch.Stabilizer

	changes chan struct{}

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

var _ contracts.Tuner = (*Synchronizer)(nil)

// New creates an unloaded Synchronizer.
func New(cfg Config) *Synchronizer {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Synchronizer{
		backend: cfg.Backend,
		store:   cfg.Store,
		logger:  cfg.Logger,
		timeout: cfg.CallTimeout,
		writer:  settings.NewWriter(cfg.Store, cfg.Logger, cfg.CallTimeout),
		state:   defaultState(),
		changes: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func defaultState() contracts.State {
	return contracts.State{
		Phase:          contracts.PhaseUninitialized,
		Threshold:      DefaultThreshold,
		ChannelMode:    DefaultChannelMode,
		TrayIconMode:   DefaultTrayIconMode,
		PitchMode:      DefaultPitchMode,
		CustomPitch:    DefaultCustomPitch,
		DropTuningNote: DefaultDropNote,
	}
}

// State returns a copy of the current state.
func (s *Synchronizer) State() contracts.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

func copyState(st contracts.State) contracts.State {
	out := st
	if st.Devices != nil {
		out.Devices = append([]string(nil), st.Devices...)
	}
	if st.Frequency != nil {
		f := *st.Frequency
		out.Frequency = &f
	}
	if st.RawFrequency != nil {
		f := *st.RawFrequency
		out.RawFrequency = &f
	}
	return out
}

// Display derives the note, judgment and string targets from the current state.
func (s *Synchronizer) Display() contracts.Display {
	st := s.State()
	note := pitch.MapFrequency(st.Frequency, pitch.DisplayA4(st.PitchMode, st.CustomPitch))
	return contracts.Display{
		Note:        note,
		Status:      pitch.Judge(note.Cent),
		CentDisplay: pitch.FormatCent(note.Cent),
		Color:       st.Color,
		EffectiveA4: pitch.ResolveA4(st.PitchMode, st.CustomPitch, st.TuningShift),
		DisplayA4:   pitch.DisplayA4(st.PitchMode, st.CustomPitch),
		Strings:     pitch.GuitarStrings(st.TuningConfig()),
	}
}

// Changes returns the change notification channel.
func (s *Synchronizer) Changes() <-chan struct{} {
	return s.changes
}

func (s *Synchronizer) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// update runs fn under the state lock and notifies listeners.
func (s *Synchronizer) update(fn func(st *contracts.State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
}

func (s *Synchronizer) start() {
	s.startOnce.Do(func() {
		s.writer.Start()
		events := newMailboxes()
		s.wg.Add(2)
		go s.filterEvents(s.backend.Events(), events)
		go s.dispatchEvents(events)
	})
}

// call bounds one backend or store call by the configured timeout.
func (s *Synchronizer) call(ctx context.Context, fn func(context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(cctx)
}

// Close stops the writer and dispatcher, then closes the backend and, when it
// is a separate closer, the store.
func (s *Synchronizer) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		s.writer.Stop()
		s.wg.Wait()

		err = multierr.Append(err, s.backend.Close())
		if c, ok := s.store.(io.Closer); ok && any(s.store) != any(s.backend) {
			err = multierr.Append(err, c.Close())
		}
		s.logger.Info("Tuner closed")
	})
	return err
}
