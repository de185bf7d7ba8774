package synchronizer

import (
	"context"
	"fmt"
	"math"

	"github.com/leandrodaf/tuner/internal/pitch"
	"github.com/leandrodaf/tuner/sdk/contracts"
)

// setter changes one field and returns how to undo that change.
type setter func(st *contracts.State) (undo func(st *contracts.State))

// mutate applies a change locally, pushes it to the backend and persists patch.
// A backend failure undoes the local change and skips persistence.
func (s *Synchronizer) mutate(ctx context.Context, field string, set setter, push func(context.Context) error, patch contracts.Settings) error {
	if err := s.requireLoaded(); err != nil {
		return err
	}
	s.mutating.Lock()
	defer s.mutating.Unlock()

	var undo func(st *contracts.State)
	s.update(func(st *contracts.State) {
		undo = set(st)
	})

	if err := s.call(ctx, push); err != nil {
		s.logger.Warn("Backend rejected change",
			s.logger.Field().String("field", field),
			s.logger.Field().Error("error", err),
		)
		s.update(func(st *contracts.State) {
			undo(st)
			st.Error = fmt.Sprintf("Failed to set %s: %v", field, err)
		})
		return fmt.Errorf("set %s: %w", field, err)
	}

	if err := s.persist(ctx, field, patch); err != nil {
		return err
	}
	s.update(func(st *contracts.State) {
		st.Error = ""
	})
	return nil
}

func (s *Synchronizer) persist(ctx context.Context, field string, patch contracts.Settings) error {
	if err := s.writer.Apply(ctx, patch); err != nil {
		s.logger.Error("Failed to persist settings",
			s.logger.Field().String("field", field),
			s.logger.Field().Error("error", err),
		)
		s.update(func(st *contracts.State) {
			st.Error = fmt.Sprintf("Failed to save %s: %v", field, err)
		})
		return fmt.Errorf("persist %s: %w", field, err)
	}
	s.logger.Debug("Settings persisted", s.logger.Field().String("field", field))
	return nil
}

func (s *Synchronizer) requireLoaded() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Phase == contracts.PhaseUninitialized {
		return ErrNotLoaded
	}
	return nil
}

func (s *Synchronizer) SetThreshold(ctx context.Context, ratio float64) error {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return fmt.Errorf("%w: threshold %v", ErrInvalidValue, ratio)
	}
	return s.mutate(ctx, "threshold",
		func(st *contracts.State) func(*contracts.State) {
			prev := st.Threshold
			st.Threshold = ratio
			return func(st *contracts.State) {
				if st.Threshold == ratio {
					st.Threshold = prev
				}
			}
		},
		func(ctx context.Context) error { return s.backend.SetThreshold(ctx, ratio) },
		contracts.Settings{Threshold: &ratio},
	)
}

func (s *Synchronizer) SetChannelMode(ctx context.Context, mode contracts.ChannelMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: channel mode %d", ErrInvalidValue, mode)
	}
	return s.mutate(ctx, "channel mode",
		func(st *contracts.State) func(*contracts.State) {
			prev := st.ChannelMode
			st.ChannelMode = mode
			return func(st *contracts.State) {
				if st.ChannelMode == mode {
					st.ChannelMode = prev
				}
			}
		},
		func(ctx context.Context) error { return s.backend.SetChannelMode(ctx, mode) },
		contracts.Settings{ChannelMode: &mode},
	)
}

func (s *Synchronizer) SetTrayIconMode(ctx context.Context, mode contracts.TrayIconMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: tray icon mode %d", ErrInvalidValue, mode)
	}
	return s.mutate(ctx, "tray icon mode",
		func(st *contracts.State) func(*contracts.State) {
			prev := st.TrayIconMode
			st.TrayIconMode = mode
			return func(st *contracts.State) {
				if st.TrayIconMode == mode {
					st.TrayIconMode = prev
				}
			}
		},
		func(ctx context.Context) error { return s.backend.SetTrayIconMode(ctx, mode) },
		contracts.Settings{TrayIconMode: &mode},
	)
}

func (s *Synchronizer) SetPitchMode(ctx context.Context, mode contracts.PitchMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: pitch mode %q", ErrInvalidValue, mode)
	}
	return s.mutate(ctx, "pitch mode",
		func(st *contracts.State) func(*contracts.State) {
			prev := st.PitchMode
			st.PitchMode = mode
			return func(st *contracts.State) {
				if st.PitchMode == mode {
					st.PitchMode = prev
				}
			}
		},
		func(ctx context.Context) error { return s.backend.SetPitchMode(ctx, mode) },
		contracts.Settings{PitchMode: &mode},
	)
}

// SetCustomPitch rejects values outside [438, 445] without applying,
// pushing or persisting them.
func (s *Synchronizer) SetCustomPitch(ctx context.Context, hz float64) error {
	if !pitch.ValidCustomPitch(hz) {
		s.logger.Debug("Rejecting custom pitch out of range", s.logger.Field().Float64("customPitch", hz))
		return fmt.Errorf("%w: %v", ErrCustomPitchOutOfRange, hz)
	}
	return s.mutate(ctx, "custom pitch",
		func(st *contracts.State) func(*contracts.State) {
			prev := st.CustomPitch
			st.CustomPitch = hz
			return func(st *contracts.State) {
				if st.CustomPitch == hz {
					st.CustomPitch = prev
				}
			}
		},
		func(ctx context.Context) error { return s.backend.SetCustomPitch(ctx, hz) },
		contracts.Settings{CustomPitch: &hz},
	)
}

func (s *Synchronizer) SetTuningShift(ctx context.Context, semitones int) error {
	return s.mutate(ctx, "tuning shift",
		func(st *contracts.State) func(*contracts.State) {
			prev := st.TuningShift
			st.TuningShift = semitones
			return func(st *contracts.State) {
				if st.TuningShift == semitones {
					st.TuningShift = prev
				}
			}
		},
		func(ctx context.Context) error { return s.backend.SetTuningShift(ctx, semitones) },
		contracts.Settings{TuningShift: &semitones},
	)
}

func (s *Synchronizer) SetDropTuning(ctx context.Context, enabled bool, note contracts.DropTuningNote) error {
	if !note.Valid() {
		return fmt.Errorf("%w: drop tuning note %q", ErrInvalidValue, note)
	}
	return s.mutate(ctx, "drop tuning",
		func(st *contracts.State) func(*contracts.State) {
			prevEnabled, prevNote := st.DropTuningEnabled, st.DropTuningNote
			st.DropTuningEnabled, st.DropTuningNote = enabled, note
			return func(st *contracts.State) {
				if st.DropTuningEnabled == enabled && st.DropTuningNote == note {
					st.DropTuningEnabled, st.DropTuningNote = prevEnabled, prevNote
				}
			}
		},
		func(ctx context.Context) error { return s.backend.SetDropTuning(ctx, enabled, note) },
		contracts.Settings{DropTuningEnabled: &enabled, DropTuningNote: &note},
	)
}
