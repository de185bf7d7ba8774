package synchronizer

import (
	"context"
	"fmt"
	"math"

	"github.com/leandrodaf/tuner/internal/pitch"
	"github.com/leandrodaf/tuner/sdk/contracts"
	"go.uber.org/multierr"
)

// Load moves the tuner from uninitialized to ready. It lists devices, reads
// persisted settings, pushes every resolved value to the backend and restores
// the device selection. Failures along the way are recorded in State and
// returned together, but the tuner always ends up ready.
func (s *Synchronizer) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Phase != contracts.PhaseUninitialized {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.state.Phase = contracts.PhaseLoading
	s.mu.Unlock()
	s.notify()

	s.mutating.Lock()
	defer s.mutating.Unlock()

	s.start()

	var errs error

	var devices []string
	if err := s.call(ctx, func(ctx context.Context) error {
		var err error
		devices, err = s.backend.ListDevices(ctx)
		return err
	}); err != nil {
		s.logger.Error("Failed to list devices", s.logger.Field().Error("error", err))
		errs = multierr.Append(errs, fmt.Errorf("list devices: %w", err))
		devices = nil
	}

	saved := s.readSettings(ctx)

	s.update(func(st *contracts.State) {
		st.Devices = devices
		applySettings(st, saved, s.logger)
		if errs != nil {
			st.Error = errs.Error()
		}
	})

	if err := s.pushAll(ctx, s.State()); err != nil {
		s.logger.Warn("Backend rejected initial configuration", s.logger.Field().Error("error", err))
		errs = multierr.Append(errs, err)
		s.update(func(st *contracts.State) {
			st.Error = joinErrors(st.Error, "Failed to apply settings: "+err.Error())
		})
	}

	if device := restoreDevice(devices, saved.DeviceName); device != "" {
		s.update(func(st *contracts.State) {
			st.SelectedDevice = device
		})
		if err := s.startDevice(ctx, device); err != nil {
			errs = multierr.Append(errs, err)
		}
	} else {
		s.logger.Warn("No input device available")
	}

	s.update(func(st *contracts.State) {
		st.Phase = contracts.PhaseReady
	})
	s.logger.Info("Tuner ready",
		s.logger.Field().Int("devices", len(devices)),
		s.logger.Field().String("pitchMode", string(s.State().PitchMode)),
	)
	return errs
}

// joinErrors appends msg to an existing user-facing error.
func joinErrors(prev, msg string) string {
	if prev == "" {
		return msg
	}
	return prev + "; " + msg
}

// readSettings fetches persisted settings; any failure means "no settings".
func (s *Synchronizer) readSettings(ctx context.Context) contracts.Settings {
	var saved contracts.Settings
	if err := s.call(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.store.GetSettings(ctx)
		return err
	}); err != nil {
		s.logger.Warn("Failed to read settings; using defaults", s.logger.Field().Error("error", err))
		return contracts.Settings{}
	}
	return saved
}

// applySettings overlays valid persisted values on st. Invalid values keep the default.
func applySettings(st *contracts.State, saved contracts.Settings, logger contracts.Logger) {
	if v := saved.Threshold; v != nil && *v > 0 && !math.IsInf(*v, 0) {
		st.Threshold = *v
	}
	if v := saved.ChannelMode; v != nil && v.Valid() {
		st.ChannelMode = *v
	}
	if v := saved.TrayIconMode; v != nil && v.Valid() {
		st.TrayIconMode = *v
	}
	if v := saved.PitchMode; v != nil && v.Valid() {
		st.PitchMode = *v
	}
	if v := saved.CustomPitch; v != nil {
		if pitch.ValidCustomPitch(*v) {
			st.CustomPitch = *v
		} else {
			logger.Warn("Ignoring persisted custom pitch out of range", logger.Field().Float64("customPitch", *v))
		}
	}
	if v := saved.TuningShift; v != nil {
		st.TuningShift = *v
	}
	if v := saved.DropTuningEnabled; v != nil {
		st.DropTuningEnabled = *v
	}
	if v := saved.DropTuningNote; v != nil && v.Valid() {
		st.DropTuningNote = *v
	}
}

// pushAll sends every behavior-affecting value to the backend so its live
// configuration matches st even if it still holds stale values.
func (s *Synchronizer) pushAll(ctx context.Context, st contracts.State) error {
	pushes := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"threshold", func(ctx context.Context) error { return s.backend.SetThreshold(ctx, st.Threshold) }},
		{"channel mode", func(ctx context.Context) error { return s.backend.SetChannelMode(ctx, st.ChannelMode) }},
		{"tray icon mode", func(ctx context.Context) error { return s.backend.SetTrayIconMode(ctx, st.TrayIconMode) }},
		{"pitch mode", func(ctx context.Context) error { return s.backend.SetPitchMode(ctx, st.PitchMode) }},
		{"custom pitch", func(ctx context.Context) error { return s.backend.SetCustomPitch(ctx, st.CustomPitch) }},
		{"tuning shift", func(ctx context.Context) error { return s.backend.SetTuningShift(ctx, st.TuningShift) }},
		{"drop tuning", func(ctx context.Context) error {
			return s.backend.SetDropTuning(ctx, st.DropTuningEnabled, st.DropTuningNote)
		}},
	}

	var errs error
	for _, p := range pushes {
		if err := s.call(ctx, p.fn); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("set %s: %w", p.name, err))
		}
	}
	return errs
}

// restoreDevice picks the persisted device if it is still present, otherwise
// the first device, otherwise none.
func restoreDevice(devices []string, saved *string) string {
	if saved != nil && *saved != "" {
		for _, d := range devices {
			if d == *saved {
				return d
			}
		}
	}
	if len(devices) > 0 {
		return devices[0]
	}
	return ""
}
