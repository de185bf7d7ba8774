package synchronizer

import (
	"context"
	"fmt"
	"slices"

	"github.com/leandrodaf/tuner/sdk/contracts"
)

// Listen status strings shown to the user.
const (
	statusStarting  = "Starting..."
	statusListening = "Listening: "
	statusFailed    = "Failed: "
)

// SelectDevice switches to another device from the device list and starts
// listening on it. Selecting the current device is a no-op. The previous
// device is not stopped here; the backend owns that.
func (s *Synchronizer) SelectDevice(ctx context.Context, name string) error {
	if err := s.requireLoaded(); err != nil {
		return err
	}
	s.mutating.Lock()
	defer s.mutating.Unlock()

	s.mu.Lock()
	if !slices.Contains(s.state.Devices, name) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}
	if s.state.SelectedDevice == name {
		s.mu.Unlock()
		return nil
	}
	s.state.SelectedDevice = name
	s.mu.Unlock()
	s.notify()

	return s.startDevice(ctx, name)
}

// startDevice asks the backend to listen on name and persists the choice on
// success. A failure is shown in ListenStatus and leaves the selection alone.
// Callers hold s.mutating.
func (s *Synchronizer) startDevice(ctx context.Context, name string) error {
	s.update(func(st *contracts.State) {
		st.ListenStatus = statusStarting
	})

	if err := s.call(ctx, func(ctx context.Context) error {
		return s.backend.StartListening(ctx, name)
	}); err != nil {
		s.logger.Warn("Failed to start listening",
			s.logger.Field().String("device", name),
			s.logger.Field().Error("error", err),
		)
		s.update(func(st *contracts.State) {
			st.ListenStatus = statusFailed + err.Error()
		})
		return fmt.Errorf("start listening on %q: %w", name, err)
	}

	s.update(func(st *contracts.State) {
		st.ListenStatus = statusListening + name
	})
	s.logger.Info("Listening", s.logger.Field().String("device", name))

	return s.persist(ctx, "device", contracts.Settings{DeviceName: &name})
}
