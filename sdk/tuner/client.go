package tuner

import (
	"github.com/leandrodaf/tuner/internal/synchronizer"
	"github.com/leandrodaf/tuner/sdk/contracts"
)

// NewTuner creates a tuner with the specified options.
// It applies default options, builds the detection backend and settings store,
// and returns an unloaded tuner; call Load before using it.
//
// opts ...contracts.Option: A variadic list of option functions to customize the tuner configuration.
//
// Returns:
//   - contracts.Tuner: An instance of the tuner.
//   - error: An error, if any occurred while building the backend or store.
func NewTuner(opts ...contracts.Option) (contracts.Tuner, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	backend, err := NewBackend(&options)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(&options, backend)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	return synchronizer.New(synchronizer.Config{
		Backend:     backend,
		Store:       store,
		Logger:      options.Logger,
		CallTimeout: options.CallTimeout,
	}), nil
}
