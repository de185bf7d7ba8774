package tuner

import (
	"context"
	"fmt"

	"github.com/leandrodaf/tuner/internal/backend/local"
	"github.com/leandrodaf/tuner/internal/backend/remote"
	"github.com/leandrodaf/tuner/internal/settings"
	"github.com/leandrodaf/tuner/sdk/contracts"
)

// AppName names the per-user settings directory.
const AppName = "guitar-tuner"

// NewBackend returns the configured backend: the one given with WithBackend,
// a remote engine when a URL is set, or the in-process engine.
func NewBackend(opts *contracts.TunerOptions) (contracts.DetectionBackend, error) {
	if opts.Backend != nil {
		return opts.Backend, nil
	}
	if opts.BackendURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), opts.CallTimeout)
		defer cancel()
		client, err := remote.Dial(ctx, opts.BackendURL, opts.Logger, opts.EventBuffer)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	opts.Logger.Info("Using in-process detection backend")
	return local.New(opts.Logger, opts.Devices, opts.EventBuffer), nil
}

// NewStore returns the configured store: the one given with WithStore, the
// engine-side store when the backend is remote and no path is set, or a file store.
func NewStore(opts *contracts.TunerOptions, backend contracts.DetectionBackend) (contracts.SettingsStore, error) {
	if opts.Store != nil {
		return opts.Store, nil
	}
	if rs, ok := backend.(*remote.Client); ok && opts.SettingsPath == "" {
		return rs, nil
	}

	path := opts.SettingsPath
	if path == "" {
		p, err := settings.DefaultPath(AppName)
		if err != nil {
			return nil, fmt.Errorf("locate settings file: %w", err)
		}
		path = p
	}
	opts.Logger.Info("Using settings file", opts.Logger.Field().String("path", path))
	return settings.NewFileStore(path), nil
}
