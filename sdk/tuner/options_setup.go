package tuner

import (
	"time"

	"github.com/leandrodaf/tuner/internal/logger"
	"github.com/leandrodaf/tuner/sdk/contracts"
)

// Environment variables consulted for options left unset.
const (
	EnvSettingsPath  = "TUNER_SETTINGS_PATH"
	EnvBackendURL    = "TUNER_BACKEND_URL"
	EnvCallTimeoutMS = "TUNER_CALL_TIMEOUT_MS"
	EnvLogLevel      = "TUNER_LOG_LEVEL"
)

const (
	defaultCallTimeout = 3 * time.Second
	defaultEventBuffer = 64
)

// applyDefaultOptions sets default values for TunerOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify TunerOptions.
//
// Returns:
//   - contracts.TunerOptions: A structure containing the finalized options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.Option) (contracts.TunerOptions, error) {
	options := &contracts.TunerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if !options.LogLevelSet {
		options.LogLevel = contracts.ParseLogLevel(EnvOr(EnvLogLevel, "info"))
	}
	options.Logger.SetLevel(options.LogLevel)
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}

	if options.SettingsPath == "" {
		options.SettingsPath = EnvOr(EnvSettingsPath, "")
	}
	if options.BackendURL == "" {
		options.BackendURL = EnvOr(EnvBackendURL, "")
	}
	if options.CallTimeout <= 0 {
		options.CallTimeout = time.Duration(EnvIntOr(EnvCallTimeoutMS, int(defaultCallTimeout/time.Millisecond))) * time.Millisecond
	}
	if options.EventBuffer <= 0 {
		options.EventBuffer = defaultEventBuffer
	}
	return *options, nil
}
