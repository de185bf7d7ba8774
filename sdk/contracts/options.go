package contracts

import "time"

// TunerOptions defines the configuration options for a Tuner.
type TunerOptions struct {
	Logger       Logger           // Logger for logging events and errors.
	LogLevel     LogLevel         // Level of logging to use.
	LogLevelSet  bool             // Whether LogLevel was chosen with WithLogLevel.
	LogFilePath  string           // File path for logging if file logging is enabled.
	Backend      DetectionBackend // Detection engine; built from BackendURL or locally when nil.
	BackendURL   string           // ws:// or wss:// URL of a remote detection engine.
	Store        SettingsStore    // Settings persistence; a file store at SettingsPath when nil.
	SettingsPath string           // Location of the settings file.
	CallTimeout  time.Duration    // Upper bound on every backend and store call.
	EventBuffer  int              // Capacity of the local backend's event channel.
	Devices      []string         // Device names offered by the local backend where the OS has no enumerator.
}

// Option is a function that modifies TunerOptions.
type Option func(*TunerOptions)

// WithLogger sets the logger for the tuner.
func WithLogger(l Logger) Option {
	return func(opts *TunerOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the tuner.
func WithLogLevel(level LogLevel) Option {
	return func(opts *TunerOptions) {
		opts.LogLevel = level
		opts.LogLevelSet = true
	}
}

// WithLogFile sends log output to the given file.
func WithLogFile(path string) Option {
	return func(opts *TunerOptions) {
		opts.LogFilePath = path
	}
}

// WithBackend uses an already constructed detection backend.
func WithBackend(b DetectionBackend) Option {
	return func(opts *TunerOptions) {
		opts.Backend = b
	}
}

// WithBackendURL connects to a remote detection engine over WebSocket.
func WithBackendURL(url string) Option {
	return func(opts *TunerOptions) {
		opts.BackendURL = url
	}
}

// WithStore uses the given settings store.
func WithStore(s SettingsStore) Option {
	return func(opts *TunerOptions) {
		opts.Store = s
	}
}

// WithSettingsPath sets where the file store keeps settings.
func WithSettingsPath(path string) Option {
	return func(opts *TunerOptions) {
		opts.SettingsPath = path
	}
}

// WithCallTimeout bounds every backend and store call.
func WithCallTimeout(d time.Duration) Option {
	return func(opts *TunerOptions) {
		opts.CallTimeout = d
	}
}

// WithEventBuffer sets the local backend's event channel capacity.
func WithEventBuffer(n int) Option {
	return func(opts *TunerOptions) {
		opts.EventBuffer = n
	}
}

// WithDevices sets the device names offered by the local backend.
func WithDevices(names ...string) Option {
	return func(opts *TunerOptions) {
		opts.Devices = names
	}
}
