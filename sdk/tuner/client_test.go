package tuner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leandrodaf/tuner/internal/backend/local"
	"github.com/leandrodaf/tuner/internal/logger"
	"github.com/leandrodaf/tuner/internal/settings"
	"github.com/leandrodaf/tuner/sdk/contracts"
)

func TestApplyDefaultOptions(t *testing.T) {
	t.Setenv(EnvCallTimeoutMS, "1500")
	t.Setenv(EnvBackendURL, "")
	t.Setenv(EnvSettingsPath, "/tmp/tuner/settings.json")

	opts, err := applyDefaultOptions(contracts.WithLogger(logger.NewNopLogger()))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if opts.CallTimeout != 1500*time.Millisecond {
		t.Errorf("call timeout: got %v", opts.CallTimeout)
	}
	if opts.EventBuffer != defaultEventBuffer {
		t.Errorf("event buffer: got %d", opts.EventBuffer)
	}
	if opts.SettingsPath != "/tmp/tuner/settings.json" {
		t.Errorf("settings path: got %q", opts.SettingsPath)
	}

	opts, err = applyDefaultOptions(
		contracts.WithLogger(logger.NewNopLogger()),
		contracts.WithCallTimeout(time.Second),
		contracts.WithSettingsPath("/elsewhere.json"),
	)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if opts.CallTimeout != time.Second || opts.SettingsPath != "/elsewhere.json" {
		t.Errorf("explicit options overridden: %+v", opts)
	}
}

func TestExplicitLogLevelBeatsEnvironment(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")

	opts, err := applyDefaultOptions(
		contracts.WithLogger(logger.NewNopLogger()),
		contracts.WithLogLevel(contracts.InfoLevel),
	)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if opts.LogLevel != contracts.InfoLevel {
		t.Fatalf("explicit info level overridden: %v", opts.LogLevel)
	}

	opts, err = applyDefaultOptions(contracts.WithLogger(logger.NewNopLogger()))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if opts.LogLevel != contracts.ErrorLevel {
		t.Fatalf("environment level not applied: %v", opts.LogLevel)
	}
}

func TestNewBackendDefaultsToLocal(t *testing.T) {
	opts := contracts.TunerOptions{Logger: logger.NewNopLogger(), EventBuffer: 4}
	b, err := NewBackend(&opts)
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	defer b.Close()
	if _, ok := b.(*local.Backend); !ok {
		t.Fatalf("expected local backend, got %T", b)
	}
}

func TestNewStorePrefersExplicitStore(t *testing.T) {
	mem := settings.NewMemoryStore(contracts.Settings{})
	opts := contracts.TunerOptions{Logger: logger.NewNopLogger(), Store: mem}
	s, err := NewStore(&opts, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if s != contracts.SettingsStore(mem) {
		t.Fatalf("explicit store not used: %T", s)
	}

	opts = contracts.TunerOptions{Logger: logger.NewNopLogger(), SettingsPath: filepath.Join(t.TempDir(), "s.json")}
	s, err = NewStore(&opts, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if fs, ok := s.(*settings.FileStore); !ok || fs.Path() != opts.SettingsPath {
		t.Fatalf("expected file store at %s, got %T", opts.SettingsPath, s)
	}
}

func TestNewTunerPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	log := logger.NewNopLogger()
	backend := local.New(log, []string{"Mic"}, 8)

	tn, err := NewTuner(
		contracts.WithLogger(log),
		contracts.WithBackend(backend),
		contracts.WithSettingsPath(path),
	)
	if err != nil {
		t.Fatalf("new tuner: %v", err)
	}
	defer tn.Close()

	ctx := context.Background()
	if err := tn.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := tn.SetThreshold(ctx, 4.5); err != nil {
		t.Fatalf("set threshold: %v", err)
	}
	if got := backend.Config().Threshold; got != 4.5 {
		t.Fatalf("backend threshold: got %v", got)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	var saved map[string]any
	if err := json.Unmarshal(b, &saved); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if saved["threshold"] != 4.5 {
		t.Fatalf("unexpected settings file: %s", b)
	}
}
