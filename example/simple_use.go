package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/leandrodaf/tuner/internal/backend/local"
	"github.com/leandrodaf/tuner/internal/logger"
	"github.com/leandrodaf/tuner/sdk/contracts"
	"github.com/leandrodaf/tuner/sdk/tuner"
)

func main() {
	log := logger.NewZapLogger()

	backend := local.New(log, []string{"Built-in Microphone", "Line In"}, 16)

	t, err := tuner.NewTuner(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithBackend(backend),
		contracts.WithSettingsPath(filepath.Join(os.TempDir(), "tuner-example", "settings.json")),
	)
	if err != nil {
		log.Error("Failed to initialize tuner", log.Field().Error("error", err))
		return
	}
	defer t.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := t.Load(ctx); err != nil {
		log.Warn("Tuner loaded with errors", log.Field().Error("error", err))
	}

	if err := t.SetDropTuning(ctx, true, contracts.DropD); err != nil {
		log.Error("Failed to enable drop tuning", log.Field().Error("error", err))
	}

	// Stand-in for the detector: a slightly flat low D drifting into tune.
	go func() {
		freq := 72.9
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				backend.PublishReading(freq, freq+0.05, 0.4)
				if freq < 73.42 {
					freq += 0.05
				}
			}
		}
	}()

	log.Info("Tuning... press Ctrl+C to stop")
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping tuner")
			return
		case <-t.Changes():
			d := t.Display()
			if d.Note.Name == contracts.NoSignal {
				continue
			}
			log.Info("Reading",
				log.Field().String("note", d.Note.Name),
				log.Field().String("cents", d.CentDisplay),
				log.Field().String("status", string(d.Status)),
				log.Field().String("color", string(d.Color)),
				log.Field().String("target", d.Strings[0].Name),
			)
		}
	}
}
