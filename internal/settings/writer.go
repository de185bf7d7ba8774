package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/tuner/sdk/contracts"
)

// ErrWriterClosed is returned by Apply once the writer has stopped.
var ErrWriterClosed = errors.New("settings writer closed")

type patchRequest struct {
	ctx   context.Context
	patch contracts.Settings
	done  chan error
}

// Writer owns every read-merge-write against a store. Requests are processed
// one at a time in arrival order, so two patches never read the same base.
type Writer struct {
	store   contracts.SettingsStore
	logger  contracts.Logger
	timeout time.Duration

	requests chan patchRequest
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWriter creates a writer for store. timeout bounds each store call; zero disables it.
func NewWriter(store contracts.SettingsStore, logger contracts.Logger, timeout time.Duration) *Writer {
	return &Writer{
		store:    store,
		logger:   logger,
		timeout:  timeout,
		requests: make(chan patchRequest),
		quit:     make(chan struct{}),
	}
}

// Start launches the writer goroutine.
func (w *Writer) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop ends the writer goroutine and waits for an in-flight write to finish.
func (w *Writer) Stop() {
	w.stopOnce.Do(func() {
		close(w.quit)
	})
	w.wg.Wait()
}

// Apply queues patch and waits until it has been merged and written.
func (w *Writer) Apply(ctx context.Context, patch contracts.Settings) error {
	req := patchRequest{ctx: ctx, patch: patch, done: make(chan error, 1)}
	select {
	case w.requests <- req:
	case <-w.quit:
		return ErrWriterClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.quit:
			return
		case req := <-w.requests:
			req.done <- w.mergeAndWrite(req.ctx, req.patch)
		}
	}
}

func (w *Writer) mergeAndWrite(ctx context.Context, patch contracts.Settings) error {
	readCtx, cancel := w.bound(ctx)
	current, err := w.store.GetSettings(readCtx)
	cancel()
	if err != nil {
		w.logger.Warn("Failed to read settings before merge; starting from empty", w.logger.Field().Error("error", err))
		current = contracts.Settings{}
	}

	writeCtx, cancel := w.bound(ctx)
	defer cancel()
	if err := w.store.SetSettings(writeCtx, current.Merge(patch)); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}

func (w *Writer) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.timeout)
}
