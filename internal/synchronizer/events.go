package synchronizer

import (
	"encoding/json"
	"math"

	"github.com/leandrodaf/tuner/internal/pitch"
	"github.com/leandrodaf/tuner/sdk/contracts"
)

// mailboxes hold at most one pending value per event kind. A newer value
// replaces an undelivered one.
type mailboxes struct {
	frequency    chan float64
	rawFrequency chan float64
	inputLevel   chan float64
	reset        chan struct{}
}

func newMailboxes() *mailboxes {
	return &mailboxes{
		frequency:    make(chan float64, 1),
		rawFrequency: make(chan float64, 1),
		inputLevel:   make(chan float64, 1),
		reset:        make(chan struct{}, 1),
	}
}

// offer stores v in box, discarding an undelivered older value.
// Only the filter goroutine sends, so the drain-then-send cannot race another sender.
func offer[T any](box chan T, v T) {
	select {
	case box <- v:
		return
	default:
	}
	select {
	case <-box:
	default:
	}
	select {
	case box <- v:
	default:
	}
}

// numeric extracts a finite number from an event payload.
func numeric(payload any) (float64, bool) {
	var v float64
	switch p := payload.(type) {
	case float64:
		v = p
	case float32:
		v = float64(p)
	case int:
		v = float64(p)
	case int32:
		v = float64(p)
	case int64:
		v = float64(p)
	case uint32:
		v = float64(p)
	case uint64:
		v = float64(p)
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// filterEvents drops malformed payloads and routes the rest into mailboxes.
func (s *Synchronizer) filterEvents(events <-chan contracts.Event, boxes *mailboxes) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				s.logger.Debug("Backend event stream ended")
				return
			}
			s.route(ev, boxes)
		}
	}
}

func (s *Synchronizer) route(ev contracts.Event, boxes *mailboxes) {
	if ev.Kind == contracts.EventReset {
		offer(boxes.reset, struct{}{})
		return
	}

	var box chan float64
	switch ev.Kind {
	case contracts.EventFrequency:
		box = boxes.frequency
	case contracts.EventRawFrequency:
		box = boxes.rawFrequency
	case contracts.EventInputLevel:
		box = boxes.inputLevel
	default:
		s.logger.Debug("Ignoring unknown event", s.logger.Field().String("event", string(ev.Kind)))
		return
	}

	v, ok := numeric(ev.Payload)
	if !ok {
		s.logger.Debug("Dropping non-numeric event payload", s.logger.Field().String("event", string(ev.Kind)))
		return
	}
	offer(box, v)
}

// dispatchEvents is the only goroutine that applies backend events to state.
func (s *Synchronizer) dispatchEvents(boxes *mailboxes) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case v := <-boxes.frequency:
			s.update(func(st *contracts.State) {
				st.Frequency = &v
				note := pitch.NoteFromFrequency(v, pitch.DisplayA4(st.PitchMode, st.CustomPitch))
				if note.Name != contracts.NoSignal {
					st.Color = s.stabilizer.Next(note.Cent)
				}
			})
		case v := <-boxes.rawFrequency:
			s.update(func(st *contracts.State) {
				st.RawFrequency = &v
			})
		case v := <-boxes.inputLevel:
			s.update(func(st *contracts.State) {
				st.InputLevel = v
			})
		case <-boxes.reset:
			s.update(func(st *contracts.State) {
				st.Frequency = nil
				st.RawFrequency = nil
				st.Color = contracts.ColorNone
				s.stabilizer.Reset()
			})
		}
	}
}
