// Package remote talks to an out-of-process detection engine over a WebSocket
// using a small JSON request/response protocol with server-pushed events.
// The same connection also serves the engine-side settings store.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/tuner/sdk/contracts"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// ErrClosed is returned for calls made after the connection ended.
var ErrClosed = errors.New("detection engine connection closed")

// RemoteError is a failure reported by the engine.
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Method, e.Message)
}

// Client implements contracts.DetectionBackend and contracts.SettingsStore.
type Client struct {
	conn   *websocket.Conn
	logger contracts.Logger

	ctx    context.Context
	cancel context.CancelFunc

	nextID  atomic.Uint64
	mu      sync.Mutex
	pending map[uint64]chan Message
	err     error

	events    chan contracts.Event
	done      chan struct{}
	closing   atomic.Bool
	closeOnce sync.Once
}

// Dial connects to the engine at url. buffer is the event channel capacity.
func Dial(ctx context.Context, url string, logger contracts.Logger, buffer int) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial detection engine: %w", err)
	}
	if buffer <= 0 {
		buffer = 64
	}

	cctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:    conn,
		logger:  logger,
		ctx:     cctx,
		cancel:  cancel,
		pending: make(map[uint64]chan Message),
		events:  make(chan contracts.Event, buffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()

	logger.Info("Connected to detection engine", logger.Field().String("url", url))
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.events)
	defer close(c.done)

	for {
		var msg Message
		if err := wsjson.Read(c.ctx, c.conn, &msg); err != nil {
			c.fail(err)
			return
		}

		switch {
		case msg.Event != "":
			c.dispatchEvent(msg)
		case msg.ID != 0:
			c.mu.Lock()
			ch, ok := c.pending[msg.ID]
			delete(c.pending, msg.ID)
			c.mu.Unlock()
			if ok {
				ch <- msg
			}
		default:
			c.logger.Debug("Ignoring message without id or event")
		}
	}
}

func (c *Client) dispatchEvent(msg Message) {
	var payload any
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.logger.Debug("Undecodable event payload", c.logger.Field().String("event", msg.Event), c.logger.Field().Error("error", err))
			payload = nil
		}
	}

	select {
	case c.events <- contracts.Event{Kind: contracts.EventKind(msg.Event), Payload: payload}:
	default:
		c.logger.Warn("Event buffer full; dropping event", c.logger.Field().String("event", msg.Event))
	}
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		if c.closing.Load() || c.ctx.Err() != nil {
			c.err = ErrClosed
		} else {
			c.err = fmt.Errorf("%w: %v", ErrClosed, err)
			c.logger.Warn("Detection engine connection lost", c.logger.Field().Error("error", err))
		}
	}
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	msg := Message{ID: c.nextID.Add(1), Method: method}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode %s params: %w", method, err)
		}
		msg.Params = b
	}

	ch := make(chan Message, 1)
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return err
	}
	c.pending[msg.ID] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.ID)
		c.mu.Unlock()
	}()

	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}

	var resp Message
	select {
	case r, ok := <-ch:
		if !ok {
			c.mu.Lock()
			err := c.err
			c.mu.Unlock()
			return err
		}
		resp = r
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", method, ctx.Err())
	}

	if resp.Error != "" {
		return &RemoteError{Method: method, Message: resp.Error}
	}
	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) ListDevices(ctx context.Context) ([]string, error) {
	var devices []string
	if err := c.call(ctx, MethodListDevices, nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (c *Client) StartListening(ctx context.Context, device string) error {
	return c.call(ctx, MethodStartListening, startListeningParams{DeviceName: device}, nil)
}

func (c *Client) SetThreshold(ctx context.Context, ratio float64) error {
	return c.call(ctx, MethodSetThreshold, thresholdParams{Ratio: ratio}, nil)
}

func (c *Client) SetChannelMode(ctx context.Context, mode contracts.ChannelMode) error {
	return c.call(ctx, MethodSetChannelMode, modeParams{Mode: int(mode)}, nil)
}

func (c *Client) SetPitchMode(ctx context.Context, mode contracts.PitchMode) error {
	return c.call(ctx, MethodSetPitchMode, modeParams{Mode: mode.Index()}, nil)
}

func (c *Client) SetCustomPitch(ctx context.Context, hz float64) error {
	return c.call(ctx, MethodSetCustomPitch, customPitchParams{Pitch: hz}, nil)
}

func (c *Client) SetTuningShift(ctx context.Context, semitones int) error {
	return c.call(ctx, MethodSetTuningShift, tuningShiftParams{Semitones: semitones}, nil)
}

func (c *Client) SetDropTuning(ctx context.Context, enabled bool, note contracts.DropTuningNote) error {
	return c.call(ctx, MethodSetDropTuning, dropTuningParams{Enabled: enabled, Note: note.Index()}, nil)
}

func (c *Client) SetTrayIconMode(ctx context.Context, mode contracts.TrayIconMode) error {
	return c.call(ctx, MethodSetTrayIconMode, modeParams{Mode: int(mode)}, nil)
}

// GetSettings reads the engine-side settings file.
func (c *Client) GetSettings(ctx context.Context) (contracts.Settings, error) {
	var s contracts.Settings
	if err := c.call(ctx, MethodGetSettings, nil, &s); err != nil {
		return contracts.Settings{}, err
	}
	return s, nil
}

// SetSettings replaces the engine-side settings file.
func (c *Client) SetSettings(ctx context.Context, s contracts.Settings) error {
	return c.call(ctx, MethodSetSettings, struct {
		Settings contracts.Settings `json:"settings"`
	}{s}, nil)
}

// Events returns the engine's event stream. It is closed when the connection ends.
func (c *Client) Events() <-chan contracts.Event {
	return c.events
}

// Close ends the connection and waits for the read loop to exit.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		if err := c.conn.Close(websocket.StatusNormalClosure, "client closing"); err != nil {
			c.logger.Debug("Close handshake did not complete", c.logger.Field().Error("error", err))
		}
		c.cancel()
		<-c.done
	})
	return nil
}
