// Package recognizer implements the native speech-recognition capture
// strategy: a client for a local recognition service reached over a
// websocket. The service owns the microphone and the recognition engine;
// this strategy only drives the session and relays its events.
//
// Sessions are single-shot and non-interim: one start frame, one final
// result, one end frame. The transcript handed to the orchestrator is the
// top alternative of the first result.
package recognizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dmaraujo/converso/internal/capture"
)

// ErrRecognizerUnavailable means the recognition service is not configured
// or the binding was torn down.
var ErrRecognizerUnavailable = errors.New("recognition service unavailable")

// startFrame opens a recognition session on the service.
type startFrame struct {
	Action     string `json:"action"` // "start"
	Locale     string `json:"locale"`
	Continuous bool   `json:"continuous"`
	Interim    bool   `json:"interim"`
}

// actionFrame carries a bare action such as "stop".
type actionFrame struct {
	Action string `json:"action"`
}

// serverFrame is one event from the recognition service.
type serverFrame struct {
	Event   string `json:"event"` // start, result, end, error
	Message string `json:"message,omitempty"`
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results,omitempty"`
}

// Strategy is a native-recognition binding for one locale.
type Strategy struct {
	endpoint string
	locale   string
	sink     chan<- capture.Event

	mu        sync.Mutex
	conn      *websocket.Conn
	listening bool
	closed    bool
}

// NewStrategy builds a recognition strategy bound to locale.
func NewStrategy(endpoint, locale string, sink chan<- capture.Event) *Strategy {
	return &Strategy{endpoint: endpoint, locale: locale, sink: sink}
}

// Name identifies the strategy.
func (r *Strategy) Name() string { return capture.NameRecognition }

// Start opens a single-shot recognition session. A live session rejects
// overlap with ErrActive.
func (r *Strategy) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRecognizerUnavailable
	}
	if r.listening {
		r.mu.Unlock()
		return capture.ErrActive
	}
	r.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: dialing %s: %v", ErrRecognizerUnavailable, r.endpoint, err)
	}

	start := startFrame{Action: "start", Locale: r.locale, Continuous: false, Interim: false}
	if err := conn.WriteJSON(start); err != nil {
		conn.Close()
		return fmt.Errorf("%w: starting session: %v", ErrRecognizerUnavailable, err)
	}

	r.mu.Lock()
	r.conn = conn
	r.listening = true
	r.mu.Unlock()

	slog.Debug("recognition session opened", "endpoint", r.endpoint, "locale", r.locale)
	go r.readLoop(ctx, conn)
	return nil
}

// Stop asks the service to finalize the session early. Safe when idle.
func (r *Strategy) Stop() {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return
	}
	if err := conn.WriteJSON(actionFrame{Action: "stop"}); err != nil {
		slog.Debug("recognition stop write failed, closing", "error", err)
		conn.Close()
	}
}

// Close detaches the binding: no new session can start through it. A live
// session keeps its connection and runs to completion, delivering its
// remaining events, so a rebind never corrupts an in-flight capture.
func (r *Strategy) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// readLoop relays service events to the sink until the session ends. The
// session's events are delivered even after Close detaches the binding: the
// orchestrator needs the terminal event to return to idle.
func (r *Strategy) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer func() {
		conn.Close()
		r.mu.Lock()
		r.listening = false
		if r.conn == conn {
			r.conn = nil
		}
		r.mu.Unlock()

		r.emit(ctx, capture.Event{Kind: capture.EventStopped, Strategy: r.Name()})
	}()

	for {
		var frame serverFrame
		if err := conn.ReadJSON(&frame); err != nil {
			slog.Debug("recognition connection lost", "error", err)
			r.emit(ctx, capture.Event{
				Kind:     capture.EventError,
				Strategy: r.Name(),
				Err:      fmt.Errorf("recognition connection lost: %w", err),
			})
			return
		}

		switch frame.Event {
		case "start":
			r.emit(ctx, capture.Event{Kind: capture.EventStarted, Strategy: r.Name()})

		case "result":
			text := topAlternative(frame)
			if text == "" {
				continue
			}
			slog.Debug("recognition result", "length", len(text))
			r.emit(ctx, capture.Event{Kind: capture.EventResult, Strategy: r.Name(), Text: text})

		case "error":
			slog.Warn("recognition service error", "message", frame.Message)
			r.emit(ctx, capture.Event{
				Kind:     capture.EventError,
				Strategy: r.Name(),
				Err:      fmt.Errorf("recognition failed: %s", frame.Message),
			})

		case "end":
			return

		default:
			slog.Debug("ignoring unknown recognition frame", "event", frame.Event)
		}
	}
}

// topAlternative extracts the top transcript alternative of the first
// result, mirroring single-shot recognition semantics.
func topAlternative(frame serverFrame) string {
	if len(frame.Results) == 0 || len(frame.Results[0].Alternatives) == 0 {
		return ""
	}
	return frame.Results[0].Alternatives[0].Transcript
}

// emit delivers one event unless the run context is already gone, so a
// finishing session never blocks on a sink nobody drains.
func (r *Strategy) emit(ctx context.Context, ev capture.Event) {
	select {
	case r.sink <- ev:
	case <-ctx.Done():
		slog.Debug("dropping recognition event, shutdown in progress", "kind", ev.Kind)
	}
}

// Factory probes the recognition capability and binds strategies.
type Factory struct {
	Endpoint string
}

// Available reports whether a recognition service is configured.
func (f Factory) Available() bool {
	return f.Endpoint != ""
}

// Bind constructs a recognition strategy for locale.
func (f Factory) Bind(locale string, sink chan<- capture.Event) (capture.Strategy, error) {
	return NewStrategy(f.Endpoint, locale, sink), nil
}
