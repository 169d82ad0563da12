// Package capture defines the uniform contract over the two speech capture
// strategies: native recognition (a local recognition service that returns
// transcribed text directly) and the media-recording fallback (raw audio
// capture uploaded for server-side transcription).
//
// Strategies never call back into the orchestrator. Every lifecycle moment
// (started, stopped, result, error) is a typed Event sent on one channel, so
// replacing a strategy on a language switch is a single unbind instead of
// scattered callback teardown.
package capture

import (
	"context"
	"errors"
	"log/slog"
)

// Strategy names carried in Event.Strategy.
const (
	NameRecognition = "recognition"
	NameRecorder    = "recorder"
)

// Sentinel errors shared by the strategies.
var (
	// ErrUnsupported means neither capture capability exists in this
	// environment. Non-fatal: the user can still type.
	ErrUnsupported = errors.New("no capture capability available")

	// ErrActive rejects a capture started while another one is live.
	// Callers treat it as an idempotent no-op.
	ErrActive = errors.New("capture already active")
)

// EventKind enumerates strategy lifecycle events.
type EventKind int

const (
	// EventStarted marks the beginning of a capture ("listening").
	EventStarted EventKind = iota + 1
	// EventStopped marks the end of a capture that produced no result.
	EventStopped
	// EventResult carries either recognized text or an assembled payload.
	EventResult
	// EventError carries a capture failure.
	EventError
)

// Event is one message from a strategy to the orchestrator's state machine.
type Event struct {
	Kind     EventKind
	Strategy string

	// Text is the transcript from the native recognition strategy.
	Text string

	// Payload, MIME and LocalRef describe the assembled audio from the
	// recording fallback. LocalRef is a transient file usable for playback
	// before the upload round trip completes.
	Payload  []byte
	MIME     string
	LocalRef string

	// Finish, when set, reports the pipeline outcome for a delivered
	// payload back to the originating session.
	Finish func(err error)

	Err error
}

// Strategy is the uniform capture contract. One Strategy instance is bound
// to one locale; language switches bind a fresh instance.
type Strategy interface {
	// Name identifies the strategy ("recognition" or "recorder").
	Name() string

	// Start begins one capture attempt. Progress is reported as Events on
	// the sink the strategy was bound with. Starting while a capture is
	// live returns ErrActive without touching the live capture.
	Start(ctx context.Context) error

	// Stop requests an early stop. Equivalent to the automatic ceiling
	// stop: it never errors and is safe to call when idle.
	Stop()

	// Close tears the binding down so no further events are emitted from
	// idle state. An in-flight recording session is not interrupted; it
	// finishes on its own timeline.
	Close() error
}

// Factory probes capability availability and constructs a bound Strategy.
type Factory interface {
	// Available reports whether this capability exists right now.
	Available() bool

	// Bind constructs a strategy for the given recognition locale,
	// delivering its events to sink.
	Bind(locale string, sink chan<- Event) (Strategy, error)
}

// Selector re-evaluates capability availability on every language change
// and keeps at most one strategy bound. Native recognition wins when both
// capabilities exist.
type Selector struct {
	recognition Factory
	recording   Factory
	bound       Strategy
}

// NewSelector builds a selector over the two capability factories. Either
// factory may be nil when the capability is absent from the environment.
func NewSelector(recognition, recording Factory) *Selector {
	return &Selector{recognition: recognition, recording: recording}
}

// Rebind tears down the current binding and installs the preferred available
// strategy for locale. With no capability available it leaves the selector
// unbound and returns ErrUnsupported.
func (s *Selector) Rebind(locale string, sink chan<- Event) error {
	if s.bound != nil {
		// Teardown is best-effort: a binding whose Close fails must not
		// pin the selector to a dead strategy.
		if err := s.bound.Close(); err != nil {
			slog.Warn("closing previous capture binding", "strategy", s.bound.Name(), "error", err)
		}
		s.bound = nil
	}

	for _, f := range []Factory{s.recognition, s.recording} {
		if f == nil || !f.Available() {
			continue
		}
		strategy, err := f.Bind(locale, sink)
		if err != nil {
			return err
		}
		s.bound = strategy
		return nil
	}
	return ErrUnsupported
}

// Strategy returns the currently bound strategy, or nil when unbound.
func (s *Selector) Strategy() Strategy {
	return s.bound
}

// Activate starts a capture on the bound strategy. It reports ErrUnsupported
// when no capability is bound rather than silently doing nothing.
func (s *Selector) Activate(ctx context.Context) error {
	if s.bound == nil {
		return ErrUnsupported
	}
	return s.bound.Start(ctx)
}

// Close releases the current binding.
func (s *Selector) Close() error {
	if s.bound == nil {
		return nil
	}
	err := s.bound.Close()
	s.bound = nil
	return err
}
