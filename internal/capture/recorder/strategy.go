package recorder

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmaraujo/converso/internal/capture"
)

// Strategy adapts recording sessions to the capture.Strategy contract.
// Each Start creates a fresh session; a live session rejects overlap.
type Strategy struct {
	cfg    Config
	device Device
	locale string
	sink   chan<- capture.Event

	mu      sync.Mutex
	session *Session
	closed  bool
}

// NewStrategy builds a recording strategy bound to locale.
func NewStrategy(cfg Config, device Device, locale string, sink chan<- capture.Event) *Strategy {
	return &Strategy{cfg: cfg, device: device, locale: locale, sink: sink}
}

// Name identifies the strategy.
func (r *Strategy) Name() string { return capture.NameRecorder }

// Start begins a new recording session unless one is already live.
func (r *Strategy) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRecorderUnavailable
	}
	if r.session != nil && r.session.Busy() {
		r.mu.Unlock()
		return capture.ErrActive
	}
	sess := NewSession(r.cfg, r.device, r.sink)
	r.session = sess
	r.mu.Unlock()

	slog.Debug("starting recording session", "session", sess.ID(), "locale", r.locale)
	return sess.Start(ctx)
}

// Stop requests an early stop of the live session, if any.
func (r *Strategy) Stop() {
	r.mu.Lock()
	sess := r.session
	r.mu.Unlock()
	if sess != nil {
		sess.Stop()
	}
}

// Close detaches the strategy. A live session is not interrupted — it runs
// to its own completion — but no new session can start through this binding.
func (r *Strategy) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Factory probes the recording capability and binds strategies.
type Factory struct {
	Device Device
	Config Config
}

// Available reports whether a usable input device exists.
func (f Factory) Available() bool {
	return f.Device != nil && f.Device.Available()
}

// Bind constructs a recording strategy for locale.
func (f Factory) Bind(locale string, sink chan<- capture.Event) (capture.Strategy, error) {
	return NewStrategy(f.Config, f.Device, locale, sink), nil
}
