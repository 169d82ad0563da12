// Package recorder implements the media-recording capture fallback: raw
// audio capture from an input device, buffered as chunks, assembled into a
// single payload, and handed to the upload pipeline for server-side
// transcription.
package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmaraujo/converso/internal/audio"
	"github.com/dmaraujo/converso/internal/capture"
)

// Config holds the recording parameters.
type Config struct {
	// MaxDuration is the capture ceiling. A session that is not stopped
	// manually stops automatically after this long.
	MaxDuration time.Duration
	SampleRate  int
	Channels    int
}

// State is a capture session's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateStopping
	StateUploading
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateStopping:
		return "stopping"
	case StateUploading:
		return "uploading"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Session is one recording attempt, from device acquisition to payload
// handoff. At most one session is live per strategy; overlapping starts are
// rejected without touching the live session.
type Session struct {
	id     string
	cfg    Config
	device Device
	sink   chan<- capture.Event

	mu      sync.Mutex
	state   State
	chunks  []Chunk
	started time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	stream   Stream
}

// NewSession creates an idle session.
func NewSession(cfg Config, device Device, sink chan<- capture.Event) *Session {
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = 5 * time.Second
	}
	return &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		device: device,
		sink:   sink,
		stopCh: make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether the session is between start and payload handoff.
func (s *Session) Busy() bool {
	switch s.State() {
	case StateCapturing, StateStopping, StateUploading:
		return true
	}
	return false
}

// Start acquires the input device and begins buffering chunks. The session
// stops automatically after the configured ceiling.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return capture.ErrActive
	}
	if s.device == nil || !s.device.Available() {
		s.mu.Unlock()
		return ErrRecorderUnavailable
	}
	s.mu.Unlock()

	stream, err := s.device.Open(ctx, s.cfg.SampleRate, s.cfg.Channels)
	if err != nil {
		s.setState(StateError)
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	s.mu.Lock()
	s.stream = stream
	s.state = StateCapturing
	s.started = time.Now()
	s.mu.Unlock()

	slog.Debug("capture started", "session", s.id, "ceiling", s.cfg.MaxDuration)
	s.emit(ctx, capture.Event{Kind: capture.EventStarted, Strategy: capture.NameRecorder})

	go s.run(ctx, stream)
	return nil
}

// Stop requests an early stop. It is equivalent to the automatic ceiling
// stop, never errors, and is safe to call repeatedly or when idle.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// run owns the buffering loop for one capture.
func (s *Session) run(ctx context.Context, stream Stream) {
	ceiling := time.NewTimer(s.cfg.MaxDuration)
	defer ceiling.Stop()

	chunks := stream.Chunks()
	for {
		select {
		case c, ok := <-chunks:
			if !ok {
				// Device ended the stream on its own.
				s.finishCapture(ctx, chunks, true)
				return
			}
			s.append(c)

		case <-ceiling.C:
			slog.Debug("capture ceiling reached", "session", s.id)
			s.Stop()

		case <-s.stopCh:
			s.finishCapture(ctx, chunks, false)
			return

		case <-ctx.Done():
			// Shutdown: discard the session, no partial state.
			_ = stream.Close()
			s.setState(StateIdle)
			s.emit(ctx, capture.Event{Kind: capture.EventStopped, Strategy: capture.NameRecorder})
			return
		}
	}
}

// finishCapture flushes remaining chunks, assembles the payload, and hands
// it off. streamClosed tells whether the chunk channel is already closed.
func (s *Session) finishCapture(ctx context.Context, chunks <-chan Chunk, streamClosed bool) {
	s.setState(StateStopping)

	if !streamClosed {
		_ = s.stream.Close()
		for c := range chunks {
			s.append(c)
		}
	}

	payload, mime := s.assemble()
	if len(payload) == 0 {
		slog.Debug("capture produced no audio", "session", s.id)
		s.setState(StateIdle)
		s.emit(ctx, capture.Event{Kind: capture.EventStopped, Strategy: capture.NameRecorder})
		return
	}

	localRef, err := audio.WriteTemp(payload, mime)
	if err != nil {
		// Playback reference is best-effort; the upload still proceeds.
		slog.Warn("could not materialize local playback reference", "error", err)
		localRef = ""
	}

	s.setState(StateUploading)
	slog.Debug("capture assembled",
		"session", s.id, "bytes", len(payload), "mime", mime,
		"duration", time.Since(s.started))

	s.emit(ctx, capture.Event{
		Kind:     capture.EventResult,
		Strategy: capture.NameRecorder,
		Payload:  payload,
		MIME:     mime,
		LocalRef: localRef,
		Finish:   s.Complete,
	})
}

// assemble concatenates buffered chunks in arrival order into one payload
// tagged with the first chunk's MIME type. Raw PCM is wrapped in a WAV
// container; types outside the collaborator's accepted set are re-tagged as
// WAV.
func (s *Session) assemble() ([]byte, string) {
	s.mu.Lock()
	chunks := s.chunks
	s.chunks = nil
	s.mu.Unlock()

	if len(chunks) == 0 {
		return nil, audio.MIMEWav
	}

	mime := chunks[0].MIME
	if mime == "" {
		mime = audio.MIMEWav
	}

	var payload []byte
	for _, c := range chunks {
		payload = append(payload, c.Data...)
	}

	if mime == audio.MIMEPCM16 {
		wrapped, err := audio.WrapPCM16(payload, s.cfg.SampleRate, s.cfg.Channels)
		if err != nil {
			slog.Warn("wav wrap failed, uploading raw pcm", "error", err)
			return payload, audio.MIMEWav
		}
		return wrapped, audio.MIMEWav
	}

	if !audio.AllowedMIME(mime) {
		mime = audio.MIMEWav
	}
	return payload, mime
}

// Complete records the pipeline outcome for this session's payload. The
// session is terminal afterwards; a retry needs a fresh session.
func (s *Session) Complete(err error) {
	if err != nil {
		s.setState(StateError)
		slog.Debug("capture session failed", "session", s.id, "error", err)
		return
	}
	s.setState(StateDone)
	slog.Debug("capture session complete", "session", s.id)
}

func (s *Session) append(c Chunk) {
	s.mu.Lock()
	s.chunks = append(s.chunks, c)
	s.mu.Unlock()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// emit delivers one event unless ctx is already cancelled, so a finishing
// session never blocks on a sink nobody drains.
func (s *Session) emit(ctx context.Context, ev capture.Event) {
	select {
	case s.sink <- ev:
	case <-ctx.Done():
		slog.Debug("dropping capture event, shutdown in progress", "session", s.id, "kind", ev.Kind)
	}
}
