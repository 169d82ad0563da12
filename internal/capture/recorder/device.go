package recorder

import (
	"context"
	"errors"
)

// Sentinel errors for capability failures.
var (
	// ErrRecorderUnavailable means no recording capability exists at all.
	ErrRecorderUnavailable = errors.New("no recording capability")

	// ErrDeviceUnavailable means the recording capability exists but the
	// audio input device could not be acquired (missing or permission
	// refused).
	ErrDeviceUnavailable = errors.New("audio input device unavailable")
)

// Chunk is one buffered piece of captured audio, tagged with its MIME type.
type Chunk struct {
	Data []byte
	MIME string
}

// Stream is an open audio input delivering chunks in arrival order. Closing
// the stream flushes any buffered audio and then closes the chunk channel.
type Stream interface {
	Chunks() <-chan Chunk
	Close() error
}

// Device acquires the platform audio input.
type Device interface {
	// Available reports whether the device can plausibly be opened.
	Available() bool

	// Open acquires the input and starts delivering chunks. Failures map
	// to ErrDeviceUnavailable.
	Open(ctx context.Context, sampleRate, channels int) (Stream, error)
}
