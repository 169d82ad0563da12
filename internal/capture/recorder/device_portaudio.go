package recorder

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/dmaraujo/converso/internal/audio"
)

// PortAudioDevice captures microphone input through the PortAudio library.
// Chunks are raw little-endian 16-bit PCM; the session wraps them in a WAV
// container at assembly time.
type PortAudioDevice struct {
	// FramesPerBuffer controls the chunk granularity. Zero means 1024.
	FramesPerBuffer int
}

// Available probes whether PortAudio can be initialized on this host.
func (d *PortAudioDevice) Available() bool {
	if err := portaudio.Initialize(); err != nil {
		slog.Debug("portaudio unavailable", "error", err)
		return false
	}
	_ = portaudio.Terminate()
	return true
}

// Open acquires the default input device.
func (d *PortAudioDevice) Open(ctx context.Context, sampleRate, channels int) (Stream, error) {
	frames := d.FramesPerBuffer
	if frames <= 0 {
		frames = 1024
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}

	buf := make([]int16, frames*channels)
	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), frames, buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("opening input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("starting input stream: %w", err)
	}

	ps := &paStream{
		stream: stream,
		buf:    buf,
		chunks: make(chan Chunk, 16),
		done:   make(chan struct{}),
	}
	go ps.read(ctx)
	return ps, nil
}

type paStream struct {
	stream *portaudio.Stream
	buf    []int16
	chunks chan Chunk

	closeOnce sync.Once
	done      chan struct{}
}

func (s *paStream) Chunks() <-chan Chunk { return s.chunks }

func (s *paStream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// read pulls PCM frames off the device until the stream is closed.
func (s *paStream) read(ctx context.Context) {
	defer func() {
		_ = s.stream.Stop()
		_ = s.stream.Close()
		_ = portaudio.Terminate()
		close(s.chunks)
	}()

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := s.stream.Read(); err != nil {
			slog.Warn("portaudio read failed", "error", err)
			return
		}

		data := make([]byte, len(s.buf)*2)
		for i, sample := range s.buf {
			binary.LittleEndian.PutUint16(data[i*2:], uint16(sample))
		}

		select {
		case s.chunks <- Chunk{Data: data, MIME: audio.MIMEPCM16}:
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}
