// Package audio assembles captured PCM into a WAV container, materializes
// payloads as transient local files for immediate playback, and drives the
// local audio playback sink.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// MIME types used across the capture pipeline.
const (
	MIMEWav   = "audio/wav"
	MIMEPCM16 = "audio/l16" // raw little-endian 16-bit PCM, pre-container
)

// allowedMIME is the upload format set the collaborator accepts. Payloads
// tagged outside this set are re-tagged as WAV.
var allowedMIME = map[string]bool{
	"audio/wav":  true,
	"audio/mpeg": true,
	"audio/mp3":  true,
	"audio/m4a":  true,
	"audio/webm": true,
	"audio/ogg":  true,
	"audio/flac": true,
}

// AllowedMIME reports whether mime is in the collaborator's accepted set.
func AllowedMIME(mime string) bool {
	return allowedMIME[mime]
}

// WrapPCM16 wraps raw little-endian 16-bit PCM bytes in a WAV container.
func WrapPCM16(pcm []byte, sampleRate, channels int) ([]byte, error) {
	if len(pcm)%2 != 0 {
		pcm = pcm[:len(pcm)-1] // drop a trailing half-sample
	}

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}

	buf := &seekableBuffer{}
	enc := wav.NewEncoder(buf, sampleRate, 16, channels, 1)
	if err := enc.Write(&gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           samples,
	}); err != nil {
		return nil, fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalizing wav: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTemp writes payload to a transient file so it can be played back
// locally before (or while) the network round trip completes. The caller
// removes the file when the reference is no longer needed.
func WriteTemp(payload []byte, mime string) (string, error) {
	f, err := os.CreateTemp("", "converso-*"+extForMIME(mime))
	if err != nil {
		return "", fmt.Errorf("creating transient audio file: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing transient audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing transient audio file: %w", err)
	}
	return f.Name(), nil
}

func extForMIME(mime string) string {
	switch mime {
	case "audio/ogg":
		return ".ogg"
	case "audio/webm":
		return ".webm"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/flac":
		return ".flac"
	default:
		return ".wav"
	}
}

// seekableBuffer adapts a byte buffer to the io.WriteSeeker the wav encoder
// needs for header rewrites.
type seekableBuffer struct {
	data []byte
	pos  int
}

func (b *seekableBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if b.pos < len(b.data) {
		c := copy(b.data[b.pos:], p)
		b.pos += c
		p = p[c:]
	}
	if len(p) > 0 {
		b.data = append(b.data, p...)
		b.pos = len(b.data)
	}
	return n, nil
}

func (b *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int
	switch whence {
	case io.SeekStart:
		abs = int(offset)
	case io.SeekCurrent:
		abs = b.pos + int(offset)
	case io.SeekEnd:
		abs = len(b.data) + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("negative seek position")
	}
	b.pos = abs
	return int64(abs), nil
}

func (b *seekableBuffer) Bytes() []byte { return b.data }
