package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"testing"

	"github.com/go-audio/wav"
)

func pcm16(samples ...int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

func TestWrapPCM16ProducesDecodableWav(t *testing.T) {
	payload, err := WrapPCM16(pcm16(0, 1000, -1000, 32767, -32768), 16000, 1)
	if err != nil {
		t.Fatalf("WrapPCM16 failed: %v", err)
	}

	dec := wav.NewDecoder(bytes.NewReader(payload))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decoding produced wav: %v", err)
	}
	if dec.SampleRate != 16000 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Errorf("wav format = %d Hz / %d ch / %d bit", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	want := []int{0, 1000, -1000, 32767, -32768}
	if len(buf.Data) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(want))
	}
	for i, s := range want {
		if buf.Data[i] != s {
			t.Errorf("sample %d = %d, want %d", i, buf.Data[i], s)
		}
	}
}

func TestWrapPCM16DropsTrailingHalfSample(t *testing.T) {
	odd := append(pcm16(42), 0x7f)
	if _, err := WrapPCM16(odd, 16000, 1); err != nil {
		t.Fatalf("WrapPCM16 failed on odd-length input: %v", err)
	}
}

func TestWriteTemp(t *testing.T) {
	path, err := WriteTemp([]byte("payload"), "audio/ogg")
	if err != nil {
		t.Fatalf("WriteTemp failed: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading transient file: %v", err)
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Error("transient file content mismatch")
	}
}

func TestAllowedMIME(t *testing.T) {
	if !AllowedMIME("audio/ogg") {
		t.Error("audio/ogg should be allowed")
	}
	if AllowedMIME("video/mp4") {
		t.Error("video/mp4 should not be allowed")
	}
}

func TestNewExecPlayerEmptyCommandIsNop(t *testing.T) {
	if _, ok := NewExecPlayer("  ").(NopPlayer); !ok {
		t.Error("empty command should yield NopPlayer")
	}
}

func TestExecPlayerRunsCommand(t *testing.T) {
	p := NewExecPlayer("true")
	if err := p.Play(context.Background(), "/dev/null"); err != nil {
		t.Errorf("Play via 'true' failed: %v", err)
	}

	p = NewExecPlayer("false")
	if err := p.Play(context.Background(), "/dev/null"); err == nil {
		t.Error("Play via 'false' should fail")
	}
}
