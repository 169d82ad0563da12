package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Player is the local audio playback sink.
type Player interface {
	// Play renders the audio file at path. It blocks until playback ends
	// or ctx is cancelled.
	Play(ctx context.Context, path string) error
}

// ExecPlayer plays audio by running an external command with the file path
// appended, e.g. "ffplay -nodisp -autoexit" or "aplay".
type ExecPlayer struct {
	command string
	args    []string
}

// NewExecPlayer parses a playback command line. An empty command yields a
// no-op player.
func NewExecPlayer(command string) Player {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return NopPlayer{}
	}
	return &ExecPlayer{command: fields[0], args: fields[1:]}
}

// Play runs the configured command against path.
func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	args := append(append([]string{}, p.args...), path)
	cmd := exec.CommandContext(ctx, p.command, args...)
	slog.Debug("playing audio", "command", p.command, "path", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("playback command failed: %w: %.200s", err, out)
	}
	return nil
}

// NopPlayer discards playback requests. Used when no playback command is
// configured or the platform has no audio sink.
type NopPlayer struct{}

// Play logs and drops the request.
func (NopPlayer) Play(_ context.Context, path string) error {
	slog.Debug("playback disabled, dropping audio", "path", path)
	return nil
}
