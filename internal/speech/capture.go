package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Capture records and transcribes one spoken answer. Listen blocks until
// the configured silence budget ends capture; an empty transcript means no
// intelligible speech was heard.
type Capture interface {
	Listen(ctx context.Context, maxSilence time.Duration) (string, error)
}

// ExecCapture delegates to an OS speech-to-text command. The command gets
// the silence budget in whole seconds as its final argument and is expected
// to print the transcript to stdout.
type ExecCapture struct {
	command []string
	logger  *zap.Logger
}

// NewExecCapture creates a listener running the given command line. An
// empty command yields a listener that always reports ErrUnavailable.
func NewExecCapture(command string, logger *zap.Logger) *ExecCapture {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecCapture{command: strings.Fields(command), logger: logger}
}

// Listen runs the capture command and returns the trimmed transcript.
func (c *ExecCapture) Listen(ctx context.Context, maxSilence time.Duration) (string, error) {
	if len(c.command) == 0 {
		return "", ErrUnavailable
	}

	args := append(append([]string{}, c.command[1:]...), strconv.Itoa(int(maxSilence.Seconds())))
	cmd := exec.CommandContext(ctx, c.command[0], args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("speech capture: %w", err)
	}

	transcript := strings.TrimSpace(stdout.String())
	c.logger.Debug("answer captured",
		zap.Duration("took", time.Since(start)),
		zap.Int("chars", len(transcript)),
	)
	return transcript, nil
}
