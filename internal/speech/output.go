package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Output speaks text aloud. Speak blocks until the audio has finished or
// Cancel interrupts it. Cancel is safe at any time, including when nothing
// is playing, and no audio is produced after it returns.
type Output interface {
	Speak(ctx context.Context, text string) error
	Cancel()
}

const cancelGrace = 2 * time.Second

// ExecOutput speaks by piping text to an OS text-to-speech command
// (e.g. "espeak --stdin" or "say").
type ExecOutput struct {
	command []string
	logger  *zap.Logger

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// NewExecOutput creates a speaker running the given command line. An empty
// command yields a speaker whose Speak always reports ErrUnavailable.
func NewExecOutput(command string, logger *zap.Logger) *ExecOutput {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecOutput{command: strings.Fields(command), logger: logger}
}

// Speak runs the TTS command with text on stdin and waits for it to finish.
func (o *ExecOutput) Speak(ctx context.Context, text string) error {
	if len(o.command) == 0 {
		return ErrUnavailable
	}

	cmd := exec.CommandContext(ctx, o.command[0], o.command[1:]...)
	cmd.Stdin = strings.NewReader(text)
	done := make(chan struct{})

	o.mu.Lock()
	if o.cmd != nil {
		o.mu.Unlock()
		return fmt.Errorf("speech output busy")
	}
	if err := cmd.Start(); err != nil {
		o.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	o.cmd = cmd
	o.done = done
	o.mu.Unlock()

	err := cmd.Wait()
	close(done)

	o.mu.Lock()
	o.cmd = nil
	o.done = nil
	o.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("speech output: %w", err)
	}
	return nil
}

// Cancel stops any in-progress speech and waits for the process to exit,
// so no audio plays after it returns. Idle cancel is a no-op.
func (o *ExecOutput) Cancel() {
	o.mu.Lock()
	cmd := o.cmd
	done := o.done
	o.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}

	_ = cmd.Process.Signal(os.Interrupt)
	select {
	case <-done:
	case <-time.After(cancelGrace):
		_ = cmd.Process.Kill()
		<-done
	}
	o.logger.Debug("speech cancelled")
}
