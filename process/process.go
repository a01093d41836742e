package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/cliproc/logger"
)

var _ Handle = (*Process)(nil)

// Process is a child started by ExecLauncher.
type Process struct {
	cmd         *exec.Cmd
	commandLine string
	ctx         context.Context
	cancel      context.CancelFunc
	started     time.Time
	done        chan struct{}
	closed      atomic.Bool
	log         *logger.Logger

	mu       sync.Mutex
	exitCode int
	err      error
	ended    time.Time
}

func (p *Process) wait() {
	err := p.cmd.Wait()

	p.mu.Lock()
	if p.cmd.ProcessState != nil {
		p.exitCode = p.cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	switch {
	case p.ctx.Err() != nil && !p.closed.Load():
		p.err = fmt.Errorf("process: killed by context: %w", p.ctx.Err())
	case err != nil && !errors.As(err, &exitErr) && !p.closed.Load():
		p.err = fmt.Errorf("process: wait: %w", err)
	}
	p.ended = time.Now()
	p.mu.Unlock()

	p.cancel()
	close(p.done)

	p.log.Debug("process exited", logger.Fields(
		logger.FieldCommand, p.commandLine,
		logger.FieldExitCode, p.exitCode,
		logger.FieldDuration, p.Duration().Milliseconds(),
	))
}

// CommandLine returns the command line as launched.
func (p *Process) CommandLine() string { return p.commandLine }

// Pid returns the OS process id.
func (p *Process) Pid() int { return p.cmd.Process.Pid }

// ExitCode returns the exit code, or -1 while running or when killed.
func (p *Process) ExitCode() int {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.exitCode
	default:
		return -1
	}
}

// Done is closed once the child has exited and its output is drained.
func (p *Process) Done() <-chan struct{} { return p.done }

// Wait blocks until the child exits or ctx is done. The returned error is
// nil for any exit status; it is set when the child was killed by its
// timeout or parent context, or when draining its output failed.
func (p *Process) Wait(ctx context.Context) (int, error) {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.exitCode, p.err
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

// Duration returns how long the child ran, or has been running.
func (p *Process) Duration() time.Duration {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.ended.Sub(p.started)
	default:
		return time.Since(p.started)
	}
}

// Close asks a running child to terminate. SIGTERM goes to its process
// group, followed by SIGKILL after the grace period. Close does not wait.
func (p *Process) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	p.cancel()
	return nil
}

// Closed reports whether Close has been called.
func (p *Process) Closed() bool { return p.closed.Load() }
