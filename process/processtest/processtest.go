// Package processtest provides a recording process.Launcher for tests.
package processtest

import (
	"context"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/cliproc/process"
)

// Behavior produces the outcome of one launch. It may write to the spec's
// stdout and stderr. A non-nil error is returned from Launch unchanged.
type Behavior func(spec process.Spec) (exitCode int, err error)

// Launcher records every launch and dispatches to queued behaviors in order.
// Once the queue is empty launches succeed with exit code 0.
type Launcher struct {
	mu        sync.Mutex
	behaviors []Behavior
	Calls     int
	Specs     []process.Spec
	Async     []bool
	Inputs    []string
	Handles   []*Handle
}

var _ process.Launcher = (*Launcher)(nil)

// New constructs a Launcher that will invoke behaviors sequentially.
func New(behaviors ...Behavior) *Launcher {
	return &Launcher{behaviors: slices.Clone(behaviors)}
}

// Launch records the call and runs the next behavior. Stdin is read fully
// and kept in Inputs. Async launches return a handle that stays running
// until Finish or Close is called on it.
func (l *Launcher) Launch(_ context.Context, spec process.Spec, async bool) (process.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.Calls++
	l.Specs = append(l.Specs, spec)
	l.Async = append(l.Async, async)

	input := ""
	if spec.Stdin != nil {
		b, err := io.ReadAll(spec.Stdin)
		if err != nil {
			return nil, err
		}
		input = string(b)
	}
	l.Inputs = append(l.Inputs, input)

	code := 0
	if len(l.behaviors) > 0 {
		behavior := l.behaviors[0]
		l.behaviors = l.behaviors[1:]
		var err error
		code, err = behavior(spec)
		if err != nil {
			return nil, err
		}
	}

	h := &Handle{
		commandLine: spec.CommandLine,
		pid:         1000 + l.Calls,
		done:        make(chan struct{}),
		exitCode:    code,
		started:     time.Now(),
	}
	if !async {
		h.Finish()
	}
	l.Handles = append(l.Handles, h)
	return h, nil
}

// Remaining returns the number of queued behaviors not yet consumed.
func (l *Launcher) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.behaviors)
}

// Last returns the most recent spec and async flag.
func (l *Launcher) Last() (process.Spec, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Specs) == 0 {
		return process.Spec{}, false
	}
	return l.Specs[len(l.Specs)-1], l.Async[len(l.Async)-1]
}

// Handle is a fake child. It finishes with the behavior's exit code.
type Handle struct {
	commandLine string
	pid         int
	done        chan struct{}
	finish      sync.Once
	closed      atomic.Bool
	closeCount  atomic.Int32

	mu       sync.Mutex
	exitCode int
	exited   bool
	started  time.Time
	ended    time.Time
}

var _ process.Handle = (*Handle)(nil)

// Finish marks the child as exited.
func (h *Handle) Finish() {
	h.finish.Do(func() {
		h.mu.Lock()
		h.exited = true
		h.ended = time.Now()
		h.mu.Unlock()
		close(h.done)
	})
}

func (h *Handle) CommandLine() string { return h.commandLine }

func (h *Handle) Pid() int { return h.pid }

func (h *Handle) ExitCode() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.exited {
		return -1
	}
	return h.exitCode
}

func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) Wait(ctx context.Context) (int, error) {
	select {
	case <-h.done:
		return h.ExitCode(), nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

func (h *Handle) Duration() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.exited {
		return time.Since(h.started)
	}
	return h.ended.Sub(h.started)
}

// Close marks the handle closed. A running fake child exits with -1.
func (h *Handle) Close() error {
	h.closeCount.Add(1)
	if h.closed.Swap(true) {
		return nil
	}
	h.mu.Lock()
	if !h.exited {
		h.exitCode = -1
	}
	h.mu.Unlock()
	h.Finish()
	return nil
}

func (h *Handle) Closed() bool { return h.closed.Load() }

// CloseCalls returns how many times Close was called.
func (h *Handle) CloseCalls() int { return int(h.closeCount.Load()) }

// Write returns a Behavior that writes stdout and stderr text and exits
// with code.
func Write(stdout, stderr string, code int) Behavior {
	return func(spec process.Spec) (int, error) {
		if stdout != "" && spec.Stdout != nil {
			if _, err := io.WriteString(spec.Stdout, stdout); err != nil {
				return 0, err
			}
		}
		if stderr != "" && spec.Stderr != nil {
			if _, err := io.WriteString(spec.Stderr, stderr); err != nil {
				return 0, err
			}
		}
		return code, nil
	}
}

// Fail returns a Behavior whose launch fails with err.
func Fail(err error) Behavior {
	return func(process.Spec) (int, error) { return 0, err }
}
