package process

import (
	"context"
	"io"
	"time"
)

// Options are launch-layer settings forwarded unchanged from the caller.
type Options struct {
	// Dir is the working directory. If empty, uses the current directory.
	Dir string `yaml:"dir,omitempty" mapstructure:"dir"`
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string `yaml:"env,omitempty" mapstructure:"env"`
	// Timeout bounds the lifetime of the child. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
}

// Spec describes one launch.
type Spec struct {
	// CommandLine is the full command line, program first.
	CommandLine string
	// Shell runs CommandLine through the platform shell when true.
	// Nil leaves the launcher's default (no shell).
	Shell *bool
	// Posix selects POSIX quoting rules when splitting CommandLine.
	// Nil means the platform default (POSIX).
	Posix *bool
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Stdout and Stderr receive the child's output. Nil inherits the
	// parent's stream.
	Stdout io.Writer
	Stderr io.Writer
	// Options are the pass-through launch options.
	Options Options
}

// Handle is a launched child process.
type Handle interface {
	// CommandLine returns the command line as launched.
	CommandLine() string
	// Pid returns the OS process id.
	Pid() int
	// ExitCode returns the exit code, or -1 while the child is running or
	// when it was killed by a signal.
	ExitCode() int
	// Done is closed once the child has exited and its output is drained.
	Done() <-chan struct{}
	// Wait blocks until the child exits or ctx is done.
	Wait(ctx context.Context) (int, error)
	// Duration returns how long the child ran, or has been running.
	Duration() time.Duration
	// Close asks the child to terminate and releases the handle. It does
	// not wait for the child to exit. Close is idempotent.
	Close() error
	// Closed reports whether Close has been called.
	Closed() bool
}
