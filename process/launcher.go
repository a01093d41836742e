package process

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"

	goerrors "github.com/kbukum/cliproc/errors"
	"github.com/kbukum/cliproc/logger"
)

// DefaultGracePeriod is used when neither the Spec nor the launcher Config
// sets a grace period.
const DefaultGracePeriod = 5 * time.Second

// Launcher starts a command line described by a Spec.
//
// With async false, Launch returns once the child has exited and its output
// has been drained. With async true, Launch returns as soon as the child has
// started; the child then outlives ctx and stops only when its Handle is
// closed or its Timeout expires. Errors starting the child are returned as
// produced by the operating system; a non-zero exit status is not an error.
type Launcher interface {
	Launch(ctx context.Context, spec Spec, async bool) (Handle, error)
}

// Config configures an ExecLauncher.
type Config struct {
	// Name identifies this launcher instance in logs.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout is the default child lifetime limit. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

var _ Launcher = (*ExecLauncher)(nil)

// ExecLauncher launches children with os/exec.
type ExecLauncher struct {
	config Config
	log    *logger.Logger
}

// NewLauncher creates an exec-backed launcher.
func NewLauncher(cfg Config) *ExecLauncher {
	if cfg.Name == "" {
		cfg.Name = "exec"
	}
	return &ExecLauncher{
		config: cfg,
		log:    logger.Get("process").WithFields(logger.Fields("launcher", cfg.Name)),
	}
}

// Name returns the launcher name.
func (l *ExecLauncher) Name() string {
	return l.config.Name
}

// Launch starts spec, applying launcher-level defaults to unset options.
func (l *ExecLauncher) Launch(ctx context.Context, spec Spec, async bool) (Handle, error) {
	opts := spec.Options
	if opts.GracePeriod == 0 {
		opts.GracePeriod = l.config.GracePeriod
	}
	if opts.GracePeriod == 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.Timeout == 0 {
		opts.Timeout = l.config.Timeout
	}

	if async {
		ctx = context.WithoutCancel(ctx)
	}
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}

	c, err := buildCmd(runCtx, spec)
	if err != nil {
		cancel()
		return nil, err
	}
	c.Dir = opts.Dir
	c.Env = mergeEnv(opts.Env)
	c.Stdin = spec.Stdin
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	c.Stdout = spec.Stdout
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	c.Stderr = spec.Stderr
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	configure(c)
	c.WaitDelay = opts.GracePeriod

	p := &Process{
		cmd:         c,
		commandLine: spec.CommandLine,
		ctx:         runCtx,
		cancel:      cancel,
		done:        make(chan struct{}),
		exitCode:    -1,
		log:         l.log,
	}

	if err := c.Start(); err != nil {
		cancel()
		l.log.Debug("launch failed", logger.Fields(logger.FieldCommand, spec.CommandLine, logger.FieldError, err.Error()))
		return nil, err
	}
	p.started = time.Now()

	l.log.Debug("process started", logger.Fields(
		logger.FieldCommand, spec.CommandLine,
		logger.FieldPid, c.Process.Pid,
		logger.FieldShell, spec.Shell != nil && *spec.Shell,
		logger.FieldAsync, async,
	))

	if async {
		go p.wait()
	} else {
		p.wait()
	}
	return p, nil
}

// SplitCommandLine splits a command line into argv. POSIX quoting rules
// apply unless posix is explicitly false, in which case the line is split
// on whitespace only.
func SplitCommandLine(line string, posix *bool) ([]string, error) {
	var argv []string
	if posix != nil && !*posix {
		argv = strings.Fields(line)
	} else {
		var err error
		argv, err = shlex.Split(line)
		if err != nil {
			return nil, goerrors.InvalidInput("command_line", err.Error()).WithCause(err)
		}
	}
	if len(argv) == 0 {
		return nil, goerrors.InvalidInput("command_line", "nothing to run")
	}
	return argv, nil
}

func buildCmd(ctx context.Context, spec Spec) (*exec.Cmd, error) {
	if spec.Shell != nil && *spec.Shell {
		if strings.TrimSpace(spec.CommandLine) == "" {
			return nil, goerrors.InvalidInput("command_line", "nothing to run")
		}
		return shellCommand(ctx, spec.CommandLine), nil
	}
	argv, err := SplitCommandLine(spec.CommandLine, spec.Posix)
	if err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, argv[0], argv[1:]...), nil //nolint:gosec // dynamic args are the purpose of this package
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
