package command

import (
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/kbukum/cliproc/config"
	"github.com/kbukum/cliproc/logger"
	"github.com/kbukum/cliproc/observability"
	"github.com/kbukum/cliproc/process"
)

// Option configures a Command.
type Option func(*Command)

// WithPosix selects POSIX (true) or plain whitespace (false) tokenizing of
// the command line. Unset means the platform default.
func WithPosix(posix bool) Option {
	return func(c *Command) { c.posix = &posix }
}

// WithSilence controls the execution report. Commands are silent by default.
func WithSilence(silence bool) Option {
	return func(c *Command) { c.silence = silence }
}

// WithCapture controls whether stdout and stderr are captured. When false
// the child inherits the parent's streams and Output returns nil.
func WithCapture(capture bool) Option {
	return func(c *Command) { c.capture = capture }
}

// WithEncoding sets the encoding used to decode both streams.
func WithEncoding(name string) Option {
	return func(c *Command) { c.encoding = name }
}

// WithLaunchOptions replaces the options forwarded to the launcher.
func WithLaunchOptions(opts process.Options) Option {
	return func(c *Command) { c.launchOpts = opts }
}

// WithDir sets the child's working directory.
func WithDir(dir string) Option {
	return func(c *Command) { c.launchOpts.Dir = dir }
}

// WithEnv adds key=value pairs to the child's environment.
func WithEnv(env ...string) Option {
	return func(c *Command) { c.launchOpts.Env = append(c.launchOpts.Env, env...) }
}

// WithTimeout bounds each child's lifetime. Enforcement belongs to the launcher.
func WithTimeout(d time.Duration) Option {
	return func(c *Command) { c.launchOpts.Timeout = d }
}

// WithGracePeriod sets how long the launcher waits between asking a child to
// stop and killing it.
func WithGracePeriod(d time.Duration) Option {
	return func(c *Command) { c.launchOpts.GracePeriod = d }
}

// WithLauncher sets the launcher. The default is an exec-backed launcher.
func WithLauncher(l process.Launcher) Option {
	return func(c *Command) { c.launcher = l }
}

// WithPlatform overrides the GOOS value used to adapt command lines.
func WithPlatform(goos string) Option {
	return func(c *Command) { c.platform = goos }
}

// WithStreamEncodings overrides detection of the platform's output stream
// encodings.
func WithStreamEncodings(detect func() (stdout, stderr string)) Option {
	return func(c *Command) { c.detect = detect }
}

// WithReportWriter sets where the execution report is written.
func WithReportWriter(w io.Writer) Option {
	return func(c *Command) { c.report = w }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Command) { c.log = l }
}

// WithMetrics sets the run instruments.
func WithMetrics(m *observability.RunMetrics) Option {
	return func(c *Command) { c.metrics = m }
}

// FromConfig converts loaded command settings into options.
func FromConfig(cfg config.CommandConfig) []Option {
	opts := []Option{
		WithSilence(cfg.Silence),
		WithCapture(!cfg.NoCapture),
		WithLaunchOptions(process.Options{
			Dir:         cfg.Dir,
			Env:         cfg.Env,
			Timeout:     cfg.Timeout,
			GracePeriod: cfg.GracePeriod,
		}),
	}
	if cfg.Posix != nil {
		opts = append(opts, WithPosix(*cfg.Posix))
	}
	if cfg.Encoding != "" {
		opts = append(opts, WithEncoding(cfg.Encoding))
	}
	return opts
}

// RunOption configures a single Run.
type RunOption func(*runOptions)

type runOptions struct {
	input   io.Reader
	async   bool
	message string
}

// WithInput pipes r to the child's standard input.
func WithInput(r io.Reader) RunOption {
	return func(o *runOptions) { o.input = r }
}

// WithInputString pipes s to the child's standard input.
func WithInputString(s string) RunOption {
	return func(o *runOptions) { o.input = strings.NewReader(s) }
}

// Async makes Run return as soon as the child has started.
func Async() RunOption {
	return func(o *runOptions) { o.async = true }
}

// WithMessage attaches a note to the run. It is only logged.
func WithMessage(msg string) RunOption {
	return func(o *runOptions) { o.message = msg }
}

func defaultPlatform() string { return runtime.GOOS }
