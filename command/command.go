package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/cliproc/capture"
	"github.com/kbukum/cliproc/logger"
	"github.com/kbukum/cliproc/observability"
	"github.com/kbukum/cliproc/process"
	"github.com/kbukum/cliproc/validation"
)

// Command is a runnable external program. It owns at most one running
// child and its captures at a time.
type Command struct {
	program    string
	posix      *bool
	silence    bool
	capture    bool
	encoding   string
	launchOpts process.Options

	launcher process.Launcher
	platform string
	detect   func() (string, string)
	report   io.Writer
	log      *logger.Logger
	metrics  *observability.RunMetrics

	// resolved encoding shared by stdout and stderr
	streamEncoding string

	// nil while idle
	state *active
}

// active is the child of the latest run with its captures.
type active struct {
	proc   process.Handle
	stdout *capture.Capture
	stderr *capture.Capture
}

type settings struct {
	Program  string `mapstructure:"program" validate:"required,notblank"`
	Encoding string `mapstructure:"encoding" validate:"omitempty,encoding"`
}

// New creates a Command for program. Nothing is started.
func New(program string, opts ...Option) (*Command, error) {
	c := &Command{
		program:  program,
		silence:  true,
		capture:  true,
		platform: defaultPlatform(),
		detect:   LocaleEncodings,
		report:   os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := validation.Validate(settings{Program: program, Encoding: c.encoding}); err != nil {
		return nil, err
	}
	c.streamEncoding = resolveEncodings(c.encoding, c.detect)

	if c.launcher == nil {
		c.launcher = process.NewLauncher(process.Config{})
	}
	if c.log == nil {
		c.log = logger.Get("command")
	}
	if c.metrics == nil {
		c.metrics = observability.DefaultRunMetrics()
	}
	c.log.Debug("command created", logger.Fields(
		logger.FieldProgram, program,
		logger.FieldEncoding, c.streamEncoding,
	))
	return c, nil
}

// Run terminates the previous run, then runs the program with params
// appended. Unless Async is given it returns once the child has exited.
// An async child is not tied to ctx; only Terminate, a later Run or the
// launch timeout stop it.
// Launch errors are returned as the launcher produced them; a non-zero exit
// status is not an error.
func (c *Command) Run(ctx context.Context, params string, opts ...RunOption) (process.Handle, error) {
	var ro runOptions
	for _, opt := range opts {
		opt(&ro)
	}

	if err := c.Terminate(); err != nil {
		return nil, err
	}

	line := c.program
	if params != "" {
		line += " " + params
	}
	line, shell := AdaptForPlatform(line, c.platform)

	runID := uuid.NewString()
	log := c.log.WithContext(ctx)
	log.Debug("running command", logger.Fields(
		logger.FieldProgram, c.program,
		logger.FieldCommand, line,
		logger.FieldRunID, runID,
		logger.FieldAsync, ro.async,
		"silence", c.silence,
		"message", ro.message,
	))

	ctx, span := observability.StartSpan(ctx, observability.SpanCommandRun, trace.WithAttributes(
		attribute.String(observability.AttrProgram, c.program),
		attribute.String(observability.AttrCommandLine, line),
		attribute.String(observability.AttrRunID, runID),
		attribute.Bool(observability.AttrAsync, ro.async),
		attribute.Bool(observability.AttrShell, shell != nil && *shell),
	))

	st := &active{}
	spec := process.Spec{
		CommandLine: line,
		Shell:       shell,
		Posix:       c.posix,
		Stdin:       ro.input,
		Options:     c.launchOpts,
	}
	if c.capture {
		var err error
		if st.stdout, err = capture.New(c.streamEncoding); err != nil {
			observability.EndSpan(span, err)
			return nil, err
		}
		if st.stderr, err = capture.New(c.streamEncoding); err != nil {
			observability.EndSpan(span, err)
			return nil, err
		}
		spec.Stdout = st.stdout
		spec.Stderr = st.stderr
	}

	h, err := c.launcher.Launch(ctx, spec, ro.async)
	c.metrics.RecordLaunch(ctx, c.program, ro.async, err)
	if err != nil {
		st.close()
		log.Debug("launch failed", logger.ErrorFields("launch", err))
		observability.EndSpan(span, err)
		return nil, err
	}
	st.proc = h
	c.state = st

	span.SetAttributes(attribute.Int(observability.AttrPid, h.Pid()))
	if !ro.async {
		span.SetAttributes(attribute.Int(observability.AttrExitCode, h.ExitCode()))
		c.metrics.RecordExit(ctx, c.program, h.ExitCode(), h.Duration())
	}
	observability.EndSpan(span, nil)

	if !c.silence {
		if err := WriteReport(c.report, line, h.ExitCode(), st.stdout.Text(), st.stderr.Text()); err != nil {
			return h, fmt.Errorf("writing report: %w", err)
		}
	}
	return h, nil
}

// Terminate closes the stdout capture, the stderr capture and the child of
// the latest run, in that order, and returns the Command to idle. It does
// not wait for the child to exit. Calling it while idle does nothing.
func (c *Command) Terminate() error {
	st := c.state
	if st == nil {
		return nil
	}
	c.state = nil

	_, span := observability.StartSpan(context.Background(), observability.SpanCommandTerminate, trace.WithAttributes(
		attribute.String(observability.AttrProgram, c.program),
		attribute.Int(observability.AttrPid, st.proc.Pid()),
	))
	c.log.Debug("terminating command", logger.Fields(
		logger.FieldProgram, c.program,
		logger.FieldPid, st.proc.Pid(),
	))
	err := st.close()
	observability.EndSpan(span, err)
	return err
}

func (st *active) close() error {
	var errs []error
	if st.stdout != nil {
		errs = append(errs, st.stdout.Close())
	}
	if st.stderr != nil {
		errs = append(errs, st.stderr.Close())
	}
	if st.proc != nil {
		errs = append(errs, st.proc.Close())
	}
	return errors.Join(errs...)
}

// Process returns the child of the latest run, or nil when idle.
func (c *Command) Process() process.Handle {
	if c.state == nil {
		return nil
	}
	return c.state.proc
}

// Output returns the stdout capture of the latest run. It is nil when idle
// or when capture is disabled.
func (c *Command) Output() *capture.Capture {
	if c.state == nil {
		return nil
	}
	return c.state.stdout
}

// ErrorOutput returns the stderr capture of the latest run. It is nil when
// idle or when capture is disabled.
func (c *Command) ErrorOutput() *capture.Capture {
	if c.state == nil {
		return nil
	}
	return c.state.stderr
}

// Program returns the program path.
func (c *Command) Program() string { return c.program }

// Encodings returns the encodings used to decode stdout and stderr. They
// are always equal.
func (c *Command) Encodings() (stdout, stderr string) {
	return c.streamEncoding, c.streamEncoding
}
