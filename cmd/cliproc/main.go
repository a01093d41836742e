// Command cliproc runs a program once through a command handle and exits
// with the program's exit code.
//
//	cliproc [flags] <program> [args...]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/cliproc/command"
	"github.com/kbukum/cliproc/config"
	"github.com/kbukum/cliproc/logger"
	"github.com/kbukum/cliproc/observability"
	"github.com/kbukum/cliproc/process"
	"github.com/kbukum/cliproc/version"
)

const (
	exitUsage    = 2
	exitNotFound = 127
	// telemetry flush budget on exit
	shutdownTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("cliproc", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: cliproc [flags] <program> [args...]")
		fs.PrintDefaults()
	}

	configFile := fs.String("config", "", "config file (default: search ./cliproc.yml, ./config.yml, user config dir)")
	fs.Bool("silence", true, "suppress the execution report")
	fs.Bool("no-capture", false, "let the program write directly to this process's streams")
	fs.String("encoding", "", "encoding of the program's output (default: locale charset)")
	posix := fs.Bool("posix", true, "split the command line with POSIX quoting rules")
	fs.String("dir", "", "working directory of the program")
	fs.StringArray("env", nil, "extra KEY=VALUE environment entry (repeatable)")
	fs.Duration("timeout", 0, "kill the program after this long (0 = no limit)")
	inputFile := fs.String("input-file", "", "file piped to the program's stdin ('-' for this process's stdin)")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, "cliproc", version.Get())
		return 0
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(
		config.WithConfigFile(*configFile),
		config.WithFlag("command.silence", fs.Lookup("silence")),
		config.WithFlag("command.no_capture", fs.Lookup("no-capture")),
		config.WithFlag("command.encoding", fs.Lookup("encoding")),
		config.WithFlag("command.dir", fs.Lookup("dir")),
		config.WithFlag("command.env", fs.Lookup("env")),
		config.WithFlag("command.timeout", fs.Lookup("timeout")),
	)
	if err != nil {
		fmt.Fprintf(stderr, "cliproc: %v\n", err)
		return exitUsage
	}
	if fs.Changed("posix") {
		cfg.Command.Posix = posix
	}

	logger.Init(cfg.Logging)
	log := logger.Get("cli")

	cfg.Observability.ServiceVersion = version.Get().Version
	shutdown, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		log.Warn("telemetry disabled", logger.ErrorFields("observability_setup", err))
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn("telemetry shutdown failed", logger.ErrorFields("observability_shutdown", err))
		}
	}()

	opts := append(command.FromConfig(cfg.Command),
		command.WithLauncher(process.NewLauncher(cfg.Launcher)),
		command.WithReportWriter(stdout),
	)
	cmd, err := command.New(fs.Arg(0), opts...)
	if err != nil {
		fmt.Fprintf(stderr, "cliproc: %v\n", err)
		return exitUsage
	}
	defer cmd.Terminate()

	var runOpts []command.RunOption
	switch *inputFile {
	case "":
	case "-":
		runOpts = append(runOpts, command.WithInput(stdin))
	default:
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(stderr, "cliproc: %v\n", err)
			return exitUsage
		}
		defer f.Close()
		runOpts = append(runOpts, command.WithInput(f))
	}

	h, err := cmd.Run(ctx, joinArgs(fs.Args()[1:]), runOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "cliproc: %v\n", err)
		if errors.Is(err, exec.ErrNotFound) {
			return exitNotFound
		}
		return 1
	}

	code, err := h.Wait(ctx)
	if err != nil {
		log.Warn("program did not finish normally", logger.ErrorFields("wait", err))
	}
	if cfg.Command.Silence && !cfg.Command.NoCapture {
		fmt.Fprint(stdout, cmd.Output().Text())
		fmt.Fprint(stderr, cmd.ErrorOutput().Text())
	}
	if code < 0 {
		return 1
	}
	return code
}

// joinArgs joins args into a parameter string, single-quoting any argument
// the launcher would otherwise split or unquote.
func joinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a != "" && !strings.ContainsAny(a, " \t\n'\"\\$`") {
			quoted[i] = a
			continue
		}
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}
