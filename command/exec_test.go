package command_test

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/cliproc/command"
	"github.com/kbukum/cliproc/logger"
)

func TestRunRealProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX tools")
	}
	var report bytes.Buffer
	c, err := command.New("printf",
		command.WithSilence(false),
		command.WithReportWriter(&report),
		command.WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Terminate()

	h, err := c.Run(context.Background(), `'a\nb\nc'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.ExitCode() != 0 {
		t.Fatalf("expected exit code 0, got %d", h.ExitCode())
	}
	if got := c.Output().Text(); got != "a\nb\nc" {
		t.Fatalf("expected captured text, got %q", got)
	}
	if !strings.Contains(report.String(), "[] STDOUT    : a\n[]           : b\n[]           : c\n") {
		t.Errorf("unexpected report %q", report.String())
	}
}

func TestRunRealProcessInputAndAsync(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX tools")
	}
	c, err := command.New("cat", command.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Terminate()

	h, err := c.Run(context.Background(), "", command.WithInputString("piped"), command.Async())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if code, err := h.Wait(ctx); err != nil || code != 0 {
		t.Fatalf("expected clean exit, got code=%d err=%v", code, err)
	}
	if got := c.Output().Text(); got != "piped" {
		t.Errorf("expected 'piped', got %q", got)
	}
}

func TestRunRealProcessNotFound(t *testing.T) {
	c, err := command.New("cliproc-definitely-missing-binary", command.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = c.Run(context.Background(), "")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected exec.ErrNotFound, got %v", err)
	}
}

func TestTerminateRealAsyncProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX tools")
	}
	c, err := command.New("sleep", command.WithLogger(logger.Nop()), command.WithGracePeriod(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, err := c.Run(context.Background(), "10", command.Async())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Terminate(); err != nil {
		t.Fatalf("terminate failed: %v", err)
	}
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit after Terminate")
	}
	if h.ExitCode() != -1 {
		t.Errorf("expected -1 for a terminated child, got %d", h.ExitCode())
	}
}

func TestAsyncRunOutlivesCallerContext(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX tools")
	}
	c, err := command.New("sleep", command.WithLogger(logger.Nop()), command.WithGracePeriod(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h, err := c.Run(ctx, "10", command.Async())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancel()

	select {
	case <-h.Done():
		t.Fatalf("child ended with the caller's context (exit=%d)", h.ExitCode())
	case <-time.After(300 * time.Millisecond):
	}

	if err := c.Terminate(); err != nil {
		t.Fatalf("terminate failed: %v", err)
	}
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit after Terminate")
	}
}
