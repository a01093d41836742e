package command

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	reportStart    = "[] ** START **"
	reportEnd      = "[] ** E N D **"
	reportCommand  = "[] Command   : "
	reportExitCode = "[] Exit Code : "
	reportStdout   = "[] STDOUT    : "
	reportStderr   = "[] STDERR    : "
	reportCont     = "[]           : "
)

// WriteReport writes the execution report for one run. Each stream's text
// is split on newlines; the first line shares the label line and every
// further line is written as a continuation.
func WriteReport(w io.Writer, commandLine string, exitCode int, stdout, stderr string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, reportStart)
	fmt.Fprintln(bw, reportCommand+commandLine)
	fmt.Fprintf(bw, "%s%d\n", reportExitCode, exitCode)
	writeBlock(bw, reportStdout, stdout)
	writeBlock(bw, reportStderr, stderr)
	fmt.Fprintln(bw, reportEnd)
	fmt.Fprintln(bw)

	return bw.Flush()
}

func writeBlock(w io.Writer, label, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i == 0 {
			fmt.Fprintln(w, label+line)
			continue
		}
		fmt.Fprintln(w, reportCont+line)
	}
}
