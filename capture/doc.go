// Package capture accumulates the output of a child process.
//
// A Capture is an io.Writer handed to the process launcher as the
// child's stdout or stderr. Raw bytes are stored as they arrive and
// decoded with the configured text encoding when Text is called. Closing a
// Capture makes further writes fail, which stops the launcher's draining
// goroutine for that stream.
package capture
