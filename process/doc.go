// Package process launches external command lines.
//
// A Launcher turns a Spec (command line, shell and posix flags, stdio
// targets, launch options) into a running child and returns a Handle to
// it. The exec-backed launcher starts each child in its own process group
// so that Close can terminate the whole tree: SIGTERM first, SIGKILL once
// the grace period has passed.
package process
