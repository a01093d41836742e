// Package version reports the version of the cliproc binary.
//
// Version and commit can be set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/cliproc/version.Version=1.0.0"
//
// Otherwise they are read from the module and VCS information embedded by
// the Go toolchain.
package version
