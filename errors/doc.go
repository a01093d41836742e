// Package errors provides the structured error type used across cliproc.
//
// Configuration and argument problems surface as *AppError values carrying
// a machine-readable ErrorCode and optional details. Failures reported by
// the operating system while launching a child process are never wrapped
// in an AppError; callers receive them exactly as the launch layer
// produced them.
package errors
