// Package runtime provides the execution context for gitdemo commands.
//
// It encapsulates shared dependencies needed by the demos, such as the loaded
// configuration, the logger, and the base directory for demo repositories.
package runtime
