// Package runtime implements the traversal engine: it advances speakers through
// a dialog graph one step at a time, suspending at choices until the host
// resumes them through a one-shot continuation.
package runtime
