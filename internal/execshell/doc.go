// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging and lifecycle notifications via ShellExecutor,
// exposes OSCommandRunner for default process execution, and reports non-zero
// exits as CommandFailedError values carrying the command, exit code and both
// captured output streams.
package execshell
