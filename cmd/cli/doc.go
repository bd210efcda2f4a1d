// Package cli builds the pkgvcs command-line interface. It wires the Cobra
// command hierarchy to the configuration loader and zap loggers, and registers
// the working copy and release subcommands.
package cli
