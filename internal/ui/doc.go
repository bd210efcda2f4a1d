// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger observes external VCS commands and renders concise
// progress lines while structured telemetry continues to flow through zap.
package ui
