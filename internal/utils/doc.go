// Package utils hosts the CLI plumbing shared by every pkgvcs command.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// PKGVCS_ environment variables through Viper. LoggerFactory builds the zap
// loggers for diagnostics and human readable command events.
package utils
