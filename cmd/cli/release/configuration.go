package release

import (
	"strings"

	"github.com/temirov/pkgvcs/internal/releases"
)

const (
	messageTemplateKeyConstant        = "message_template"
	requireCleanKeyConstant           = "require_clean"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures configuration values for the release command.
type CommandConfiguration struct {
	MessageTemplate string `mapstructure:"message_template"`
	RequireClean    bool   `mapstructure:"require_clean"`
}

// DefaultCommandConfiguration provides the default release settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		MessageTemplate: releases.DefaultMessageTemplate,
		RequireClean:    true,
	}
}

// DefaultConfigurationValues exposes the defaults keyed under prefix for the configuration loader.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + messageTemplateKeyConstant: defaults.MessageTemplate,
		prefix + configurationKeySeparatorConstant + requireCleanKeyConstant:    defaults.RequireClean,
	}
}

// Sanitize restores the default message template when it is blank.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	if len(strings.TrimSpace(sanitized.MessageTemplate)) == 0 {
		sanitized.MessageTemplate = releases.DefaultMessageTemplate
	}
	return sanitized
}
