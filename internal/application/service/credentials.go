package service

import (
	"strings"

	"gurney/internal/application/port/output"
	"gurney/internal/domain/entity"
)

// CredentialInjector swaps the {{username}} / {{password}} placeholders the
// model is told to emit for real values from the environment. Real
// credentials never enter the prompt or the logs.
type CredentialInjector struct {
	values map[string]string
	logger output.LoggerPort
}

func NewCredentialInjector(username, password string, logger output.LoggerPort) *CredentialInjector {
	return &CredentialInjector{
		values: map[string]string{
			"{{username}}": username,
			"{{password}}": password,
		},
		logger: logger,
	}
}

// Inject returns the action with placeholders in fill values replaced.
// Non-fill actions pass through untouched.
func (c *CredentialInjector) Inject(action entity.Action) entity.Action {
	if action.Kind != entity.ActionFill {
		return action
	}

	for placeholder, real := range c.values {
		if real == "" {
			continue
		}
		if strings.Contains(action.Text, placeholder) {
			if c.logger != nil {
				c.logger.Info("Injecting credential", "placeholder", placeholder)
			}
			action.Text = strings.ReplaceAll(action.Text, placeholder, real)
		}
	}
	return action
}
