package commands

import (
	"strings"

	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

// CommandLogger returns the logger for the command handlers of one resource,
// named "cms.commands.<resource>". A nil provider yields a no-op logger.
func CommandLogger(provider interfaces.LoggerProvider, resource string) interfaces.Logger {
	resource = strings.ToLower(strings.TrimSpace(resource))
	if resource == "" {
		resource = "admin"
	}
	return logging.WithFields(logging.ModuleLogger(provider, "cms.commands."+resource),
		map[string]any{"resource": resource})
}
