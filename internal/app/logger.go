package app

import (
	"strings"

	"github.com/charlesng35/sitecms/pkg/logger"
)

// ConfigureLogging initialises the global logger with the provided level, defaulting to info.
// Development mode logs human readable output and defaults to debug.
func ConfigureLogging(cfg ServerConfig) error {
	level := strings.TrimSpace(cfg.LogLevel)
	if !cfg.IsDevelopment() {
		if level == "" {
			level = "info"
		}
		return logger.Init(level)
	}
	if level == "" {
		level = "debug"
	}
	return logger.InitWithFormat(level, "console")
}
