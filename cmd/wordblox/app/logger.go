package app

import (
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/wordblox/internal/config"
	"github.com/agentstation/wordblox/pkg/logging"
)

// NewLogger creates a configured logger.
// Log level precedence (highest to lowest):
//  1. --log-level flag
//  2. -q/--quiet flag (warn), which wins over -v
//  3. -v/--verbose flag (debug)
//  4. log.level from configuration
func NewLogger(cfg config.LogConfig, f flags) zerolog.Logger {
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:      determineLogLevel(cfg, f),
		Format:     cfg.Format,
		Output:     cfg.Output,
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	})
}

func determineLogLevel(cfg config.LogConfig, f flags) string {
	if f.logLevel != "" {
		validated := validateLogLevel(f.logLevel)
		if validated != f.logLevel {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", f.logLevel, validated)
		}
		return validated
	}
	if f.verbose && f.quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if f.quiet {
		return "warn"
	}
	if f.verbose {
		return "debug"
	}
	return validateLogLevel(cfg.Level)
}

// validateLogLevel returns level if known, or "info".
func validateLogLevel(level string) string {
	if slices.Contains([]string{"trace", "debug", "info", "warn", "error"}, level) {
		return level
	}
	return "info"
}
