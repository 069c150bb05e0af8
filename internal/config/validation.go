package config

import (
	"fmt"
	"os"
	"strings"

	friendlyerrors "shotscraper/internal/errors"
)

// ValidationError represents a detailed config validation error
type ValidationError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Config validation error in '%s': %s", e.Field, e.Message)
}

// ValidateDetailed reports softer problems that Validate lets through.
func (c *Config) ValidateDetailed() []ValidationError {
	var errs []ValidationError

	if c.General.Record && c.General.DataRoot == "" {
		errs = append(errs, ValidationError{
			Field:      "general.data_root",
			Message:    "Required when general.record is true",
			Suggestion: "Set a directory for history:\n  data_root: ~/.local/share/shotscraper",
		})
	}

	if c.Output.Dir != "" {
		if fi, err := os.Stat(c.Output.Dir); err == nil && !fi.IsDir() {
			errs = append(errs, ValidationError{
				Field:      "output.dir",
				Value:      c.Output.Dir,
				Message:    "Path exists but is not a directory",
				Suggestion: "Point output.dir at a directory",
			})
		}
	}

	if c.Network.TimeoutSeconds > 3600 {
		errs = append(errs, ValidationError{
			Field:      "network.timeout_seconds",
			Value:      c.Network.TimeoutSeconds,
			Message:    "Very long timeout (>1 hour)",
			Suggestion: "Use 0 to wait indefinitely, or 30-300 seconds",
		})
	}

	if strings.TrimSpace(c.Sources.GitHub.RawBaseURL) != "" &&
		!strings.HasPrefix(c.Sources.GitHub.RawBaseURL, "http://") &&
		!strings.HasPrefix(c.Sources.GitHub.RawBaseURL, "https://") {
		errs = append(errs, ValidationError{
			Field:      "sources.github.raw_base_url",
			Value:      c.Sources.GitHub.RawBaseURL,
			Message:    "Must be an http(s) URL",
			Suggestion: "Leave empty to use https://raw.githubusercontent.com",
		})
	}

	if c.Sources.GitHub.Enabled {
		tokenEnv := c.Sources.GitHub.TokenEnv
		if tokenEnv == "" {
			tokenEnv = "GITHUB_TOKEN"
		}
		if os.Getenv(tokenEnv) == "" {
			errs = append(errs, ValidationError{
				Field:      "sources.github",
				Message:    fmt.Sprintf("GitHub token enabled but %s not set", tokenEnv),
				Suggestion: fmt.Sprintf("Set the token:\n  export %s=ghp_...\n  Only needed for private script repositories", tokenEnv),
			})
		}
	}

	return errs
}

// ValidateWithFriendlyErrors returns a user-friendly validation error
func (c *Config) ValidateWithFriendlyErrors() error {
	if err := c.Validate(); err != nil {
		return friendlyerrors.ConfigError("config", err.Error()).WithDetails(err)
	}

	errs := c.ValidateDetailed()
	if len(errs) == 0 {
		return nil
	}

	var msg strings.Builder
	for i, err := range errs {
		msg.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
		if err.Value != nil {
			msg.WriteString(fmt.Sprintf("   Current value: %v\n", err.Value))
		}
		if err.Suggestion != "" {
			for _, line := range strings.Split(err.Suggestion, "\n") {
				msg.WriteString(fmt.Sprintf("   → %s\n", line))
			}
		}
		msg.WriteString("\n")
	}

	e := friendlyerrors.NewFriendlyError("Config validation failed", msg.String())
	e.Kind = friendlyerrors.KindConfig
	return e
}
