package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Gateway.Port),
		})
	}

	validBinds := []string{"loopback", "lan", "custom"}
	if cfg.Gateway.Bind != "" && !slices.Contains(validBinds, cfg.Gateway.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Gateway.Bind),
		})
	}

	validEnvs := []string{"sandbox", "production"}
	if cfg.AT.Environment != "" && !slices.Contains(validEnvs, cfg.AT.Environment) {
		issues = append(issues, ValidationIssue{
			Path:    "at.environment",
			Message: fmt.Sprintf("must be one of %v, got %q", validEnvs, cfg.AT.Environment),
		})
	}

	if cfg.LLM.Provider != "" && cfg.LLM.Provider != "ollama" {
		issues = append(issues, ValidationIssue{
			Path:    "llm.provider",
			Message: fmt.Sprintf("only \"ollama\" is supported, got %q", cfg.LLM.Provider),
		})
	}

	if cfg.Voice.SessionTTL != "" {
		if d, err := time.ParseDuration(cfg.Voice.SessionTTL); err != nil {
			issues = append(issues, ValidationIssue{
				Path:    "voice.sessionTtl",
				Message: fmt.Sprintf("invalid duration %q", cfg.Voice.SessionTTL),
			})
		} else if d <= 0 {
			issues = append(issues, ValidationIssue{
				Path:    "voice.sessionTtl",
				Message: "must be positive",
			})
		}
	}

	if cfg.Voice.MaxSessions < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "voice.maxSessions",
			Message: "must not be negative",
		})
	}

	if cfg.Voice.CallbackURL != "" &&
		!strings.HasPrefix(cfg.Voice.CallbackURL, "http://") &&
		!strings.HasPrefix(cfg.Voice.CallbackURL, "https://") {
		issues = append(issues, ValidationIssue{
			Path:    "voice.callbackUrl",
			Message: "must be an http(s) URL",
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	return issues
}

// SessionTTLDuration returns the parsed session TTL, falling back to one hour.
func (v VoiceConfig) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(v.SessionTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}
