package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		AT: ATConfig{
			Environment: "sandbox",
			DataProduct: "mobiledata",
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Host:     "http://localhost:11434",
			Model:    "qwen2.5:0.5b",
		},
		Voice: VoiceConfig{
			SessionTTL:      "1h",
			MaxSessions:     1000,
			FallbackMessage: "Hello, we could not find a message for this call. Goodbye.",
		},
		Gateway: GatewayConfig{
			Port: 5001,
			Bind: "loopback",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// applyDefaults fills zero values left after unmarshalling a partial file.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.AT.Environment == "" {
		cfg.AT.Environment = def.AT.Environment
	}
	if cfg.AT.DataProduct == "" {
		cfg.AT.DataProduct = def.AT.DataProduct
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = def.LLM.Provider
	}
	if cfg.LLM.Host == "" {
		cfg.LLM.Host = def.LLM.Host
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.Voice.SessionTTL == "" {
		cfg.Voice.SessionTTL = def.Voice.SessionTTL
	}
	if cfg.Voice.MaxSessions == 0 {
		cfg.Voice.MaxSessions = def.Voice.MaxSessions
	}
	if cfg.Voice.FallbackMessage == "" {
		cfg.Voice.FallbackMessage = def.Voice.FallbackMessage
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = def.Gateway.Port
	}
	if cfg.Gateway.Bind == "" {
		cfg.Gateway.Bind = def.Gateway.Bind
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}
