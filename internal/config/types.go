package config

// Config is the root configuration for Sauti.
type Config struct {
	AT      ATConfig      `yaml:"at,omitempty"`
	LLM     LLMConfig     `yaml:"llm,omitempty"`
	Voice   VoiceConfig   `yaml:"voice,omitempty"`
	Gateway GatewayConfig `yaml:"gateway,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Safety  SafetyConfig  `yaml:"safety,omitempty"`
	Store   StoreConfig   `yaml:"store,omitempty"`
}

// ATConfig holds Africa's Talking credentials and environment selection.
type ATConfig struct {
	Username    string `yaml:"username,omitempty"`
	APIKey      string `yaml:"apiKey,omitempty"` // supports ${ENV_VAR} references
	Environment string `yaml:"environment,omitempty"` // "sandbox" | "production"
	DataProduct string `yaml:"dataProduct,omitempty"` // product name for mobile data bundles
	WhatsApp    string `yaml:"whatsapp,omitempty"`    // sender WhatsApp number, if provisioned
}

// LLMConfig selects the intent-resolver model.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"` // "ollama"
	Host     string `yaml:"host,omitempty"`     // e.g. http://localhost:11434
	Model    string `yaml:"model,omitempty"`
}

// VoiceConfig controls the voice-callback session protocol.
type VoiceConfig struct {
	CallerID        string `yaml:"callerId,omitempty"` // default from_number for outbound calls
	SessionTTL      string `yaml:"sessionTtl,omitempty"` // Go duration, default "1h"
	MaxSessions     int    `yaml:"maxSessions,omitempty"`
	FallbackMessage string `yaml:"fallbackMessage,omitempty"`
	CallbackURL     string `yaml:"callbackUrl,omitempty"` // public base URL registered on the provider dashboard
}

// GatewayConfig controls the HTTP gateway server.
type GatewayConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"` // CORS origins for browser clients
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"` // optional JSON log file
}

// SafetyConfig controls the advisory prompt-safety layer.
type SafetyConfig struct {
	Strict bool `yaml:"strict,omitempty"` // stricter scoring for sensitive operations
	Block  bool `yaml:"block,omitempty"`  // refuse flagged prompts instead of only logging
}

// StoreConfig controls the dispatch audit database.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"` // sqlite file, ":memory:", or "" for the default
}
