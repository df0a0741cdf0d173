package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".sauti"

// Paths holds resolved filesystem paths for Sauti data.
type Paths struct {
	Base   string // ~/.sauti
	Config string // ~/.sauti/config.yaml
	Logs   string // ~/.sauti/logs
	Data   string // ~/.sauti/data
}

// ResolvePaths computes all standard paths from the home directory.
// If SAUTI_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("SAUTI_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:   base,
		Config: filepath.Join(base, "config.yaml"),
		Logs:   filepath.Join(base, "logs"),
		Data:   filepath.Join(base, "data"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Logs, p.Data} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}

// DBPath returns the configured sqlite path or the default under Data.
func (p Paths) DBPath(cfg StoreConfig) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(p.Data, "sauti.db")
}
