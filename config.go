package surrealdb

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Config defines the configuration for an engine.
type Config struct {
	// Endpoint is the URL of the SurrealDB RPC endpoint.
	Endpoint string `toml:"endpoint"`
	// Namespace is the namespace to select after connecting.
	Namespace string `toml:"namespace"`
	// Database is the database to select after connecting.
	Database string `toml:"database"`
	// Token is an auth token from a previous session to resume with. The
	// server still validates it on first use.
	Token string `toml:"token"`
	// Logger receives engine debug output. Nil disables logging.
	Logger *zerolog.Logger `toml:"-"`
}

// LoadConfig reads a connection profile from a TOML file. Keys absent from
// the file keep their zero value; unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("load connection profile: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load connection profile: unknown key %q", undecoded[0].String())
	}

	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.Namespace = strings.TrimSpace(cfg.Namespace)
	cfg.Database = strings.TrimSpace(cfg.Database)
	cfg.Token = strings.TrimSpace(cfg.Token)
	return &cfg, nil
}
