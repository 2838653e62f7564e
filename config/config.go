/*
config.go - Service configuration

PURPOSE:
  Holds process configuration for the compliance server and loads it by
  layering defaults, an optional YAML file, and SHIFTGUARD_* environment
  variables. Later layers win.

KEY CONCEPTS:
  - Config: flat struct with koanf tags; every field has a default
  - Load: defaults -> file (SHIFTGUARD_CONFIG or -config flag) -> env
  - Jurisdiction file: path to threshold overrides, empty means built-in
    defaults

SEE ALSO:
  - factory/jurisdiction.go: consumes JurisdictionFile
  - cmd/server/main.go: flag overrides applied after Load
*/
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration for the compliance server.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file path.
	DBPath string `koanf:"db_path"`

	// JurisdictionFile points at a JSON threshold override file.
	// Empty means the built-in default thresholds.
	JurisdictionFile string `koanf:"jurisdiction_file"`

	// Seed loads the development task catalog and demo workers on start.
	Seed bool `koanf:"seed"`

	// StopOnFirstFailure makes checks short-circuit at the first failing
	// rule instead of evaluating the full registry.
	StopOnFirstFailure bool `koanf:"stop_on_first_failure"`
}

// Defaults returns a Config with every field set to its default value.
func Defaults() Config {
	return Config{
		Addr:   ":8080",
		DBPath: "compliance.db",
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low -> high):
//  1. Defaults()
//  2. YAML file at path (or SHIFTGUARD_CONFIG if path is empty)
//  3. env (prefix SHIFTGUARD_, e.g. SHIFTGUARD_DB_PATH)
func Load(path string) (Config, error) {
	cfg := Defaults()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("SHIFTGUARD_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}

	// SHIFTGUARD_DB_PATH -> db_path, matching the koanf tags above.
	envProvider := env.Provider("SHIFTGUARD_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "shiftguard_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, err
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}

	if cfg.Addr == "" {
		return Config{}, errors.New("addr must not be empty")
	}
	if cfg.DBPath == "" {
		return Config{}, errors.New("db_path must not be empty")
	}
	return cfg, nil
}
