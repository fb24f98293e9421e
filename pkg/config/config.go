// Package config loads the server's workspace settings from defaults, an
// optional yaml file, and environment variables, in that order.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gitlab.com/tozd/go/errors"
)

// Config holds the settings the server needs to index a workspace.
type Config struct {
	// Globs select the files scanned for step definitions, relative to the
	// workspace root. Files whose extension maps to no supported language
	// are skipped, so broad globs are fine.
	Globs []string `koanf:"globs"`

	// ParameterTypes maps custom parameter-type names to the regexps that
	// recognize them, registered with the expression engine before any step
	// expression is compiled.
	ParameterTypes map[string][]string `koanf:"parameter_types"`
}

const envPrefix = "CUCUMBER_LS_"

var defaultGlobs = []string{
	"features/**/*",
	"src/test/**/*",
	"tests/**/*",
}

// Load layers path (yaml, optional) over defaults and CUCUMBER_LS_*
// environment variables over both.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"globs": defaultGlobs,
	}, "."), nil); err != nil {
		return nil, errors.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, errors.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
