// Package config assembles the process configuration: hardcoded defaults,
// then an optional YAML file (path in CONVGATE_CONFIG), then environment
// overrides. Env keys use CONVGATE_ as prefix and a double underscore as the
// section separator, e.g. CONVGATE_SINK__ACCESS_TOKEN -> sink.access_token.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/leshachaplin/convgate/internal/dispatch/meta"
)

const envPrefix = "CONVGATE_"

// Config is the main config for the application.
type Config struct {
	Addr                string      `koanf:"addr"`
	LogLevel            string      `koanf:"log_level"`
	RegistryPath        string      `koanf:"registry_path"`
	DefaultActionSource string      `koanf:"default_action_source"`
	DefaultCurrency     string      `koanf:"default_currency"`
	Sink                meta.Config `koanf:"sink"`
}

func Load() (Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"addr":                  ":8080",
		"log_level":             "INFO",
		"default_action_source": "chat",
		"default_currency":      "BRL",
		"sink.api_version":      "v20.0",
		"sink.base_url":         "https://graph.facebook.com",
		"sink.timeout":          "10s",
		"sink.retry_max":        0,
	}
	for key, value := range defaults {
		_ = k.Set(key, value)
	}

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}

	_ = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
