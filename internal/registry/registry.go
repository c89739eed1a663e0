// Package registry holds the static event table: lowercase event key to
// canonical event definition. Loaded once at startup, never mutated.
package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leshachaplin/convgate/internal/domain"
)

type Registry struct {
	defs map[string]domain.EventDefinition
}

func New(defs []domain.EventDefinition) *Registry {
	m := make(map[string]domain.EventDefinition, len(defs))
	for _, def := range defs {
		def.Key = strings.ToLower(strings.TrimSpace(def.Key))
		if def.Key == "" || def.Name == "" {
			continue
		}
		m[def.Key] = def
	}
	return &Registry{defs: m}
}

// Default is the built-in table used when no registry file is configured.
func Default() *Registry {
	return New([]domain.EventDefinition{
		{Key: "lead_telegram", Name: "Lead_Telegram"},
		{Key: "registro_casa", Name: "Registro_Casa"},
		{Key: "grupo_telegram", Name: "Grupo_Telegram"},
		{
			Key:  "bilhete_mgm",
			Name: "Bilhete_MGM",
			Extra: map[string]string{
				"origem":  "telegram",
				"produto": "bilhete_mgm",
			},
		},
		{Key: "reg", Name: "registro_vupibet"},
		{Key: "ftd", Name: "ftd_vupibet", ValueBearing: true},
	})
}

type registryFile struct {
	Events []domain.EventDefinition `yaml:"events"`
}

// Load reads a YAML registry file. The file replaces the built-in defaults
// wholesale; an empty or key-less file is an error rather than an empty
// registry, since a gateway that maps nothing is a misconfiguration.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}

	r := New(f.Events)
	if r.Len() == 0 {
		return nil, fmt.Errorf("registry file %s defines no usable events", path)
	}
	return r, nil
}

// Lookup finds the definition for an exact lowercase key.
func (r *Registry) Lookup(key string) (domain.EventDefinition, bool) {
	def, ok := r.defs[key]
	return def, ok
}

func (r *Registry) Len() int {
	return len(r.defs)
}
