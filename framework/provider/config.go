package provider

import (
	"fmt"
	"sort"
)

// Top-level configuration keys.
const (
	KeyServices  = "services"
	KeyFactories = "factories"
	KeyAliases   = "aliases"
)

// Entry is one named value of the services or factories section.
type Entry struct {
	Name  string
	Value any
}

// Alias maps Name onto the service named Service.
type Alias struct {
	Name    string
	Service string
}

// FactoryRef is the typed array form of a factory declaration:
// Factory is a class name (string) or a factory value, Method the method to
// invoke on it.
type FactoryRef struct {
	Factory any
	Method  string
}

// Config is the declarative input of a ConfigServiceProvider. Sections keep
// their order; absent sections are empty.
type Config struct {
	Services  []Entry
	Factories []Entry
	Aliases   []Alias
}

// Empty reports whether every section is empty.
func (c Config) Empty() bool {
	return len(c.Services) == 0 && len(c.Factories) == 0 && len(c.Aliases) == 0
}

// clone copies the section slices so the caller cannot mutate them later.
func (c Config) clone() Config {
	return Config{
		Services:  append([]Entry(nil), c.Services...),
		Factories: append([]Entry(nil), c.Factories...),
		Aliases:   append([]Alias(nil), c.Aliases...),
	}
}

// FromMap builds a Config from a nested map. Go maps are unordered, so
// entries of each section are sorted by name. Unknown top-level keys are
// ignored.
//
//	cfg, err := provider.FromMap(map[string]any{
//	    "services":  map[string]any{"config": appConfig},
//	    "factories": map[string]any{"mailer": "mail.SMTPFactory"},
//	    "aliases":   map[string]string{"mail": "mailer"},
//	})
func FromMap(m map[string]any) (Config, error) {
	var cfg Config
	var err error

	if cfg.Services, err = entries(m, KeyServices); err != nil {
		return Config{}, err
	}
	if cfg.Factories, err = entries(m, KeyFactories); err != nil {
		return Config{}, err
	}

	raw, ok := m[KeyAliases]
	if !ok || raw == nil {
		return cfg, nil
	}
	switch aliases := raw.(type) {
	case map[string]string:
		for _, name := range sortedKeys(aliases) {
			cfg.Aliases = append(cfg.Aliases, Alias{Name: name, Service: aliases[name]})
		}
	case map[string]any:
		for _, name := range sortedKeys(aliases) {
			target, ok := aliases[name].(string)
			if !ok {
				return Config{}, fmt.Errorf("provider: alias '%s' must map to a service name, got %T", name, aliases[name])
			}
			cfg.Aliases = append(cfg.Aliases, Alias{Name: name, Service: target})
		}
	default:
		return Config{}, fmt.Errorf("provider: '%s' must be a map, got %T", KeyAliases, raw)
	}
	return cfg, nil
}

func entries(m map[string]any, key string) ([]Entry, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	section, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("provider: '%s' must be a map, got %T", key, raw)
	}
	out := make([]Entry, 0, len(section))
	for _, name := range sortedKeys(section) {
		out = append(out, Entry{Name: name, Value: section[name]})
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
