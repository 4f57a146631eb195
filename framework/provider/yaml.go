package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a Config from a YAML document, keeping document order:
//
//	services:
//	  app.name: billing
//	factories:
//	  mailer: mail.SMTPFactory          # factory class
//	  report: [report.Factory, create]  # class + method
//	aliases:
//	  mail: mailer
//
// Values under services decode to plain Go values (string, int, map, ...).
// Factories declared in YAML are class names, optionally in array form.
func ParseYAML(data []byte) (Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("provider: parse yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return Config{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Config{}, fmt.Errorf("provider: yaml line %d: top level must be a mapping", root.Line)
	}

	var cfg Config
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		var err error
		switch key.Value {
		case KeyServices:
			cfg.Services, err = yamlEntries(key.Value, value)
		case KeyFactories:
			cfg.Factories, err = yamlEntries(key.Value, value)
		case KeyAliases:
			cfg.Aliases, err = yamlAliases(value)
		}
		if err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("provider: %w", err)
	}
	return ParseYAML(data)
}

func yamlEntries(section string, node *yaml.Node) ([]Entry, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("provider: yaml line %d: '%s' must be a mapping", node.Line, section)
	}
	out := make([]Entry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("provider: yaml line %d: %w", node.Content[i+1].Line, err)
		}
		out = append(out, Entry{Name: node.Content[i].Value, Value: value})
	}
	return out, nil
}

func yamlAliases(node *yaml.Node) ([]Alias, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("provider: yaml line %d: '%s' must be a mapping", node.Line, KeyAliases)
	}
	out := make([]Alias, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		target := node.Content[i+1]
		if target.Kind != yaml.ScalarNode || target.ShortTag() == "!!null" {
			return nil, fmt.Errorf("provider: yaml line %d: alias '%s' must map to a service name",
				target.Line, node.Content[i].Value)
		}
		out = append(out, Alias{Name: node.Content[i].Value, Service: target.Value})
	}
	return out, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
