package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadVars reads a YAML mapping of extra template variables.
// An empty path returns an empty map.
func LoadVars(path string) (map[string]any, error) {
	vars := map[string]any{}
	if path == "" {
		return vars, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vars file: %w", err)
	}

	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("parsing vars file %s: %w", path, err)
	}
	if vars == nil {
		vars = map[string]any{}
	}

	return vars, nil
}
