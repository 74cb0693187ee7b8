package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a registry file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON. Values must be strings or null.
func LoadFile(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("registry file path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var values map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &values)
	default:
		err = json.Unmarshal(raw, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}

	tokens, err := tokensFromValues(values)
	if err != nil {
		return nil, fmt.Errorf("registry file %s: %w", path, err)
	}
	return New(path, tokens)
}

func tokensFromValues(values map[string]any) (map[string]string, error) {
	tokens := make(map[string]string, len(values))
	for name, value := range values {
		switch v := value.(type) {
		case nil:
			tokens[name] = ""
		case string:
			tokens[name] = v
		default:
			return nil, fmt.Errorf("token for %q must be a string, got %T", name, value)
		}
	}
	return tokens, nil
}
