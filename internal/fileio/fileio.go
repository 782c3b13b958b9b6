// Package fileio reads and writes dataset artifacts as JSON or YAML,
// dispatching on the file extension so collections stay interchangeable
// between the two serializations.
package fileio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Read decodes the file at path into target. The format is chosen by
// extension: .json, .yaml, or .yml.
func Read(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext(path) {
	case "json":
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported file type: %s", path)
	}
	return nil
}

// Write encodes value to path, creating parent directories as needed.
// JSON output is indented; YAML output keeps field order.
func Write(path string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var data []byte
	var err error
	switch ext(path) {
	case "json":
		data, err = json.MarshalIndent(value, "", "    ")
	case "yaml", "yml":
		data, err = yaml.Marshal(value)
	default:
		return fmt.Errorf("unsupported file type: %s", path)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}

func ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
