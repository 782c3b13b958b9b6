package capability

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelConfig mirrors the model configuration file.
type ModelConfig struct {
	InferenceModel *InferenceModel `yaml:"inference_model"`
	PromptTemplate string          `yaml:"prompt_template"`
}

// InferenceModel declares which backend to instantiate and with what
// parameters. ModelImportPath identifies a registered backend (its last
// dotted segment is matched case-insensitively, so legacy dotted paths keep
// working). ModelParams must include model_path.
type InferenceModel struct {
	ModelImportPath string `yaml:"model_import_path"`
	ModelParams     Params `yaml:"model_params"`
}

// Params holds backend construction parameters.
type Params map[string]any

// String returns the parameter as a string, or "" when absent.
func (p Params) String(key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// Float returns the parameter as a float64, or def when absent or not
// numeric.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Int returns the parameter as an int, or def when absent or not numeric.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// LoadModelConfig reads a model configuration YAML file. A missing or
// malformed file is an error the caller recovers from by disabling
// delegation; it never aborts a run.
func LoadModelConfig(path string) (*ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model config: %w", err)
	}
	var cfg ModelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse model config %s: %w", path, err)
	}
	if cfg.InferenceModel == nil {
		return nil, fmt.Errorf("model config %s: missing inference_model section", path)
	}
	return &cfg, nil
}
