package capability

import (
	"fmt"
	"strings"
	"sync"
)

// Factory constructs a backend from its declared parameters.
type Factory func(params Params) (Capability, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a backend factory under an identifier. Built-in backends
// register themselves at startup; tests register fakes.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// lookup matches an import path against the registry: the full path first,
// then its last dotted segment. "genai.Gemini" and "gemini" both resolve to
// the gemini backend.
func lookup(importPath string) (Factory, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if f, ok := registry[strings.ToLower(importPath)]; ok {
		return f, nil
	}
	if idx := strings.LastIndex(importPath, "."); idx >= 0 {
		if f, ok := registry[strings.ToLower(importPath[idx+1:])]; ok {
			return f, nil
		}
	}
	return nil, fmt.Errorf("no registered capability matches %q", importPath)
}

// New resolves and instantiates the backend declared by cfg. Both failure
// classes (unrecognized identifier, construction failure) surface as errors;
// callers must treat an error as "delegation unsupported" and continue with
// the capability disabled.
func New(cfg *ModelConfig) (Capability, error) {
	if cfg == nil || cfg.InferenceModel == nil {
		return nil, fmt.Errorf("no inference model configured")
	}
	im := cfg.InferenceModel
	if im.ModelParams.String("model_path") == "" {
		return nil, fmt.Errorf("model_params: model_path is required")
	}

	factory, err := lookup(im.ModelImportPath)
	if err != nil {
		return nil, err
	}
	handle, err := factory(im.ModelParams)
	if err != nil {
		return nil, fmt.Errorf("instantiate %q: %w", im.ModelImportPath, err)
	}
	return handle, nil
}

func init() {
	Register("gemini", NewGemini)
	Register("openai", NewOpenAI)
}
