// Package capability resolves and instantiates the generative-model backend
// used for delegated answers. Backends are selected through an explicit
// registry of recognized identifiers rather than dynamic symbol resolution;
// a configuration that names no registered backend yields no capability, and
// callers degrade to metadata-only answers.
package capability

import "context"

// Capability is the narrow handle the resolution engine invokes: one
// rendered prompt in, one response string out.
type Capability interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
