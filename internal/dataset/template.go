package dataset

import (
	"fmt"

	"github.com/slongfield/pyfmt"
)

// Render substitutes {name} placeholders in a Python-style format template.
// Params may carry more keys than the template references; a placeholder with
// no matching key is an error, since it indicates a malformed catalog entry.
func Render(template string, params map[string]interface{}) (string, error) {
	out, err := pyfmt.Fmt(template, params)
	if err != nil {
		return "", fmt.Errorf("render template %q: %w", template, err)
	}
	return out, nil
}
