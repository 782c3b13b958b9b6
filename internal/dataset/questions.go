package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"code2dataset/internal/fileio"
)

// QuestionType selects which units of a file a question applies to.
type QuestionType string

const (
	QuestionFile     QuestionType = "file"
	QuestionFunction QuestionType = "function"
	QuestionClass    QuestionType = "class"
	QuestionMethod   QuestionType = "method"
)

// Question is one entry of the question catalog. ID is used verbatim as the
// metadata field key; by convention ids ending in "purpose" may be delegated
// to a model capability and ids ending in "code_graph" return the stored
// structure verbatim. Text is a Python-style format template.
type Question struct {
	ID   string       `json:"id" yaml:"id"`
	Text string       `json:"text" yaml:"text"`
	Type QuestionType `json:"type" yaml:"type"`
}

// defaultCatalog is the built-in question catalog, baked into the binary so
// the tool works without any configuration files on disk.
//
//go:embed questions.json
var defaultCatalog []byte

// DefaultCatalog returns the embedded question catalog.
func DefaultCatalog() []Question {
	var questions []Question
	// The embedded catalog is validated by tests; a decode failure here is a
	// build defect, not a runtime condition.
	if err := json.Unmarshal(defaultCatalog, &questions); err != nil {
		panic(fmt.Sprintf("embedded question catalog invalid: %v", err))
	}
	return questions
}

// LoadCatalog reads and validates a question catalog from a JSON or YAML
// file. A malformed catalog fails fast rather than producing a silently
// incomplete dataset.
func LoadCatalog(path string) ([]Question, error) {
	var questions []Question
	if err := fileio.Read(path, &questions); err != nil {
		return nil, fmt.Errorf("load question catalog: %w", err)
	}
	if err := ValidateCatalog(questions); err != nil {
		return nil, fmt.Errorf("question catalog %s: %w", path, err)
	}
	return questions, nil
}

// ValidateCatalog checks every catalog entry for the required fields and a
// recognized question type.
func ValidateCatalog(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	for i, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("question %d: missing id", i)
		}
		if q.Text == "" {
			return fmt.Errorf("question %q: missing text", q.ID)
		}
		switch q.Type {
		case QuestionFile, QuestionFunction, QuestionClass, QuestionMethod:
		default:
			return fmt.Errorf("question %q: unknown type %q", q.ID, q.Type)
		}
	}
	return nil
}
