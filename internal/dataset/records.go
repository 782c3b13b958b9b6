// Package dataset resolves a declarative question catalog against per-file
// metadata, producing parallel question/answer and instruction datasets for
// model training. The catalog drives everything: question order defines
// output order, and a question's id doubles as the metadata field it reads.
package dataset

// QAPair is one question/answer record. A pair is never emitted with an
// empty, whitespace-only, or literal "None" answer.
type QAPair struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// InstructionRecord is the instruction-tuning shape of the same content:
// the question as instruction, the unit's source text as input, and the
// answer as output. Input intentionally has no omitempty so that
// context-suppressed records serialize an explicit empty string.
type InstructionRecord struct {
	Instruction string `json:"instruction" yaml:"instruction"`
	Input       string `json:"input" yaml:"input"`
	Output      string `json:"output" yaml:"output"`
}
