package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"code2dataset/internal/capability"
	"code2dataset/internal/metadata"
)

const (
	graphSuffix   = "code_graph"
	purposeSuffix = "purpose"
)

// GeneratorConfig wires one file's worth of inputs into a Generator.
type GeneratorConfig struct {
	// BaseName is the dotted relative path of the source file, substituted
	// for {filename} in every question template.
	BaseName string
	Details  *metadata.FileDetails
	Catalog  []Question

	// Capability enables model delegation for purpose-kind questions when
	// non-nil. PromptTemplate must then accept {context} and {query}.
	Capability     capability.Capability
	PromptTemplate string

	Logger *zap.Logger
}

// Generator resolves every catalog question against one file's metadata and
// accumulates the resulting QA and instruction records. The two sequences
// stay in 1:1 correspondence: every accepted answer appends to both.
type Generator struct {
	baseName string
	details  *metadata.FileDetails
	catalog  []Question

	cap            capability.Capability
	promptTemplate string

	log *zap.Logger

	qa       []QAPair
	instruct []InstructionRecord
}

// NewGenerator builds a Generator for a single file.
func NewGenerator(cfg GeneratorConfig) *Generator {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		baseName:       cfg.BaseName,
		details:        cfg.Details,
		catalog:        cfg.Catalog,
		cap:            cfg.Capability,
		promptTemplate: cfg.PromptTemplate,
		log:            log,
	}
}

// Generate visits every catalog question in order and, within a question,
// every matching unit in metadata order. It returns the accumulated QA and
// instruction sequences.
func (g *Generator) Generate(ctx context.Context) ([]QAPair, []InstructionRecord, error) {
	for _, q := range g.catalog {
		var err error
		switch q.Type {
		case QuestionFile:
			err = g.processFileQuestion(ctx, q)
		case QuestionFunction:
			err = g.processFunctionQuestion(ctx, q)
		case QuestionClass:
			err = g.processClassQuestion(ctx, q)
		case QuestionMethod:
			err = g.processMethodQuestion(ctx, q)
		default:
			err = fmt.Errorf("question %q: unknown type %q", q.ID, q.Type)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	return g.qa, g.instruct, nil
}

func (g *Generator) processFileQuestion(ctx context.Context, q Question) error {
	query, err := Render(q.Text, map[string]interface{}{"filename": g.baseName})
	if err != nil {
		return err
	}
	info := &g.details.FileInfo
	return g.resolve(ctx, q, query, info.Code(), info)
}

func (g *Generator) processFunctionQuestion(ctx context.Context, q Question) error {
	for i := range g.details.Functions {
		fn := &g.details.Functions[i]
		params := map[string]interface{}{
			"filename":      g.baseName,
			"function_name": fn.Name,
		}
		if err := g.processUnitQuestion(ctx, q, "function", params, fn); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) processClassQuestion(ctx context.Context, q Question) error {
	for i := range g.details.Classes {
		cls := &g.details.Classes[i]
		params := map[string]interface{}{
			"filename":   g.baseName,
			"class_name": cls.Name,
		}
		if err := g.processUnitQuestion(ctx, q, "class", params, cls); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) processMethodQuestion(ctx context.Context, q Question) error {
	for i := range g.details.Classes {
		cls := &g.details.Classes[i]
		for j := range cls.Methods {
			m := &cls.Methods[j]
			params := map[string]interface{}{
				"filename":    g.baseName,
				"class_name":  cls.Name,
				"method_name": m.Name,
			}
			if err := g.processUnitQuestion(ctx, q, "method", params, m); err != nil {
				return err
			}
		}
	}
	return nil
}

// processUnitQuestion handles one (question, unit) pair, routing
// variable-purpose questions through the expansion protocol.
func (g *Generator) processUnitQuestion(ctx context.Context, q Question, kind string, params map[string]interface{}, unit metadata.Unit) error {
	if q.ID == kind+"_variable_purpose" {
		// Variable-purpose questions only make sense as model delegations;
		// without a capability they are skipped entirely.
		if g.cap == nil {
			return nil
		}
		return g.expandVariables(ctx, q, kind, params, unit)
	}
	query, err := Render(q.Text, params)
	if err != nil {
		return err
	}
	return g.resolve(ctx, q, query, unit.Code(), unit)
}

// expandVariables resolves one sub-question per distinct variable of the
// unit, substituting each item into the {<kind>_variable} placeholder.
func (g *Generator) expandVariables(ctx context.Context, q Question, kind string, params map[string]interface{}, unit metadata.Unit) error {
	raw, ok := unit.Field(kind + "_variables")
	if !ok {
		return nil
	}
	for _, item := range SplitElements(CleanUniqueElements(stringify(raw))) {
		itemParams := make(map[string]interface{}, len(params)+1)
		for k, v := range params {
			itemParams[k] = v
		}
		itemParams[kind+"_variable"] = item
		query, err := Render(q.Text, itemParams)
		if err != nil {
			return err
		}
		if err := g.resolve(ctx, q, query, unit.Code(), unit); err != nil {
			return err
		}
	}
	return nil
}

// resolve is the question resolution engine: it derives the answer for one
// rendered query and emits the record pair if the answer survives the
// emission rules.
func (g *Generator) resolve(ctx context.Context, q Question, query, input string, unit metadata.Unit) error {
	var answer string
	switch {
	case strings.HasSuffix(q.ID, graphSuffix):
		// Graph answers bypass cleaning and delegation; the stored structure
		// is carried through as-is, serialized only at emission.
		value, ok := unit.Field(q.ID)
		if !ok || value == nil {
			return nil
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("question %q: encode graph: %w", q.ID, err)
		}
		answer = string(data)

	case g.cap != nil && strings.HasSuffix(q.ID, purposeSuffix):
		response, err := g.delegate(ctx, query, input)
		if err != nil {
			return fmt.Errorf("question %q: model delegation: %w", q.ID, err)
		}
		answer = response

	default:
		value, ok := unit.Field(q.ID)
		if !ok {
			return nil
		}
		answer = CleanUniqueElements(stringify(value))
	}

	g.emit(query, input, answer)
	return nil
}

// delegate renders the prompt template with the unit's source text and the
// rendered query, then invokes the model capability.
func (g *Generator) delegate(ctx context.Context, query, input string) (string, error) {
	prompt, err := Render(g.promptTemplate, map[string]interface{}{
		"context": input,
		"query":   query,
	})
	if err != nil {
		return "", err
	}
	g.log.Debug("delegating question to model",
		zap.String("capability", g.cap.Name()),
		zap.String("query", query))
	response, err := g.cap.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	g.log.Debug("model response received",
		zap.String("query", query),
		zap.Int("response_len", len(response)))
	return response, nil
}

// emit appends the record pair unless the answer is empty, whitespace-only,
// or the literal string "None".
func (g *Generator) emit(query, input, answer string) {
	answer = strings.TrimSpace(answer)
	if answer == "" || answer == "None" {
		return
	}
	g.qa = append(g.qa, QAPair{Question: query, Answer: answer})
	g.instruct = append(g.instruct, InstructionRecord{Instruction: query, Input: input, Output: answer})
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
