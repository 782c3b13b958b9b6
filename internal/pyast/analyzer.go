// Package pyast extracts per-file metadata from Python source using
// Tree-sitter. It is the static-analysis collaborator feeding the question
// resolution engine; the engine itself never parses source code.
package pyast

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"go.uber.org/zap"

	"code2dataset/internal/metadata"
)

// Analyzer parses Python source files into metadata.FileDetails.
// An Analyzer is not safe for concurrent use; create one per goroutine.
type Analyzer struct {
	parser *sitter.Parser
	log    *zap.Logger
}

// NewAnalyzer creates a Python analyzer.
func NewAnalyzer(log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Analyzer{parser: parser, log: log}
}

// Analyze parses content and extracts file, function, class, and method
// facts plus the two code-reference graphs.
func (a *Analyzer) Analyze(ctx context.Context, path string, content []byte) (*metadata.FileDetails, error) {
	tree, err := a.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		a.log.Warn("source has syntax errors, extracting what parses", zap.String("path", path))
	}

	details := &metadata.FileDetails{
		FileInfo: metadata.FileInfo{FileCode: string(content)},
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "import_statement", "import_from_statement":
			details.FileInfo.FileDependencies = append(details.FileInfo.FileDependencies,
				importedModules(child, content)...)

		case "function_definition":
			details.Functions = append(details.Functions, a.extractFunction(child, child, content))

		case "class_definition":
			details.Classes = append(details.Classes, a.extractClass(child, child, content))

		case "decorated_definition":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				inner := child.NamedChild(j)
				switch inner.Type() {
				case "function_definition":
					details.Functions = append(details.Functions, a.extractFunction(inner, child, content))
				case "class_definition":
					details.Classes = append(details.Classes, a.extractClass(inner, child, content))
				}
			}
		}
	}

	for _, fn := range details.Functions {
		details.FileInfo.FileFunctions = append(details.FileInfo.FileFunctions, fn.Name)
	}
	for _, cls := range details.Classes {
		details.FileInfo.FileClasses = append(details.FileInfo.FileClasses, cls.Name)
	}

	internal, entire := buildGraphs(details)
	details.FileInfo.InternalGraph = internal
	details.FileInfo.EntireGraph = entire

	a.log.Debug("analyzed file",
		zap.String("path", path),
		zap.Int("functions", len(details.Functions)),
		zap.Int("classes", len(details.Classes)))
	return details, nil
}

// extractFunction pulls facts from a function definition. outer differs from
// node for decorated functions so the code includes the decorators.
func (a *Analyzer) extractFunction(node, outer *sitter.Node, content []byte) metadata.Function {
	name := fieldText(node, "name", content)
	body := node.ChildByFieldName("body")
	return metadata.Function{
		Name:              name,
		FunctionCode:      text(outer, content),
		FunctionDocstring: docstring(body, content),
		FunctionInputs:    parameterNames(node, content),
		FunctionReturns:   returnExpressions(body, content),
		FunctionCalls:     callTargets(body, content),
		FunctionVariables: assignedNames(body, content),
	}
}

func (a *Analyzer) extractMethod(node, outer *sitter.Node, content []byte) metadata.Method {
	body := node.ChildByFieldName("body")
	return metadata.Method{
		Name:            fieldText(node, "name", content),
		MethodCode:      text(outer, content),
		MethodDocstring: docstring(body, content),
		MethodInputs:    parameterNames(node, content),
		MethodReturns:   returnExpressions(body, content),
		MethodCalls:     callTargets(body, content),
		MethodVariables: assignedNames(body, content),
	}
}

func (a *Analyzer) extractClass(node, outer *sitter.Node, content []byte) metadata.Class {
	cls := metadata.Class{
		Name:             fieldText(node, "name", content),
		ClassCode:        text(outer, content),
		ClassInheritance: superclassNames(node, content),
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	cls.ClassDocstring = docstring(body, content)
	cls.ClassVariables = assignedNamesShallow(body, content)

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "function_definition":
			cls.Methods = append(cls.Methods, a.extractMethod(child, child, content))
		case "decorated_definition":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				inner := child.NamedChild(j)
				if inner.Type() == "function_definition" {
					cls.Methods = append(cls.Methods, a.extractMethod(inner, child, content))
				}
			}
		}
	}

	for _, m := range cls.Methods {
		cls.ClassMethods = append(cls.ClassMethods, m.Name)
	}
	cls.ClassAttributes = selfAttributes(body, content)
	return cls
}

// buildGraphs derives the two code-reference graphs. The internal graph
// keeps only edges between units defined in the file; the entire graph also
// includes external call targets as nodes.
func buildGraphs(details *metadata.FileDetails) (*metadata.CodeGraph, *metadata.CodeGraph) {
	returnsByName := make(map[string][]string)
	inputsByName := make(map[string][]string)

	var defined []string
	for _, fn := range details.Functions {
		defined = append(defined, fn.Name)
		returnsByName[fn.Name] = fn.FunctionReturns
		inputsByName[fn.Name] = fn.FunctionInputs
	}
	for _, cls := range details.Classes {
		defined = append(defined, cls.Name)
	}

	type caller struct {
		name  string
		calls []string
	}
	var callers []caller
	for _, fn := range details.Functions {
		callers = append(callers, caller{fn.Name, fn.FunctionCalls})
	}
	for _, cls := range details.Classes {
		var all []string
		for _, m := range cls.Methods {
			all = append(all, m.MethodCalls...)
		}
		callers = append(callers, caller{cls.Name, all})
	}

	internal := &metadata.CodeGraph{Nodes: append([]string(nil), defined...)}
	entire := &metadata.CodeGraph{Nodes: append([]string(nil), defined...)}

	definedSet := make(map[string]struct{}, len(defined))
	for _, n := range defined {
		definedSet[n] = struct{}{}
	}
	entireSet := make(map[string]struct{}, len(defined))
	for _, n := range defined {
		entireSet[n] = struct{}{}
	}

	edge := func(source, target string) metadata.GraphEdge {
		return metadata.GraphEdge{
			Source:        source,
			Target:        target,
			TargetInputs:  inputsByName[target],
			TargetReturns: returnsByName[target],
		}
	}

	type pair struct{ source, target string }
	seenInternal := make(map[pair]struct{})
	seenEntire := make(map[pair]struct{})

	for _, c := range callers {
		for _, target := range c.calls {
			target = baseCallName(target)
			if target == "" || target == c.name {
				continue
			}
			p := pair{c.name, target}
			if _, dup := seenEntire[p]; !dup {
				seenEntire[p] = struct{}{}
				if _, known := entireSet[target]; !known {
					entireSet[target] = struct{}{}
					entire.Nodes = append(entire.Nodes, target)
				}
				entire.Edges = append(entire.Edges, edge(c.name, target))
			}
			if _, ok := definedSet[target]; !ok {
				continue
			}
			if _, dup := seenInternal[p]; dup {
				continue
			}
			seenInternal[p] = struct{}{}
			internal.Edges = append(internal.Edges, edge(c.name, target))
		}
	}
	return internal, entire
}

// baseCallName reduces a call target expression to its leading identifier
// chain, dropping a self. prefix so method calls link to the class scope.
func baseCallName(target string) string {
	target = strings.TrimSpace(target)
	target = strings.TrimPrefix(target, "self.")
	if idx := strings.IndexAny(target, "(["); idx >= 0 {
		target = target[:idx]
	}
	return target
}
