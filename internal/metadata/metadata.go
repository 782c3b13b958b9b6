// Package metadata defines the typed per-unit metadata model consumed by the
// question resolution engine. Each unit kind (file, function, class, method)
// carries named fields for the question ids the engine recognizes, plus an
// Extra map so analyzers can attach fields the engine does not know about.
package metadata

// Unit is a resolution target: a file, function, class, or method.
// Field looks up a value by question id; the second return is false when the
// unit has no value for that id.
type Unit interface {
	Field(id string) (any, bool)
	Code() string
}

// FileDetails holds everything extracted from one source file.
// Functions and Classes are slices so that source order is preserved all the
// way through question resolution.
type FileDetails struct {
	FileInfo  FileInfo   `json:"file_info" yaml:"file_info"`
	Functions []Function `json:"functions" yaml:"functions"`
	Classes   []Class    `json:"classes" yaml:"classes"`
}

// FileInfo holds whole-file facts.
type FileInfo struct {
	FileCode         string     `json:"file_code" yaml:"file_code"`
	FileDependencies []string   `json:"file_dependencies" yaml:"file_dependencies"`
	FileFunctions    []string   `json:"file_functions" yaml:"file_functions"`
	FileClasses      []string   `json:"file_classes" yaml:"file_classes"`
	FilePurpose      string     `json:"file_purpose,omitempty" yaml:"file_purpose,omitempty"`
	InternalGraph    *CodeGraph `json:"internal_code_graph,omitempty" yaml:"internal_code_graph,omitempty"`
	EntireGraph      *CodeGraph `json:"entire_code_graph,omitempty" yaml:"entire_code_graph,omitempty"`

	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Function holds per-function facts.
type Function struct {
	Name              string   `json:"name" yaml:"name"`
	FunctionCode      string   `json:"function_code" yaml:"function_code"`
	FunctionDocstring string   `json:"function_docstring" yaml:"function_docstring"`
	FunctionInputs    []string `json:"function_inputs" yaml:"function_inputs"`
	FunctionReturns   []string `json:"function_returns" yaml:"function_returns"`
	FunctionCalls     []string `json:"function_calls" yaml:"function_calls"`
	FunctionVariables []string `json:"function_variables" yaml:"function_variables"`
	FunctionPurpose   string   `json:"function_purpose,omitempty" yaml:"function_purpose,omitempty"`

	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Class holds per-class facts. Methods keep source order.
type Class struct {
	Name             string   `json:"name" yaml:"name"`
	ClassCode        string   `json:"class_code" yaml:"class_code"`
	ClassDocstring   string   `json:"class_docstring" yaml:"class_docstring"`
	ClassAttributes  []string `json:"class_attributes" yaml:"class_attributes"`
	ClassMethods     []string `json:"class_methods" yaml:"class_methods"`
	ClassVariables   []string `json:"class_variables" yaml:"class_variables"`
	ClassInheritance []string `json:"class_inheritance" yaml:"class_inheritance"`
	ClassPurpose     string   `json:"class_purpose,omitempty" yaml:"class_purpose,omitempty"`
	Methods          []Method `json:"methods" yaml:"methods"`

	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Method holds per-method facts.
type Method struct {
	Name            string   `json:"name" yaml:"name"`
	MethodCode      string   `json:"method_code" yaml:"method_code"`
	MethodDocstring string   `json:"method_docstring" yaml:"method_docstring"`
	MethodInputs    []string `json:"method_inputs" yaml:"method_inputs"`
	MethodReturns   []string `json:"method_returns" yaml:"method_returns"`
	MethodCalls     []string `json:"method_calls" yaml:"method_calls"`
	MethodVariables []string `json:"method_variables" yaml:"method_variables"`
	MethodPurpose   string   `json:"method_purpose,omitempty" yaml:"method_purpose,omitempty"`

	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// CodeGraph is the code-reference graph attached to a file. It is returned
// verbatim for graph-kind questions and rendered externally; the engine never
// interprets it.
type CodeGraph struct {
	Nodes []string    `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

// GraphEdge is a directed call edge between two graph nodes.
type GraphEdge struct {
	Source        string   `json:"source" yaml:"source"`
	Target        string   `json:"target" yaml:"target"`
	TargetInputs  []string `json:"target_input,omitempty" yaml:"target_input,omitempty"`
	TargetReturns []string `json:"target_returns,omitempty" yaml:"target_returns,omitempty"`
}

func (f *FileInfo) Field(id string) (any, bool) {
	switch id {
	case "file_code":
		return f.FileCode, true
	case "file_purpose":
		return f.FilePurpose, true
	case "file_dependencies":
		return joined(f.FileDependencies)
	case "file_functions":
		return joined(f.FileFunctions)
	case "file_classes":
		return joined(f.FileClasses)
	case "internal_code_graph":
		if f.InternalGraph == nil {
			return nil, false
		}
		return f.InternalGraph, true
	case "entire_code_graph":
		if f.EntireGraph == nil {
			return nil, false
		}
		return f.EntireGraph, true
	}
	return extra(f.Extra, id)
}

func (f *FileInfo) Code() string { return f.FileCode }

func (f *Function) Field(id string) (any, bool) {
	switch id {
	case "function_code":
		return f.FunctionCode, true
	case "function_purpose":
		return f.FunctionPurpose, true
	case "function_docstring":
		return f.FunctionDocstring, true
	case "function_inputs":
		return joined(f.FunctionInputs)
	case "function_returns":
		return joined(f.FunctionReturns)
	case "function_calls":
		return joined(f.FunctionCalls)
	case "function_variables":
		return joined(f.FunctionVariables)
	}
	return extra(f.Extra, id)
}

func (f *Function) Code() string { return f.FunctionCode }

func (c *Class) Field(id string) (any, bool) {
	switch id {
	case "class_code":
		return c.ClassCode, true
	case "class_purpose":
		return c.ClassPurpose, true
	case "class_docstring":
		return c.ClassDocstring, true
	case "class_attributes":
		return joined(c.ClassAttributes)
	case "class_methods":
		return joined(c.ClassMethods)
	case "class_variables":
		return joined(c.ClassVariables)
	case "class_inheritance":
		return joined(c.ClassInheritance)
	}
	return extra(c.Extra, id)
}

func (c *Class) Code() string { return c.ClassCode }

func (m *Method) Field(id string) (any, bool) {
	switch id {
	case "method_code":
		return m.MethodCode, true
	case "method_purpose":
		return m.MethodPurpose, true
	case "method_docstring":
		return m.MethodDocstring, true
	case "method_inputs":
		return joined(m.MethodInputs)
	case "method_returns":
		return joined(m.MethodReturns)
	case "method_calls":
		return joined(m.MethodCalls)
	case "method_variables":
		return joined(m.MethodVariables)
	}
	return extra(m.Extra, id)
}

func (m *Method) Code() string { return m.MethodCode }

func joined(items []string) (any, bool) {
	if len(items) == 0 {
		return nil, false
	}
	out := items[0]
	for _, it := range items[1:] {
		out += ", " + it
	}
	return out, true
}

func extra(m map[string]any, id string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[id]
	return v, ok
}
