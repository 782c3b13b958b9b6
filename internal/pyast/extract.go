package pyast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

func text(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return string(content[node.StartByte():node.EndByte()])
}

func fieldText(node *sitter.Node, field string, content []byte) string {
	return text(node.ChildByFieldName(field), content)
}

// docstring returns the unquoted leading string literal of a body block, or
// "" when the block does not start with one.
func docstring(body *sitter.Node, content []byte) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return unquote(text(str, content))
}

func unquote(s string) string {
	for _, prefix := range []string{"r", "R", "b", "B", "f", "F", "u", "U"} {
		s = strings.TrimPrefix(s, prefix)
	}
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return strings.TrimSpace(s)
}

// parameterNames returns the declared parameter names of a function
// definition, including splat parameters, without type hints or defaults.
func parameterNames(fn *sitter.Node, content []byte) []string {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			names = append(names, text(p, content))
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			if id := firstIdentifier(p); id != nil {
				names = append(names, text(id, content))
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			names = append(names, text(p, content))
		}
	}
	return names
}

func firstIdentifier(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "identifier" {
			return child
		}
	}
	return nil
}

// returnExpressions collects the expression text of every return statement
// in a body, depth-first.
func returnExpressions(body *sitter.Node, content []byte) []string {
	var returns []string
	walk(body, func(n *sitter.Node) bool {
		if n.Type() != "return_statement" {
			return true
		}
		if n.NamedChildCount() > 0 {
			returns = append(returns, text(n.NamedChild(0), content))
		}
		return true
	})
	return returns
}

// callTargets collects the callee expression of every call in a body.
func callTargets(body *sitter.Node, content []byte) []string {
	var calls []string
	walk(body, func(n *sitter.Node) bool {
		if n.Type() == "call" {
			if fn := n.ChildByFieldName("function"); fn != nil {
				calls = append(calls, text(fn, content))
			}
		}
		return true
	})
	return calls
}

// assignedNames collects the left-hand names of every assignment in a body,
// depth-first, deduplicated in first-seen order.
func assignedNames(body *sitter.Node, content []byte) []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	walk(body, func(n *sitter.Node) bool {
		switch n.Type() {
		case "assignment", "augmented_assignment":
			if left := n.ChildByFieldName("left"); left != nil {
				for _, name := range strings.Split(text(left, content), ",") {
					add(name)
				}
			}
		case "for_statement":
			if left := n.ChildByFieldName("left"); left != nil {
				for _, name := range strings.Split(text(left, content), ",") {
					add(name)
				}
			}
		}
		return true
	})
	return names
}

// assignedNamesShallow collects assignment targets directly in a block,
// without descending into nested definitions. Used for class-level
// variables.
func assignedNamesShallow(body *sitter.Node, content []byte) []string {
	var names []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "expression_statement" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			expr := child.NamedChild(j)
			if expr.Type() != "assignment" && expr.Type() != "augmented_assignment" {
				continue
			}
			if left := expr.ChildByFieldName("left"); left != nil {
				for _, name := range strings.Split(text(left, content), ",") {
					if name = strings.TrimSpace(name); name != "" {
						names = append(names, name)
					}
				}
			}
		}
	}
	return names
}

// selfAttributes collects distinct self.<name> assignment targets anywhere
// under a class body.
func selfAttributes(body *sitter.Node, content []byte) []string {
	seen := make(map[string]struct{})
	var attrs []string
	walk(body, func(n *sitter.Node) bool {
		if n.Type() != "assignment" && n.Type() != "augmented_assignment" {
			return true
		}
		left := n.ChildByFieldName("left")
		if left == nil || left.Type() != "attribute" {
			return true
		}
		obj := left.ChildByFieldName("object")
		attr := left.ChildByFieldName("attribute")
		if obj == nil || attr == nil || text(obj, content) != "self" {
			return true
		}
		name := text(attr, content)
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			attrs = append(attrs, name)
		}
		return true
	})
	return attrs
}

// superclassNames returns the base classes of a class definition.
func superclassNames(cls *sitter.Node, content []byte) []string {
	supers := cls.ChildByFieldName("superclasses")
	if supers == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(supers.NamedChildCount()); i++ {
		child := supers.NamedChild(i)
		switch child.Type() {
		case "identifier", "attribute":
			names = append(names, text(child, content))
		}
	}
	return names
}

// importedModules returns the module names referenced by an import
// statement. "from x import a, b" contributes only x.
func importedModules(stmt *sitter.Node, content []byte) []string {
	if stmt.Type() == "import_from_statement" {
		if mod := stmt.ChildByFieldName("module_name"); mod != nil {
			return []string{text(mod, content)}
		}
		return nil
	}
	var modules []string
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			modules = append(modules, text(child, content))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				modules = append(modules, text(name, content))
			}
		}
	}
	return modules
}

// walk visits node and its named descendants depth-first. The visitor
// returns false to prune a subtree.
func walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		walk(node.NamedChild(i), visit)
	}
}
