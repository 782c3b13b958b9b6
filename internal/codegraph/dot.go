// Package codegraph renders a file's code-reference graphs as Graphviz DOT.
// This is presentation only: the graph structure itself is produced by the
// analyzer and carried through question resolution untouched.
package codegraph

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code2dataset/internal/metadata"
)

// WriteDOT writes graph as a directed DOT graph. Edge labels carry the
// target's inputs and returns when known.
func WriteDOT(w io.Writer, name string, graph *metadata.CodeGraph) error {
	if _, err := fmt.Fprintf(w, "digraph %q {\n", name); err != nil {
		return err
	}
	for _, node := range graph.Nodes {
		if _, err := fmt.Fprintf(w, "    %q [shape=box];\n", node); err != nil {
			return err
		}
	}
	nodes := make(map[string]struct{}, len(graph.Nodes))
	for _, node := range graph.Nodes {
		nodes[node] = struct{}{}
	}
	for _, edge := range graph.Edges {
		// Edges referencing unknown nodes are dropped, same as the node
		// membership check before adding an edge anywhere else.
		if _, ok := nodes[edge.Source]; !ok {
			continue
		}
		if _, ok := nodes[edge.Target]; !ok {
			continue
		}
		label := edgeLabel(edge)
		if label != "" {
			_, err := fmt.Fprintf(w, "    %q -> %q [label=%q];\n", edge.Source, edge.Target, label)
			if err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "    %q -> %q;\n", edge.Source, edge.Target); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// ExportFile writes one DOT file per graph attached to the file details,
// named <base>.<graph kind>.dot under dir.
func ExportFile(details *metadata.FileDetails, baseName, dir string) error {
	graphs := map[string]*metadata.CodeGraph{
		"internal_code_graph": details.FileInfo.InternalGraph,
		"entire_code_graph":   details.FileInfo.EntireGraph,
	}
	for _, kind := range []string{"internal_code_graph", "entire_code_graph"} {
		graph := graphs[kind]
		if graph == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s.%s.dot", baseName, kind))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create graph file: %w", err)
		}
		if err := WriteDOT(f, kind, graph); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func edgeLabel(edge metadata.GraphEdge) string {
	var parts []string
	if len(edge.TargetInputs) > 0 {
		parts = append(parts, "Inputs: "+strings.Join(edge.TargetInputs, ", "))
	}
	if len(edge.TargetReturns) > 0 {
		parts = append(parts, "Returns: "+strings.Join(edge.TargetReturns, ", "))
	}
	return strings.Join(parts, "\\n")
}
