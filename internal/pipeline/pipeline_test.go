package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"code2dataset/internal/aggregate"
	"code2dataset/internal/dataset"
	"code2dataset/internal/fileio"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go.opencensus.io (transitive dep of google.golang.org/genai) starts
		// this worker in package init; it cannot be stopped from test code.
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunEndToEnd(t *testing.T) {
	start := t.TempDir()
	out := t.TempDir()

	writeSource(t, filepath.Join(start, "sample.py"), `import os

def add(a, b):
    """Add two numbers."""
    return a + b
`)
	writeSource(t, filepath.Join(start, "lib", "util.py"), `def shout(text):
    return text.upper()
`)
	// Skipped: underscore prefix and hidden directory.
	writeSource(t, filepath.Join(start, "_private.py"), "x = 1\n")
	writeSource(t, filepath.Join(start, ".cache", "stale.py"), "y = 2\n")

	err := Run(context.Background(), Options{
		StartPath: start,
		OutputDir: out,
		Graph:     true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Per-file artifacts mirror the source layout, named by dotted path.
	for _, name := range []string{
		"sample.py.qa.json",
		"sample.py.instruct.json",
		"sample.py.details.yaml",
		"sample.py.internal_code_graph.dot",
		filepath.Join("lib", "lib.util.py.qa.json"),
	} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	// Skipped sources leave no trace.
	matches, err := filepath.Glob(filepath.Join(out, "*private*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("underscore-prefixed file should be skipped: %v", matches)
	}

	// The canonical collections exist and carry records from both files.
	var qa []dataset.QAPair
	if err := fileio.Read(filepath.Join(out, aggregate.QAFile), &qa); err != nil {
		t.Fatalf("read canonical qa: %v", err)
	}
	foundAdd, foundShout := false, false
	for _, pair := range qa {
		if strings.Contains(pair.Question, "add") && strings.Contains(pair.Question, "sample.py") {
			foundAdd = true
		}
		if strings.Contains(pair.Question, "shout") && strings.Contains(pair.Question, "lib.util.py") {
			foundShout = true
		}
	}
	if !foundAdd || !foundShout {
		t.Errorf("canonical qa missing expected records (add=%v shout=%v): %d records",
			foundAdd, foundShout, len(qa))
	}

	var cleaned []dataset.InstructionRecord
	if err := fileio.Read(filepath.Join(out, aggregate.CleanedInstructFile), &cleaned); err != nil {
		t.Fatalf("read cleaned instruct: %v", err)
	}
	if len(cleaned) == 0 {
		t.Fatal("cleaned instruct is empty")
	}
	// Repeated contexts are suppressed after their first appearance.
	suppressed := 0
	for _, r := range cleaned {
		if r.Input == "" {
			suppressed++
		}
	}
	if suppressed == 0 {
		t.Error("expected at least one suppressed context")
	}
}

func TestRunRerunIsStable(t *testing.T) {
	start := t.TempDir()
	out := t.TempDir()
	writeSource(t, filepath.Join(start, "m.py"), "def f(a):\n    return a\n")

	for i := 0; i < 2; i++ {
		if err := Run(context.Background(), Options{StartPath: start, OutputDir: out}); err != nil {
			t.Fatalf("Run %d failed: %v", i, err)
		}
	}

	// The second run re-reads the canonical files; dedup keeps the
	// collection from growing.
	var qa []dataset.QAPair
	if err := fileio.Read(filepath.Join(out, aggregate.QAFile), &qa); err != nil {
		t.Fatalf("read canonical qa: %v", err)
	}
	seen := map[string]bool{}
	for _, pair := range qa {
		if seen[pair.Question] {
			t.Errorf("duplicate question after rerun: %q", pair.Question)
		}
		seen[pair.Question] = true
	}
}

func TestRunStartPathMustBeDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.py")
	writeSource(t, file, "pass\n")

	if err := Run(context.Background(), Options{StartPath: file, OutputDir: dir}); err == nil {
		t.Error("expected error for file start path")
	}
	if err := Run(context.Background(), Options{StartPath: filepath.Join(dir, "absent"), OutputDir: dir}); err == nil {
		t.Error("expected error for missing start path")
	}
}

func TestRunUnloadableModelDisablesDelegation(t *testing.T) {
	start := t.TempDir()
	out := t.TempDir()
	writeSource(t, filepath.Join(start, "m.py"), "def f():\n    return 1\n")

	// The model config does not exist; the run degrades to metadata-only
	// answers instead of failing.
	err := Run(context.Background(), Options{
		StartPath:       start,
		OutputDir:       out,
		UseLLM:          true,
		ModelConfigPath: filepath.Join(start, "no_such_config.yaml"),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, aggregate.QAFile)); err != nil {
		t.Errorf("canonical qa missing: %v", err)
	}
}

func TestFindPythonFiles(t *testing.T) {
	root := t.TempDir()
	writeSource(t, filepath.Join(root, "a.py"), "")
	writeSource(t, filepath.Join(root, "b.txt"), "")
	writeSource(t, filepath.Join(root, "_skip.py"), "")
	writeSource(t, filepath.Join(root, "pkg", "c.py"), "")
	writeSource(t, filepath.Join(root, ".git", "d.py"), "")

	files, err := findPythonFiles(root)
	if err != nil {
		t.Fatalf("findPythonFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want a.py and pkg/c.py", files)
	}
	if filepath.Base(files[0]) != "a.py" || filepath.Base(files[1]) != "c.py" {
		t.Errorf("unexpected order: %v", files)
	}
}
