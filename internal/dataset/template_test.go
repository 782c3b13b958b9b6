package dataset

import "testing"

func TestRender(t *testing.T) {
	got, err := Render("What is the purpose of {filename} function {function_name}?",
		map[string]interface{}{
			"filename":      "pkg.mod.py",
			"function_name": "run",
			"unused":        "extra keys are fine",
		})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "What is the purpose of pkg.mod.py function run?"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderMissingPlaceholder(t *testing.T) {
	if _, err := Render("Purpose of {missing}?", map[string]interface{}{"filename": "x"}); err == nil {
		t.Fatal("expected error for unresolved placeholder")
	}
}

func TestRenderNoPlaceholders(t *testing.T) {
	got, err := Render("Static question.", map[string]interface{}{"filename": "x"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != "Static question." {
		t.Errorf("Render = %q", got)
	}
}
