package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	catalog := DefaultCatalog()
	if err := ValidateCatalog(catalog); err != nil {
		t.Fatalf("embedded catalog invalid: %v", err)
	}

	// Every question type must be represented.
	kinds := map[QuestionType]bool{}
	for _, q := range catalog {
		kinds[q.Type] = true
	}
	for _, want := range []QuestionType{QuestionFile, QuestionFunction, QuestionClass, QuestionMethod} {
		if !kinds[want] {
			t.Errorf("embedded catalog has no %q questions", want)
		}
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.json")
	content := `[{"id": "file_purpose", "text": "Purpose of {filename}?", "type": "file"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(catalog) != 1 || catalog[0].ID != "file_purpose" {
		t.Errorf("unexpected catalog: %+v", catalog)
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestValidateCatalog(t *testing.T) {
	tests := []struct {
		name    string
		catalog []Question
		wantErr bool
	}{
		{"empty catalog", nil, true},
		{"missing id", []Question{{Text: "t", Type: QuestionFile}}, true},
		{"missing text", []Question{{ID: "q", Type: QuestionFile}}, true},
		{"unknown type", []Question{{ID: "q", Text: "t", Type: "package"}}, true},
		{"valid", []Question{{ID: "q", Text: "t", Type: QuestionClass}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog(tt.catalog)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCatalog() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
