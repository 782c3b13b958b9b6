package capability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModelConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model_config.yaml")
	content := `inference_model:
  model_import_path: genai.Gemini
  model_params:
    model_path: gemini-2.0-flash
    temperature: 0.2
    max_tokens: 2048
prompt_template: |
  Context: {context}
  Question: {query}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadModelConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "genai.Gemini", cfg.InferenceModel.ModelImportPath)
	assert.Equal(t, "gemini-2.0-flash", cfg.InferenceModel.ModelParams.String("model_path"))
	assert.Equal(t, 0.2, cfg.InferenceModel.ModelParams.Float("temperature", 1.0))
	assert.Equal(t, 2048, cfg.InferenceModel.ModelParams.Int("max_tokens", 0))
	assert.NotEmpty(t, cfg.PromptTemplate)
}

func TestLoadModelConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadModelConfig(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err, "missing file")

	noModel := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(noModel, []byte("prompt_template: hi\n"), 0644))
	_, err = LoadModelConfig(noModel)
	assert.Error(t, err, "missing inference_model section")

	malformed := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("inference_model: [unclosed\n"), 0644))
	_, err = LoadModelConfig(malformed)
	assert.Error(t, err, "malformed yaml")
}

func TestParamsDefaults(t *testing.T) {
	p := Params{"count": 3, "ratio": 1.5, "name": "m"}
	assert.Equal(t, "", p.String("missing"))
	assert.Equal(t, 1, p.Int("ratio", 0))
	assert.Equal(t, float64(3), p.Float("count", 0))
	assert.Equal(t, 7, p.Int("missing", 7))
}
