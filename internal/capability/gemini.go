package capability

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiCapability generates answers through Google's Gemini API.
type GeminiCapability struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini-backed capability. model_path carries the model
// name; api_key falls back to the GEMINI_API_KEY environment variable.
func NewGemini(params Params) (Capability, error) {
	model := params.String("model_path")

	apiKey := params.String("api_key")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key required (api_key param or GEMINI_API_KEY)")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &GeminiCapability{client: client, model: model}, nil
}

func (g *GeminiCapability) Name() string { return "gemini:" + g.model }

// Generate sends the rendered prompt and returns the first candidate's text.
func (g *GeminiCapability) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
