package guidance

import (
	"context"
	"fmt"

	internalguidance "github.com/valerie-05/AI-Immigration-Assistant/internal/guidance"
	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiGenerator calls the Gemini API for guidance text. One request per
// Generate call; the conversation layer holds the history, so only the
// current question is sent.
type GeminiGenerator struct {
	apiKey string
	model  string
}

func NewGeminiGenerator(cfg GeminiConfig) internalguidance.Generator {
	return &GeminiGenerator{apiKey: cfg.APIKey, model: cfg.Model}
}

func (g *GeminiGenerator) Generate(ctx context.Context, question string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf("User's question: %s", question), genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(internalguidance.SystemInstruction, genai.RoleUser),
	}

	res, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}
