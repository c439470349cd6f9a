package guidance

import (
	"context"
	"log/slog"
	"strings"
)

// SystemInstruction is the fixed instruction sent with every backend request.
const SystemInstruction = `You are an expert immigration assistant. Your role is to help people understand immigration processes in clear, simple language.

Please provide:
1. A clear explanation of their situation
2. Available options and pathways
3. Key requirements or steps
4. Important deadlines or considerations
5. Any warnings or things to be aware of

Keep your response practical, empathetic, and easy to understand. Avoid legal jargon where possible. If you mention technical terms, explain them simply.`

// Generator is the generative-guidance backend.
type Generator interface {
	Generate(ctx context.Context, question string) (string, error)
}

// Client produces guidance text for a question. Backend failures never reach
// the caller: every failure path degrades to the deterministic fallback.
type Client struct {
	generator Generator
}

// NewClient wraps a generator. A nil generator means the backend is not
// configured and every question is answered by the fallback.
func NewClient(generator Generator) *Client {
	return &Client{generator: generator}
}

func (c *Client) Guide(ctx context.Context, question string) string {
	if c.generator == nil {
		slog.Info("guidance backend not configured; using fallback")
		return Fallback(question)
	}

	text, err := c.generator.Generate(ctx, question)
	if err != nil {
		slog.Error("guidance backend call failed; using fallback", "error", err)
		return Fallback(question)
	}
	if strings.TrimSpace(text) == "" {
		slog.Error("guidance backend returned empty text; using fallback")
		return Fallback(question)
	}
	return text
}
