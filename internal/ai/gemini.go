package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"turkish":         {Type: genai.TypeString},
		"definition":      {Type: genai.TypeString},
		"example":         {Type: genai.TypeString},
		"example_turkish": {Type: genai.TypeString},
	},
	Required: []string{"turkish", "definition", "example", "example_turkish"},
}

var quizSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question":      {Type: genai.TypeString},
			"options":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"correctAnswer": {Type: genai.TypeString},
			"explanation":   {Type: genai.TypeString},
		},
		Required: []string{"question", "options", "correctAnswer", "explanation"},
	},
}

// GeminiGenerator implements Generator with the Gemini API
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a generator for apiKey. It returns nil, nil
// for an empty key so callers fall back to placeholders.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// GenerateJSON requests a JSON response conforming to schema
func (g *GeminiGenerator) GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// NewGeminiClient builds a Client over the Gemini API. An empty apiKey
// yields a client that only returns placeholders.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	g, err := NewGeminiGenerator(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return NewClient(nil, model, timeout, logger), nil
	}
	return NewClient(g, model, timeout, logger), nil
}
