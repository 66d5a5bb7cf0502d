package ai

import (
	"context"
	"fmt"
	"strings"
)

// Generator wraps the client with the prompt and extraction steps: one call
// turns a dataset context plus a natural-language request into code text.
type Generator struct {
	client      *Client
	model       string
	maxTokens   int
	temperature float64
}

// NewGenerator builds a Generator for the given model settings.
func NewGenerator(client *Client, model string, maxTokens int, temperature float64) *Generator {
	return &Generator{client: client, model: model, maxTokens: maxTokens, temperature: temperature}
}

// VisualizationCode asks the model for plotting code and extracts the code
// block from its response. Service failures and the no-code condition come
// back as distinct errors; the caller decides how to report them.
func (g *Generator) VisualizationCode(ctx context.Context, datasetContext, request string) (string, error) {
	resp, err := g.client.Generate(ctx, GenerateRequest{
		Model: g.model,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt()},
			{Role: "user", Content: BuildUserPrompt(datasetContext, request)},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate visualization code: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrNoCode
	}
	return ExtractCode(resp.Choices[0].Message.Content)
}

// TranscribeAudio exposes transcription at the generator level so callers
// need only one dependency for the voice flow.
func (g *Generator) TranscribeAudio(ctx context.Context, audioPath string) (string, error) {
	return g.client.Transcribe(ctx, audioPath)
}
