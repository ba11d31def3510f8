package service

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

const geminiModel = "gemini-2.0-flash-001"

// NewGenAIClient creates the shared Vertex AI client used by the language
// collaborators.
func NewGenAIClient(ctx context.Context, projectID, location string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}
	return client, nil
}

// generate runs a single prompt against Gemini and returns the concatenated
// text parts of the first candidate.
func generate(ctx context.Context, client *genai.Client, temperature float32, jsonOutput bool, prompt string) (string, error) {
	model := client.GenerativeModel(geminiModel)
	model.SetTemperature(temperature)
	if jsonOutput {
		model.GenerationConfig.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
