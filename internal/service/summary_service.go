package service

import (
	"context"
	"strings"

	"reading-companion/internal/domain"

	"cloud.google.com/go/vertexai/genai"
)

const shortSummaryPrompt = `You are a skilled summarizer. Create a concise summary.

Rules:
1. Provide exactly 5-7 bullet points
2. Each bullet should be one clear, complete sentence
3. Capture the main events and key information
4. Use "•" as the bullet character
5. Focus on what happens, not interpretation

Format:
• First key point
• Second key point
...`

const mediumSummaryPrompt = `You are a skilled summarizer. Create a medium-length summary.

Rules:
1. Write exactly 2-3 well-structured paragraphs
2. First paragraph: main events and plot
3. Second paragraph: key details and context
4. Third paragraph (if needed): themes or significance
5. Use clear, flowing prose
6. Be comprehensive but not verbose

Output only the paragraphs, no headers or labels.`

// SummaryService generates short or medium English summaries with Gemini.
type SummaryService struct {
	client *genai.Client
	logger domain.Logger
}

// NewSummaryService creates a new summary service.
func NewSummaryService(client *genai.Client, logger domain.Logger) *SummaryService {
	return &SummaryService{client: client, logger: logger}
}

// Summarize produces an English summary of the given text.
func (s *SummaryService) Summarize(ctx context.Context, text string, kind domain.SummaryType) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	prompt := shortSummaryPrompt
	if kind == domain.SummaryMedium {
		prompt = mediumSummaryPrompt
	}

	summary, err := generate(ctx, s.client, 0.5, false, prompt+"\n\nSummarize the following text:\n\n"+text)
	if err != nil {
		s.logger.Error("Summary generation failed", err, "kind", kind)
		return "", err
	}
	return summary, nil
}
