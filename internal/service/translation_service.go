package service

import (
	"context"
	"strings"

	"reading-companion/internal/domain"

	"cloud.google.com/go/vertexai/genai"
)

const translationPrompt = `You are a professional English to Telugu translator.

Rules:
1. Translate the given English text to Telugu accurately
2. DO NOT translate proper nouns (names of people, places, brands, titles)
3. Keep proper nouns in their original English spelling
4. Maintain the meaning and tone of the original text
5. Use natural Telugu that flows well when read

Example:
English: "Harry Potter went to London to meet Hermione."
Telugu: "Harry Potter London కి Hermione ని కలవడానికి వెళ్ళాడు."

Only output the Telugu translation, nothing else.`

// TranslationService translates English text to Telugu with Gemini,
// preserving proper nouns in English.
type TranslationService struct {
	client *genai.Client
	logger domain.Logger
}

// NewTranslationService creates a new translation service.
func NewTranslationService(client *genai.Client, logger domain.Logger) *TranslationService {
	return &TranslationService{client: client, logger: logger}
}

// TranslateToTelugu translates the text. Empty input returns empty output
// without a model call.
func (s *TranslationService) TranslateToTelugu(ctx context.Context, englishText string) (string, error) {
	if strings.TrimSpace(englishText) == "" {
		return "", nil
	}

	translated, err := generate(ctx, s.client, 0.3, false, translationPrompt+"\n\nTranslate this text:\n\n"+englishText)
	if err != nil {
		s.logger.Error("Translation failed", err)
		return "", err
	}
	return translated, nil
}
