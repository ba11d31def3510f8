package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"reading-companion/internal/domain"

	"cloud.google.com/go/vertexai/genai"
)

const characterPrompt = `You are analyzing a text to extract character information.

Rules:
1. Identify all named characters (people/beings with names)
2. For each character, determine:
   - name: Their full name as it appears
   - role: Brief description (e.g., "protagonist", "Harry's friend", "dark wizard")
   - relationships: ONLY explicit relationships stated in the text (e.g., "father of Harry", "friend of Ron")
   - first_appearance_page: The page number where they are first mentioned (look for [PAGE X] markers)
3. Do NOT infer relationships not explicitly stated
4. Do NOT include unnamed characters

Output ONLY valid JSON array, no markdown formatting:
[
  {
    "name": "Character Name",
    "role": "Brief role description",
    "relationships": ["explicit relationship 1", "explicit relationship 2"],
    "first_appearance_page": 1
  }
]`

// CharacterService extracts the character table from session pages with
// Gemini. Extraction is always done in English; translated views are derived
// by the facade per request.
type CharacterService struct {
	client *genai.Client
	logger domain.Logger
}

// NewCharacterService creates a new character extraction service.
func NewCharacterService(client *genai.Client, logger domain.Logger) *CharacterService {
	return &CharacterService{client: client, logger: logger}
}

// Extract returns the character table for the given pages.
func (s *CharacterService) Extract(ctx context.Context, pages []domain.PageText) ([]domain.Character, error) {
	if len(pages) == 0 {
		return []domain.Character{}, nil
	}

	combined := combinePagesWithMarkers(pages)
	if strings.TrimSpace(combined) == "" {
		return []domain.Character{}, nil
	}

	raw, err := generate(ctx, s.client, 0.3, true, characterPrompt+"\n\nExtract characters from this text:\n\n"+combined)
	if err != nil {
		s.logger.Error("Character extraction failed", err)
		return nil, err
	}

	characters, err := parseCharacters(raw)
	if err != nil {
		s.logger.Warn("Failed to parse character response", "error", err)
		return []domain.Character{}, nil
	}
	return characters, nil
}

// combinePagesWithMarkers joins page texts in page-number order with [PAGE n]
// markers so the model can attribute first appearances.
func combinePagesWithMarkers(pages []domain.PageText) string {
	ordered := make([]domain.PageText, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PageNumber < ordered[j].PageNumber
	})

	var sb strings.Builder
	for _, p := range ordered {
		sb.WriteString(fmt.Sprintf("\n[PAGE %d]\n%s\n", p.PageNumber, p.Text))
	}
	return sb.String()
}

// parseCharacters accepts either a bare JSON array or an object with a
// "characters" key, whichever the model produced.
func parseCharacters(raw string) ([]domain.Character, error) {
	raw = strings.TrimSpace(raw)

	var characters []domain.Character
	if err := json.Unmarshal([]byte(raw), &characters); err == nil {
		return normalizeCharacters(characters), nil
	}

	var wrapped struct {
		Characters []domain.Character `json:"characters"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected character response shape: %w", err)
	}
	return normalizeCharacters(wrapped.Characters), nil
}

func normalizeCharacters(characters []domain.Character) []domain.Character {
	if characters == nil {
		return []domain.Character{}
	}
	for i := range characters {
		if characters[i].Relationships == nil {
			characters[i].Relationships = []string{}
		}
	}
	return characters
}
