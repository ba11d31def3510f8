package service

import (
	"context"
	"strings"
	"unicode"

	"reading-companion/internal/domain"

	"cloud.google.com/go/vertexai/genai"
)

const standardCorrectionPrompt = `You are an OCR error correction specialist. Fix common OCR errors in the text while preserving the original meaning and structure.

Common OCR errors to fix:
- Character substitutions: beart→heart, \ollows→follows, rn→m, cl→d, etc.
- Number/letter confusion: 1→I (when it should be "I"), 0→O, 5→S
- Broken words: re ligion→religion, asso ciation→association
- Missing spaces between sentences
- Random symbols that don't make sense in context

Rules:
1. ONLY fix obvious OCR errors - don't rewrite or paraphrase
2. Keep the exact same structure, paragraphs, and line breaks
3. Preserve proper nouns and names as-is
4. If unsure, keep the original
5. Output ONLY the corrected text, nothing else`

const garbledCorrectionPrompt = `You are an OCR error correction specialist dealing with SEVERELY GARBLED text from a poor quality image.

The text is badly corrupted - many characters are wrong, words are broken, and some parts may be unreadable.

Your task:
1. Try to reconstruct readable English text from the garbled input
2. Look for patterns and context clues to guess what words should be
3. If a section is completely unreadable, mark it as [unclear]
4. Keep the general structure (paragraphs, line breaks)
5. Output ONLY the reconstructed text, nothing else

Be aggressive in fixing errors - the original is definitely wrong.`

// CorrectionService cleans up OCR artifacts in extracted text with Gemini.
// It degrades gracefully: any failure returns the input unchanged, since
// uncorrected text is still better than no text.
type CorrectionService struct {
	client *genai.Client
	logger domain.Logger
}

// NewCorrectionService creates a new OCR correction service.
func NewCorrectionService(client *genai.Client, logger domain.Logger) *CorrectionService {
	return &CorrectionService{client: client, logger: logger}
}

// Correct fixes OCR errors in the text. Texts under 20 characters are
// returned as-is.
func (s *CorrectionService) Correct(ctx context.Context, text string) (string, error) {
	if len(strings.TrimSpace(text)) < 20 {
		return text, nil
	}

	prompt := standardCorrectionPrompt
	temperature := float32(0.1)
	if garbled(text) {
		prompt = garbledCorrectionPrompt
		temperature = 0.2
	}

	corrected, err := generate(ctx, s.client, temperature, false, prompt+"\n\nFix OCR errors in this text:\n\n"+text)
	if err != nil {
		s.logger.Warn("OCR correction failed, keeping raw text", "error", err)
		return text, nil
	}
	if corrected == "" {
		return text, nil
	}
	return corrected, nil
}

// garbled heuristically detects OCR output too corrupted for light-touch
// correction: very short average word length, a low share of alphabetic
// characters, or many stray single-character words.
func garbled(text string) bool {
	if len(strings.TrimSpace(text)) < 50 {
		return false
	}

	words := strings.Fields(text)
	if len(words) < 5 {
		return false
	}

	totalWordLen := 0
	singleCharWords := 0
	for _, w := range words {
		totalWordLen += len(w)
		if len(w) == 1 {
			lower := strings.ToLower(w)
			if lower != "a" && lower != "i" {
				singleCharWords++
			}
		}
	}
	if float64(totalWordLen)/float64(len(words)) < 2.5 {
		return true
	}

	alpha := 0
	total := 0
	for _, r := range text {
		if r == ' ' {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if total > 0 && float64(alpha)/float64(total) < 0.6 {
		return true
	}

	return float64(singleCharWords)/float64(len(words)) > 0.3
}
