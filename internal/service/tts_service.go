package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"reading-companion/internal/domain"

	"golang.org/x/oauth2/google"
)

const (
	ttsEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

	// Long pages are truncated so synthesis stays within request limits.
	maxTTSChars = 5000
)

// TTSService synthesizes English MP3 audio via the Google Cloud
// Text-to-Speech REST API, authenticated with application default
// credentials. Audio is generated in memory and never stored.
type TTSService struct {
	logger     domain.Logger
	httpClient *http.Client
}

// NewTTSService creates a new speech synthesis service.
func NewTTSService(logger domain.Logger) *TTSService {
	return &TTSService{
		logger:     logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Synthesize converts the text to MP3 bytes.
func (s *TTSService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return nil, fmt.Errorf("no text to synthesize")
	}
	if len(cleaned) > maxTTSChars {
		cleaned = cleaned[:maxTTSChars] + "..."
	}

	requestBody := map[string]interface{}{
		"input": map[string]string{"text": cleaned},
		"voice": map[string]string{
			"languageCode": "en-US",
			"ssmlGender":   "FEMALE",
		},
		"audioConfig": map[string]string{"audioEncoding": "MP3"},
	}
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", ttsEndpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, fmt.Errorf("failed to get default credentials: %w", err)
	}
	token, err := creds.TokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts API returned status: %d", resp.StatusCode)
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode tts response: %w", err)
	}
	if result.AudioContent == "" {
		return nil, fmt.Errorf("no audio returned")
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}
	return audio, nil
}
