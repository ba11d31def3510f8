package handler

import (
	"encoding/json"
	"net/http"

	"reading-companion/internal/domain"
)

// AIHandler handles the derived-artifact requests: translation, summaries,
// character table and speech audio.
type AIHandler struct {
	readingService domain.ReadingService
	logger         domain.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(readingService domain.ReadingService, logger domain.Logger) *AIHandler {
	return &AIHandler{
		readingService: readingService,
		logger:         logger,
	}
}

// Translate handles the English→Telugu translation of one page.
func (h *AIHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req domain.TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.PageNumber < 1 {
		writeError(w, http.StatusBadRequest, "page_number must be a positive integer")
		return
	}

	result, err := h.readingService.TranslatePage(r.Context(), req.SessionID, req.PageNumber)
	if err != nil {
		h.logger.Error("Translation request failed", err, "page", req.PageNumber)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.TranslateResponse{
		PageNumber:  result.PageNumber,
		EnglishText: result.EnglishText,
		TeluguText:  result.TeluguText,
	})
}

// Summary handles summary generation for a whole session.
func (h *AIHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req domain.SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.SummaryType == "" {
		req.SummaryType = domain.SummaryShort
	}
	if req.Language == "" {
		req.Language = domain.LanguageEnglish
	}
	if !domain.ValidSummaryType(req.SummaryType) {
		writeError(w, http.StatusBadRequest, "summary_type must be short or medium")
		return
	}
	if !domain.ValidLanguage(req.Language) {
		writeError(w, http.StatusBadRequest, "language must be english or telugu")
		return
	}

	summary, err := h.readingService.Summarize(r.Context(), req.SessionID, req.SummaryType, req.Language)
	if err != nil {
		h.logger.Error("Summary request failed", err, "kind", req.SummaryType, "language", req.Language)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.SummaryResponse{
		SummaryType: req.SummaryType,
		Summary:     summary,
		Language:    req.Language,
	})
}

// Characters handles character table extraction.
func (h *AIHandler) Characters(w http.ResponseWriter, r *http.Request) {
	var req domain.CharactersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.Language == "" {
		req.Language = domain.LanguageEnglish
	}
	if !domain.ValidLanguage(req.Language) {
		writeError(w, http.StatusBadRequest, "language must be english or telugu")
		return
	}

	characters, err := h.readingService.Characters(r.Context(), req.SessionID, req.Language)
	if err != nil {
		h.logger.Error("Characters request failed", err, "language", req.Language)
		writeServiceError(w, err)
		return
	}
	if characters == nil {
		characters = make([]domain.Character, 0)
	}

	writeJSON(w, http.StatusOK, domain.CharactersResponse{
		Characters: characters,
		Language:   req.Language,
	})
}

// Speak streams English MP3 audio for one page. No Content-Disposition is
// set so browsers play the audio instead of downloading it.
func (h *AIHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var req domain.TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.PageNumber < 1 {
		writeError(w, http.StatusBadRequest, "page_number must be a positive integer")
		return
	}

	audio, err := h.readingService.Speak(r.Context(), req.SessionID, req.PageNumber)
	if err != nil {
		h.logger.Error("TTS request failed", err, "page", req.PageNumber)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
