package service

import (
	"context"
	"fmt"
	"strings"

	"reading-companion/internal/domain"
	apperrors "reading-companion/pkg/errors"

	"golang.org/x/sync/errgroup"
)

const (
	// unreadablePageText is stored when OCR cannot extract anything, so the
	// page still exists and keeps its number.
	unreadablePageText = "[Unable to extract text from this page]"

	// ocrWorkers bounds concurrent OCR/correction calls for one upload batch.
	ocrWorkers = 4
)

// ReadingService is the caching facade over the session store. Every
// operation resolves the session first (which slides its TTL window), then
// serves a memoized artifact or invokes a collaborator exactly once per slot
// and stores the result. Collaborator calls always happen outside the store's
// lock; a failed call leaves its slot absent so a retry can succeed.
//
// Two requests racing on the same cache miss may both invoke the
// collaborator; the later store write is then a no-op. That duplicate work is
// accepted rather than adding single-flight locking.
type ReadingService struct {
	store      domain.SessionStore
	extractor  domain.TextExtractor
	pdf        domain.PDFExtractor
	corrector  domain.TextCorrector
	translator domain.Translator
	summarizer domain.Summarizer
	characters domain.CharacterExtractor
	speech     domain.SpeechSynthesizer
	logger     domain.Logger

	maxPages int
}

// NewReadingService creates the facade. The AI collaborators may be nil when
// the deployment has no model credentials; the affected operations then fail
// with a collaborator error instead of at startup.
func NewReadingService(
	store domain.SessionStore,
	extractor domain.TextExtractor,
	pdf domain.PDFExtractor,
	corrector domain.TextCorrector,
	translator domain.Translator,
	summarizer domain.Summarizer,
	characters domain.CharacterExtractor,
	speech domain.SpeechSynthesizer,
	logger domain.Logger,
	maxPages int,
) *ReadingService {
	return &ReadingService{
		store:      store,
		extractor:  extractor,
		pdf:        pdf,
		corrector:  corrector,
		translator: translator,
		summarizer: summarizer,
		characters: characters,
		speech:     speech,
		logger:     logger,
		maxPages:   maxPages,
	}
}

// ProcessUpload validates and OCRs an upload batch into a fresh session.
// Validation failures reject the batch before any session exists; failures
// after creation delete the session again, never leaving partial state.
func (s *ReadingService) ProcessUpload(ctx context.Context, files []domain.UploadFile) (*domain.UploadResult, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("No files uploaded")
	}

	// A single PDF stands in for a batch of page images.
	if IsPDF(files[0].Data) {
		if len(files) > 1 {
			return nil, apperrors.NewValidationError("A PDF must be uploaded on its own")
		}
		return s.processPDFUpload(ctx, files[0])
	}

	if len(files) > s.maxPages {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Maximum %d pages allowed per session", s.maxPages))
	}
	for _, f := range files {
		if IsPDF(f.Data) {
			return nil, apperrors.NewValidationError("A PDF must be uploaded on its own")
		}
		if err := s.extractor.Validate(f.Data); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("File %s: %s", f.Name, apperrors.GetMessage(err)))
		}
	}

	sessionID := s.store.Create()

	texts := make([]string, len(files))
	sem := make(chan struct{}, ocrWorkers)
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}
			text, err := s.extractor.ExtractText(gctx, f.Data)
			if err != nil {
				s.logger.Warn("OCR failed for page", "file", f.Name, "error", err)
				texts[i] = unreadablePageText
				return nil
			}
			if text == "" {
				texts[i] = unreadablePageText
				return nil
			}
			texts[i] = s.correct(gctx, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.store.Delete(sessionID)
		return nil, apperrors.NewCollaboratorError("Failed to process upload", err)
	}

	return s.storePages(sessionID, texts)
}

func (s *ReadingService) processPDFUpload(ctx context.Context, file domain.UploadFile) (*domain.UploadResult, error) {
	pages, err := s.pdf.ExtractPages(ctx, file.Data)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("File %s: invalid PDF", file.Name), err.Error())
	}
	if len(pages) == 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("File %s: PDF has no pages", file.Name))
	}
	if len(pages) > s.maxPages {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Maximum %d pages allowed per session", s.maxPages))
	}

	sessionID := s.store.Create()

	texts := make([]string, len(pages))
	sem := make(chan struct{}, ocrWorkers)
	g, gctx := errgroup.WithContext(ctx)
	for i, raw := range pages {
		i, raw := i, raw
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}
			if raw == "" {
				texts[i] = unreadablePageText
				return nil
			}
			texts[i] = s.correct(gctx, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.store.Delete(sessionID)
		return nil, apperrors.NewCollaboratorError("Failed to process upload", err)
	}

	return s.storePages(sessionID, texts)
}

// correct runs the OCR corrector when one is configured; correction failures
// fall back to the raw text.
func (s *ReadingService) correct(ctx context.Context, text string) string {
	if s.corrector == nil {
		return text
	}
	corrected, err := s.corrector.Correct(ctx, text)
	if err != nil || corrected == "" {
		return text
	}
	return corrected
}

// storePages appends the texts in page order and fails clean if the session
// expired mid-upload.
func (s *ReadingService) storePages(sessionID string, texts []string) (*domain.UploadResult, error) {
	for i, text := range texts {
		if !s.store.AddPage(sessionID, i+1, text) {
			s.store.Delete(sessionID)
			return nil, apperrors.NewNotFoundError("Session not found or expired")
		}
	}
	return &domain.UploadResult{SessionID: sessionID, PageCount: len(texts)}, nil
}

// Pages returns the extracted text of every page.
func (s *ReadingService) Pages(id string) ([]domain.PageText, error) {
	snap, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("Session not found or expired")
	}
	return snap.Pages, nil
}

// TranslatePage returns the Telugu translation of one page, memoized per
// page number.
func (s *ReadingService) TranslatePage(ctx context.Context, id string, pageNumber int) (*domain.TranslationResult, error) {
	snap, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("Session not found or expired")
	}
	english, ok := snap.PageByNumber(pageNumber)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Page %d not found", pageNumber))
	}

	if cached, ok := s.store.Translation(id, pageNumber); ok {
		return &domain.TranslationResult{PageNumber: pageNumber, EnglishText: english, TeluguText: cached}, nil
	}

	if s.translator == nil {
		return nil, apperrors.NewCollaboratorError("Translation service not configured", nil)
	}
	telugu, err := s.translator.TranslateToTelugu(ctx, english)
	if err != nil {
		return nil, apperrors.NewCollaboratorError("Translation failed", err)
	}

	// The session may have expired during the call; the result is still
	// valid for this request even if the write is lost.
	s.store.SetTranslation(id, pageNumber, telugu)

	return &domain.TranslationResult{PageNumber: pageNumber, EnglishText: english, TeluguText: telugu}, nil
}

// Summarize returns a summary of the whole session, memoized per
// (kind, language). The Telugu variant reuses the memoized English summary
// as its translation source.
func (s *ReadingService) Summarize(ctx context.Context, id string, kind domain.SummaryType, lang domain.Language) (string, error) {
	snap, ok := s.store.Get(id)
	if !ok {
		return "", apperrors.NewNotFoundError("Session not found or expired")
	}

	key := domain.SummaryKey{Kind: kind, Language: lang}
	if cached, ok := s.store.Summary(id, key); ok {
		return cached, nil
	}

	fullText := concatPages(snap.Pages)
	if strings.TrimSpace(fullText) == "" {
		return "", apperrors.NewValidationError("No text available for summarization")
	}

	englishKey := domain.SummaryKey{Kind: kind, Language: domain.LanguageEnglish}
	english, ok := s.store.Summary(id, englishKey)
	if !ok {
		if s.summarizer == nil {
			return "", apperrors.NewCollaboratorError("Summary service not configured", nil)
		}
		var err error
		english, err = s.summarizer.Summarize(ctx, fullText, kind)
		if err != nil {
			return "", apperrors.NewCollaboratorError("Summary generation failed", err)
		}
		s.store.SetSummary(id, englishKey, english)
	}
	if lang == domain.LanguageEnglish {
		return english, nil
	}

	if s.translator == nil {
		return "", apperrors.NewCollaboratorError("Translation service not configured", nil)
	}
	telugu, err := s.translator.TranslateToTelugu(ctx, english)
	if err != nil {
		return "", apperrors.NewCollaboratorError("Summary translation failed", err)
	}
	s.store.SetSummary(id, key, telugu)
	return telugu, nil
}

// Characters returns the character table. The language-independent
// extraction is memoized in a single slot; the Telugu view (roles and
// relationships translated, names kept in English) is derived per request.
func (s *ReadingService) Characters(ctx context.Context, id string, lang domain.Language) ([]domain.Character, error) {
	snap, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("Session not found or expired")
	}

	characters, ok := s.store.Characters(id)
	if !ok {
		if s.characters == nil {
			return nil, apperrors.NewCollaboratorError("Character extraction service not configured", nil)
		}
		var err error
		characters, err = s.characters.Extract(ctx, snap.Pages)
		if err != nil {
			return nil, apperrors.NewCollaboratorError("Character extraction failed", err)
		}
		s.store.SetCharacters(id, characters)
	}

	if lang != domain.LanguageTelugu {
		return characters, nil
	}
	return s.translateCharacters(ctx, characters)
}

func (s *ReadingService) translateCharacters(ctx context.Context, characters []domain.Character) ([]domain.Character, error) {
	if s.translator == nil {
		return nil, apperrors.NewCollaboratorError("Translation service not configured", nil)
	}

	translated := make([]domain.Character, 0, len(characters))
	for _, c := range characters {
		role, err := s.translator.TranslateToTelugu(ctx, c.Role)
		if err != nil {
			return nil, apperrors.NewCollaboratorError("Character translation failed", err)
		}
		relationships := make([]string, 0, len(c.Relationships))
		for _, rel := range c.Relationships {
			t, err := s.translator.TranslateToTelugu(ctx, rel)
			if err != nil {
				return nil, apperrors.NewCollaboratorError("Character translation failed", err)
			}
			relationships = append(relationships, t)
		}
		translated = append(translated, domain.Character{
			Name:                c.Name, // names stay in English
			Role:                role,
			Relationships:       relationships,
			FirstAppearancePage: c.FirstAppearancePage,
		})
	}
	return translated, nil
}

// Speak synthesizes English audio for one page. Audio is never memoized.
func (s *ReadingService) Speak(ctx context.Context, id string, pageNumber int) ([]byte, error) {
	snap, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("Session not found or expired")
	}
	text, ok := snap.PageByNumber(pageNumber)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Page %d not found", pageNumber))
	}

	audio, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		return nil, apperrors.NewCollaboratorError("Failed to generate audio", err)
	}
	return audio, nil
}

// DeleteSession removes the session immediately. It reports whether a
// session existed.
func (s *ReadingService) DeleteSession(id string) bool {
	return s.store.Delete(id)
}

// concatPages joins page texts in insertion order with a blank line, the
// separator used for summarization input.
func concatPages(pages []domain.PageText) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n\n")
}
