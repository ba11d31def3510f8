package domain

import (
	"context"
	"time"
)

// SessionStore is the process-wide in-memory session store. All methods are
// safe for concurrent use. Every successful operation against a session
// refreshes its last-accessed timestamp and thereby slides its TTL window.
type SessionStore interface {
	// Create allocates a new empty session and returns its identifier. The
	// identifier is the sole capability needed to access the session.
	Create() string
	// Get returns a snapshot of the session, or false if the identifier is
	// unknown, expired or was deleted.
	Get(id string) (*SessionSnapshot, bool)
	// Delete removes the session and everything it references. It reports
	// whether a session existed; a second delete of the same id returns false.
	Delete(id string) bool

	// AddPage appends a page in call order. It returns false if the session
	// no longer exists (expired mid-upload).
	AddPage(id string, pageNumber int, text string) bool
	// PageText returns the text of a single page.
	PageText(id string, pageNumber int) (string, bool)

	// Translation and SetTranslation are the per-page translation
	// memoization accessors. SetTranslation is first-write-wins: a slot,
	// once populated, is never overwritten.
	Translation(id string, pageNumber int) (string, bool)
	SetTranslation(id string, pageNumber int, text string) bool

	// Summary and SetSummary memoize one summary per (kind, language) key.
	Summary(id string, key SummaryKey) (string, bool)
	SetSummary(id string, key SummaryKey, text string) bool

	// Characters and SetCharacters memoize the language-independent
	// character table in a single slot per session.
	Characters(id string) ([]Character, bool)
	SetCharacters(id string, characters []Character) bool

	// Len returns the number of live sessions.
	Len() int
}

// TextExtractor extracts text from an uploaded page image.
type TextExtractor interface {
	// Validate checks that the bytes are an acceptable page image
	// (JPEG/PNG, size and dimension bounds).
	Validate(image []byte) error
	// ExtractText runs OCR and returns the extracted text.
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// PDFExtractor extracts per-page text from an uploaded PDF.
type PDFExtractor interface {
	ExtractPages(ctx context.Context, pdf []byte) ([]string, error)
}

// TextCorrector fixes OCR artifacts in extracted text.
type TextCorrector interface {
	Correct(ctx context.Context, text string) (string, error)
}

// Translator translates English text to Telugu, preserving proper nouns.
type Translator interface {
	TranslateToTelugu(ctx context.Context, englishText string) (string, error)
}

// Summarizer produces a summary of the given text in English.
type Summarizer interface {
	Summarize(ctx context.Context, text string, kind SummaryType) (string, error)
}

// CharacterExtractor builds the character table from the session's pages.
type CharacterExtractor interface {
	Extract(ctx context.Context, pages []PageText) ([]Character, error)
}

// SpeechSynthesizer converts English text to MP3 audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// UploadFile is one file of an upload batch, fully read into memory.
type UploadFile struct {
	Name string
	Data []byte
}

// UploadResult reports the outcome of a processed upload batch.
type UploadResult struct {
	SessionID string
	PageCount int
}

// TranslationResult pairs a page's source text with its translation.
type TranslationResult struct {
	PageNumber  int
	EnglishText string
	TeluguText  string
}

// ReadingService is the application facade used by the HTTP layer. It
// resolves sessions through the store and memoizes collaborator results.
type ReadingService interface {
	ProcessUpload(ctx context.Context, files []UploadFile) (*UploadResult, error)
	Pages(id string) ([]PageText, error)
	TranslatePage(ctx context.Context, id string, pageNumber int) (*TranslationResult, error)
	Summarize(ctx context.Context, id string, kind SummaryType, lang Language) (string, error)
	Characters(ctx context.Context, id string, lang Language) ([]Character, error)
	Speak(ctx context.Context, id string, pageNumber int) ([]byte, error)
	DeleteSession(id string) bool
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetSessionTTL() time.Duration
	GetCleanupInterval() time.Duration
	GetMaxPages() int
	GetMaxFileSize() int64
	GetGCPProjectID() string
	GetGCPLocation() string
	GetAllowedOrigins() []string
}
