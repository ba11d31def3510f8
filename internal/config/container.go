package config

import (
	"context"

	"reading-companion/internal/domain"
	"reading-companion/internal/service"
	"reading-companion/internal/session"
	"reading-companion/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	Store          *session.Store
	ReadingService domain.ReadingService
}

// NewContainer creates a new dependency injection container. The session
// store's reaper is not started here; the caller owns its lifecycle (start
// after wiring, stop on shutdown).
func NewContainer() *Container {
	cfg := NewConfig()
	appLogger := logger.NewLogger(cfg.GetLogLevel())

	store := session.New(cfg.GetSessionTTL(), cfg.GetCleanupInterval(), appLogger)

	ocrService := service.NewOCRService(appLogger, cfg.GetMaxFileSize())
	pdfService := service.NewPDFService(appLogger)
	ttsService := service.NewTTSService(appLogger)

	// The language collaborators need Vertex AI credentials. Without a
	// project the server still runs; translation, summaries, character
	// extraction and OCR correction report a collaborator error instead.
	var (
		corrector  domain.TextCorrector
		translator domain.Translator
		summarizer domain.Summarizer
		characters domain.CharacterExtractor
	)
	if projectID := cfg.GetGCPProjectID(); projectID != "" {
		client, err := service.NewGenAIClient(context.Background(), projectID, cfg.GetGCPLocation())
		if err != nil {
			appLogger.Error("Failed to create Vertex AI client, language features disabled", err, "project", projectID)
		} else {
			corrector = service.NewCorrectionService(client, appLogger)
			translator = service.NewTranslationService(client, appLogger)
			summarizer = service.NewSummaryService(client, appLogger)
			characters = service.NewCharacterService(client, appLogger)
		}
	} else {
		appLogger.Warn("GCP_PROJECT_ID not set, language features disabled")
	}

	readingService := service.NewReadingService(
		store,
		ocrService,
		pdfService,
		corrector,
		translator,
		summarizer,
		characters,
		ttsService,
		appLogger,
		cfg.GetMaxPages(),
	)

	return &Container{
		Config:         cfg,
		Logger:         appLogger,
		Store:          store,
		ReadingService: readingService,
	}
}
