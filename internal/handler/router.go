package handler

import (
	"net/http"

	"reading-companion/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured. Session
// data is reachable only through a known session identifier; there is
// deliberately no route that enumerates sessions.
func NewRouter(readingService domain.ReadingService, logger domain.Logger, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"reading-companion"}`))
	}).Methods("GET")

	sessionHandler := NewSessionHandler(readingService, logger)
	aiHandler := NewAIHandler(readingService, logger)

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/upload-images", sessionHandler.UploadImages).Methods("POST")
	api.HandleFunc("/pages/{sessionId}", sessionHandler.GetPages).Methods("GET")
	api.HandleFunc("/session/{sessionId}", sessionHandler.DeleteSession).Methods("DELETE")

	api.HandleFunc("/translate", aiHandler.Translate).Methods("POST")
	api.HandleFunc("/summary", aiHandler.Summary).Methods("POST")
	api.HandleFunc("/characters", aiHandler.Characters).Methods("POST")
	api.HandleFunc("/tts/english", aiHandler.Speak).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
