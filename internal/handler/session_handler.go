// Package handler provides HTTP handlers for the API.
package handler

import (
	"fmt"
	"io"
	"net/http"

	"reading-companion/internal/domain"

	"github.com/gorilla/mux"
)

// SessionHandler handles session lifecycle requests: upload, pages, delete.
type SessionHandler struct {
	readingService domain.ReadingService
	logger         domain.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(readingService domain.ReadingService, logger domain.Logger) *SessionHandler {
	return &SessionHandler{
		readingService: readingService,
		logger:         logger,
	}
}

// UploadImages handles an upload batch of page images (or a single PDF) and
// creates a new session.
func (h *SessionHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "No files uploaded")
		return
	}

	files := make([]domain.UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("File %s: could not be read", fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("File %s: could not be read", fh.Filename))
			return
		}
		files = append(files, domain.UploadFile{Name: fh.Filename, Data: data})
	}

	result, err := h.readingService.ProcessUpload(r.Context(), files)
	if err != nil {
		h.logger.Error("Upload processing failed", err, "files", len(files))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.UploadResponse{
		SessionID: result.SessionID,
		PageCount: result.PageCount,
		Message:   fmt.Sprintf("Successfully processed %d page(s)", result.PageCount),
	})
}

// GetPages returns the extracted text of every page in a session.
func (h *SessionHandler) GetPages(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["sessionId"]
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	pages, err := h.readingService.Pages(sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if pages == nil {
		pages = make([]domain.PageText, 0)
	}

	writeJSON(w, http.StatusOK, domain.PagesResponse{
		SessionID: sessionID,
		Pages:     pages,
	})
}

// DeleteSession immediately deletes a session and all its data.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["sessionId"]
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	if !h.readingService.DeleteSession(sessionID) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, domain.DeleteSessionResponse{
		Message:   "Session deleted successfully",
		SessionID: sessionID,
	})
}
