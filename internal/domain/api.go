package domain

// Request and response payloads for the HTTP API.

// UploadResponse is returned after an upload batch has been processed.
type UploadResponse struct {
	SessionID string `json:"session_id"`
	PageCount int    `json:"page_count"`
	Message   string `json:"message"`
}

// PagesResponse carries the extracted text of every page in a session.
type PagesResponse struct {
	SessionID string     `json:"session_id"`
	Pages     []PageText `json:"pages"`
}

// TranslateRequest asks for the Telugu translation of one page.
type TranslateRequest struct {
	SessionID  string `json:"session_id"`
	PageNumber int    `json:"page_number"`
}

// TranslateResponse returns the source text alongside the translation.
type TranslateResponse struct {
	PageNumber  int    `json:"page_number"`
	EnglishText string `json:"english_text"`
	TeluguText  string `json:"telugu_text"`
}

// SummaryRequest asks for a summary of the whole session.
type SummaryRequest struct {
	SessionID   string      `json:"session_id"`
	SummaryType SummaryType `json:"summary_type"`
	Language    Language    `json:"language"`
}

// SummaryResponse carries the generated summary.
type SummaryResponse struct {
	SummaryType SummaryType `json:"summary_type"`
	Summary     string      `json:"summary"`
	Language    Language    `json:"language"`
}

// CharactersRequest asks for the character table.
type CharactersRequest struct {
	SessionID string   `json:"session_id"`
	Language  Language `json:"language"`
}

// CharactersResponse carries the character table.
type CharactersResponse struct {
	Characters []Character `json:"characters"`
	Language   Language    `json:"language"`
}

// TTSRequest asks for English speech audio of one page.
type TTSRequest struct {
	SessionID  string `json:"session_id"`
	PageNumber int    `json:"page_number"`
}

// DeleteSessionResponse confirms an explicit session deletion.
type DeleteSessionResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}
