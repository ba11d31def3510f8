package domain

import "time"

// SummaryType selects the shape of a generated summary.
type SummaryType string

const (
	SummaryShort  SummaryType = "short"
	SummaryMedium SummaryType = "medium"
)

// ValidSummaryType reports whether t is a supported summary type.
func ValidSummaryType(t SummaryType) bool {
	return t == SummaryShort || t == SummaryMedium
}

// Language selects the output language of a derived artifact.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageTelugu  Language = "telugu"
)

// ValidLanguage reports whether l is a supported language.
func ValidLanguage(l Language) bool {
	return l == LanguageEnglish || l == LanguageTelugu
}

// PageText is one page of extracted text. PageNumber is the caller-visible
// page number, independent of the page's position in the session.
type PageText struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// SummaryKey addresses one memoized summary slot.
type SummaryKey struct {
	Kind     SummaryType
	Language Language
}

// Character is one row of the extracted character table. Names always stay
// in English regardless of the requested language.
type Character struct {
	Name                string   `json:"name"`
	Role                string   `json:"role"`
	Relationships       []string `json:"relationships"`
	FirstAppearancePage int      `json:"first_appearance_page"`
}

// SessionSnapshot is a point-in-time copy of a session's visible state.
// Snapshots never alias store internals, so holding one does not observe
// later mutations. Pages are in insertion order.
type SessionSnapshot struct {
	ID             string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	Pages          []PageText
}

// PageByNumber returns the text of the page with the given number.
func (s *SessionSnapshot) PageByNumber(pageNumber int) (string, bool) {
	for _, p := range s.Pages {
		if p.PageNumber == pageNumber {
			return p.Text, true
		}
	}
	return "", false
}
