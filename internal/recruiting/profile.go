package recruiting

import "regexp"

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// CandidateProfile is one candidate's resume. The ID is usually the
// source filename. The raw text is immutable once scoring begins.
type CandidateProfile struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Email string `json:"email,omitempty"`
}

// NewCandidateProfile builds a profile from raw resume text, extracting a
// contact email when one is present.
func NewCandidateProfile(id, text string) *CandidateProfile {
	return &CandidateProfile{
		ID:    id,
		Text:  text,
		Email: ExtractEmail(text),
	}
}

// ExtractEmail returns the first email address found in the text, or an
// empty string when there is none.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}
