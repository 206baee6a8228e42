package recruiting

import "strings"

const maxTitleRunes = 80

// JobPosting is a single vacancy description. The raw text is treated as
// immutable once scoring begins.
type JobPosting struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
}

// NewJobPosting builds a posting from raw text, deriving the title from
// the first non-empty line.
func NewJobPosting(id, text string) *JobPosting {
	return &JobPosting{
		ID:    id,
		Text:  text,
		Title: ExtractTitle(text),
	}
}

// ExtractTitle returns the first non-empty line of the posting text,
// truncated to a displayable length.
func ExtractTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxTitleRunes {
			return string(runes[:maxTitleRunes])
		}
		return line
	}
	return ""
}
