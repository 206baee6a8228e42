// Package documents turns resume files into candidate profiles.
package documents

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spigell/ai-recruiter/internal/recruiting"
)

// Extractor pulls plain text out of a document file. Implementations for
// binary formats (pdf, docx) can be plugged in behind this interface.
type Extractor interface {
	Extract(path string) (string, error)
}

// PlainText reads UTF-8 text files and normalizes line endings.
type PlainText struct{}

var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

func (PlainText) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !textExtensions[ext] {
		return "", fmt.Errorf("unsupported resume format %q: %s", ext, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resume %s: %w", path, err)
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	return strings.TrimSpace(text), nil
}

// LoadResumes builds candidate profiles from every readable document in
// dir, one profile per file, ordered by filename. The filename (without
// extension) becomes the candidate id. Unreadable and unsupported files
// are skipped and reported back to the caller.
func LoadResumes(dir string, extractor Extractor) ([]*recruiting.CandidateProfile, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("read resume directory %s: %w", dir, err)}
	}

	var (
		profiles []*recruiting.CandidateProfile
		skipped  []error
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		text, err := extractor.Extract(path)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}

		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		profiles = append(profiles, recruiting.NewCandidateProfile(id, text))
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })

	return profiles, skipped
}
