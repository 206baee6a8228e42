package documents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestPlainTextExtract(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "resume.txt", "Ivan Petrov\r\nGo developer, 5 years.\r\n")

	text, err := PlainText{}.Extract(filepath.Join(dir, "resume.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Ivan Petrov\nGo developer, 5 years.", text)
}

func TestPlainTextRejectsBinaryFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "resume.pdf", "%PDF-1.4")

	_, err := PlainText{}.Extract(filepath.Join(dir, "resume.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported resume format")
}

func TestLoadResumes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bob.txt", "Python developer. bob@example.com")
	writeFile(t, dir, "alice.md", "Go developer, 3 years.")
	writeFile(t, dir, "scan.pdf", "%PDF-1.4")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	profiles, skipped := LoadResumes(dir, PlainText{})
	require.Len(t, profiles, 2)
	require.Len(t, skipped, 1)

	assert.Equal(t, "alice", profiles[0].ID)
	assert.Equal(t, "bob", profiles[1].ID)
	assert.Equal(t, "bob@example.com", profiles[1].Email)
}

func TestLoadResumesMissingDirectory(t *testing.T) {
	profiles, skipped := LoadResumes(filepath.Join(t.TempDir(), "nope"), PlainText{})
	assert.Nil(t, profiles)
	require.Len(t, skipped, 1)
}
