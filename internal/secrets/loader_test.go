package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadInlineValue(t *testing.T) {
	secret, err := Load(Source{Name: "api key", Value: "  token-123  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "token-123" {
		t.Fatalf("expected trimmed secret, got %q", secret)
	}
}

func TestLoadFileTakesPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("file-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	secret, err := Load(Source{Name: "api key", Value: "inline-token", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "file-token" {
		t.Fatalf("expected file secret, got %q", secret)
	}
}

func TestLoadMissingSecret(t *testing.T) {
	_, err := Load(Source{Name: "api key"})
	if err == nil {
		t.Fatal("expected error for unconfigured secret")
	}
	if !strings.Contains(err.Error(), "api key") {
		t.Fatalf("expected secret name in error, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(Source{Name: "api key", File: path})
	if err == nil {
		t.Fatal("expected error for empty secret file")
	}
}
