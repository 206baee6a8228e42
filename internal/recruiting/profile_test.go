package recruiting

import "testing"

func TestExtractEmail(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"plain", "Contact: ivan.petrov@example.com, phone +7 900", "ivan.petrov@example.com"},
		{"absent", "5 years of Go experience, Moscow", ""},
		{"first wins", "a@b.io or backup c@d.io", "a@b.io"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractEmail(tc.text); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	text := "\n\n  Senior Go Developer  \nRemote, full-time"
	if got := ExtractTitle(text); got != "Senior Go Developer" {
		t.Fatalf("unexpected title: %q", got)
	}

	if got := ExtractTitle("   \n\t\n"); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}
