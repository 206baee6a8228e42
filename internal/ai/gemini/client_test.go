package gemini

import (
	"testing"

	"google.golang.org/genai"
)

func TestCollectTextJoinsParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "  first  "},
						{Text: ""},
						{Text: "second"},
					},
				},
			},
			nil,
		},
	}

	got := collectText(resp)
	if got != "first\nsecond" {
		t.Fatalf("unexpected joined text: %q", got)
	}
}

func TestCollectTextEmptyResponse(t *testing.T) {
	if got := collectText(nil); got != "" {
		t.Fatalf("expected empty string for nil response, got %q", got)
	}

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: nil}}}
	if got := collectText(resp); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
