package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/ai-recruiter/internal/recruiting"
)

type stubJudgeGenerator struct {
	response string
	err      error
	prompt   string
}

func (s *stubJudgeGenerator) Complete(_ context.Context, _, user string) (string, error) {
	s.prompt = user
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubJudgeGenerator) Model() string { return "stub-model" }

func judgeFixtures() (*recruiting.JobPosting, *recruiting.CandidateProfile) {
	posting := recruiting.NewJobPosting("job-1", "Python developer, Django, SQL")
	profile := recruiting.NewCandidateProfile("cand-1", "Python and Django, 5 years")
	return posting, profile
}

func TestJudgeScore(t *testing.T) {
	stub := &stubJudgeGenerator{response: `{"score": 72.5, "strengths": ["python", "django"], "weaknesses": ["no sql"], "rationale": "solid overlap"}`}
	judge := NewJudge(stub, 40, 0, nil)

	posting, profile := judgeFixtures()
	result, err := judge.Score(context.Background(), posting, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score != 72.5 {
		t.Fatalf("expected score 72.5, got %v", result.Score)
	}
	if !result.Suitable {
		t.Fatal("expected candidate to be suitable")
	}
	if result.Strategy != recruiting.StrategyLLM {
		t.Fatalf("expected llm strategy, got %s", result.Strategy)
	}
	if len(result.Strengths) != 2 || result.Strengths[0] != "python" {
		t.Fatalf("unexpected strengths: %v", result.Strengths)
	}
	if result.Rationale != "solid overlap" {
		t.Fatalf("unexpected rationale: %q", result.Rationale)
	}
}

func TestJudgeScorePromptContainsBothTexts(t *testing.T) {
	stub := &stubJudgeGenerator{response: `{"score": 10}`}
	judge := NewJudge(stub, 40, 0, nil)

	posting, profile := judgeFixtures()
	if _, err := judge.Score(context.Background(), posting, profile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{posting.Text, profile.Text} {
		if !strings.Contains(stub.prompt, want) {
			t.Fatalf("prompt is missing %q", want)
		}
	}
}

func TestJudgeScoreFencedResponse(t *testing.T) {
	stub := &stubJudgeGenerator{response: "```json\n{\"score\": \"55\", \"rationale\": \"ok\"}\n```"}
	judge := NewJudge(stub, 40, 0, nil)

	posting, profile := judgeFixtures()
	result, err := judge.Score(context.Background(), posting, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// String-typed scores are coerced, fences stripped.
	if result.Score != 55 {
		t.Fatalf("expected score 55, got %v", result.Score)
	}
}

func TestJudgeScoreClipsOutOfRange(t *testing.T) {
	stub := &stubJudgeGenerator{response: `{"score": 140}`}
	judge := NewJudge(stub, 40, 0, nil)

	posting, profile := judgeFixtures()
	result, err := judge.Score(context.Background(), posting, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score != 100 {
		t.Fatalf("expected score clipped to 100, got %v", result.Score)
	}
}

func TestJudgeScoreGeneratorFailure(t *testing.T) {
	stub := &stubJudgeGenerator{err: errors.New("model overloaded")}
	judge := NewJudge(stub, 40, 0, nil)

	posting, profile := judgeFixtures()
	if _, err := judge.Score(context.Background(), posting, profile); err == nil {
		t.Fatal("expected error from generator failure")
	}
}

func TestJudgeScoreMalformedResponse(t *testing.T) {
	stub := &stubJudgeGenerator{response: "not json at all"}
	judge := NewJudge(stub, 40, 0, nil)

	posting, profile := judgeFixtures()
	if _, err := judge.Score(context.Background(), posting, profile); err == nil {
		t.Fatal("expected error for malformed response")
	}
}

func TestJudgeScoreEmptyInputs(t *testing.T) {
	stub := &stubJudgeGenerator{response: `{"score": 90}`}
	judge := NewJudge(stub, 40, 0, nil)

	posting := recruiting.NewJobPosting("job-1", "   ")
	profile := recruiting.NewCandidateProfile("cand-1", "resume")

	result, err := judge.Score(context.Background(), posting, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 0 || result.Suitable {
		t.Fatalf("expected zero unsuitable result, got %+v", result)
	}
}
