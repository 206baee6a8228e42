package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/ai-recruiter/internal/ai"
	"github.com/spigell/ai-recruiter/internal/recruiting"
	"github.com/spigell/ai-recruiter/internal/utils"
)

//go:embed prompts/judge.md
var judgePromptTemplate string

const (
	judgeSystemPrompt = "You are a strict technical recruiter. Judge resume fit and answer with JSON only."

	defaultMaxLogLength = 200
)

// Judge asks the language model directly for a fit verdict. It is a
// second opinion next to the embedding/keyword strategies, one call per
// candidate.
type Judge struct {
	generator ai.Generator
	threshold float64
	logger    *zap.Logger
	maxLogLen int
}

func NewJudge(generator ai.Generator, threshold float64, maxLogLength int, logger *zap.Logger) *Judge {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Judge{
		generator: generator,
		threshold: threshold,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (j *Judge) Score(ctx context.Context, posting *recruiting.JobPosting, profile *recruiting.CandidateProfile) (*recruiting.MatchResult, error) {
	if strings.TrimSpace(posting.Text) == "" || strings.TrimSpace(profile.Text) == "" {
		return zeroResult("job or resume text is empty", recruiting.StrategyLLM), nil
	}

	prompt := strings.ReplaceAll(judgePromptTemplate, "{{JOB}}", posting.Text)
	prompt = strings.ReplaceAll(prompt, "{{RESUME}}", profile.Text)

	j.logger.Debug("judge request",
		zap.String("candidate_id", profile.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, j.maxLogLen)),
	)

	raw, err := j.generator.Complete(ctx, judgeSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("judge candidate %s: %w", profile.ID, err)
	}

	j.logger.Debug("judge response",
		zap.String("candidate_id", profile.ID),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	verdict, err := parseVerdict(raw)
	if err != nil {
		return nil, fmt.Errorf("judge candidate %s: %w", profile.ID, err)
	}

	score := clipScore(verdict.Score)

	return &recruiting.MatchResult{
		Score:      score,
		Suitable:   score >= j.threshold,
		Strengths:  verdict.Strengths,
		Weaknesses: verdict.Weaknesses,
		Rationale:  verdict.Rationale,
		Strategy:   recruiting.StrategyLLM,
	}, nil
}

type judgeVerdict struct {
	Score      float64  `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Rationale  string   `json:"rationale"`
}

// parseVerdict tolerates fenced and loosely typed model output: the JSON
// is decoded into a generic map first, then weakly coerced into the
// verdict struct.
func parseVerdict(raw string) (*judgeVerdict, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse judge response: %w", err)
	}

	verdict := &judgeVerdict{}
	cfg := &mapstructure.DecoderConfig{
		Result:           verdict,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build judge decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode judge response: %w", err)
	}

	return verdict, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func clipScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
