package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ai-recruiter/internal/ai"
	"github.com/spigell/ai-recruiter/internal/recruiting"
)

const (
	// DefaultThreshold is the minimum score for a suitable verdict.
	DefaultThreshold = 40

	// Embedding inputs are truncated to bound backend cost.
	maxPostingEmbedRunes = 512
	maxResumeEmbedRunes  = 1000
)

// Ranked pairs a candidate with its immutable match result.
type Ranked struct {
	Profile *recruiting.CandidateProfile
	Result  *recruiting.MatchResult
}

// Summary reports how a screening run went.
type Summary struct {
	Total    int
	Suitable int
}

// Engine ranks candidate profiles against one job posting. It holds no
// state across calls and is safe to use concurrently for independent
// posting/batch pairs. A nil embedder selects the keyword strategy for
// every candidate.
type Engine struct {
	embedder  ai.Embedder
	threshold float64
	logger    *zap.Logger
}

func NewEngine(embedder ai.Embedder, threshold float64, logger *zap.Logger) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
	}
}

// outcomeStatus classifies a single strategy attempt so fallback is a
// decision table instead of error control flow.
type outcomeStatus int

const (
	outcomeOK outcomeStatus = iota
	outcomeUnavailable
	outcomeFailed
)

type outcome struct {
	status outcomeStatus
	result *recruiting.MatchResult
	reason string
}

// Rank scores every candidate against the posting and returns the list
// sorted by score descending. Ties preserve input order. An empty input
// yields an empty output.
func (e *Engine) Rank(ctx context.Context, posting *recruiting.JobPosting, profiles []*recruiting.CandidateProfile) []Ranked {
	postingVector := e.postingVector(ctx, posting)

	ranked := make([]Ranked, 0, len(profiles))
	for _, profile := range profiles {
		result := e.scoreCandidate(ctx, posting, profile, postingVector)

		e.logger.Debug("candidate scored",
			zap.String("candidate_id", profile.ID),
			zap.Float64("score", result.Score),
			zap.Bool("suitable", result.Suitable),
			zap.String("strategy", string(result.Strategy)),
		)

		ranked = append(ranked, Ranked{Profile: profile, Result: result})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})

	return ranked
}

// Summarize counts suitable candidates in a ranked list.
func Summarize(ranked []Ranked) Summary {
	summary := Summary{Total: len(ranked)}
	for _, r := range ranked {
		if r.Result.Suitable {
			summary.Suitable++
		}
	}
	return summary
}

// postingVector embeds the job posting once per run. A nil return selects
// the keyword strategy for the whole batch.
func (e *Engine) postingVector(ctx context.Context, posting *recruiting.JobPosting) []float32 {
	if e.embedder == nil {
		return nil
	}
	if strings.TrimSpace(posting.Text) == "" {
		return nil
	}

	vector, err := e.embedder.Embed(ctx, truncateRunes(posting.Text, maxPostingEmbedRunes))
	if err != nil {
		e.logger.Warn("embedding the job posting failed, using keyword strategy for the whole batch",
			zap.String("posting_id", posting.ID),
			zap.Error(err),
		)
		return nil
	}
	return vector
}

func (e *Engine) scoreCandidate(ctx context.Context, posting *recruiting.JobPosting, profile *recruiting.CandidateProfile, postingVector []float32) *recruiting.MatchResult {
	if strings.TrimSpace(profile.Text) == "" {
		return zeroResult("resume text is empty", recruiting.StrategyKeyword)
	}

	if postingVector != nil {
		out := e.embeddingOutcome(ctx, profile, postingVector)
		if out.status == outcomeOK {
			return out.result
		}
		e.logger.Warn("embedding strategy failed for candidate, falling back to keywords",
			zap.String("candidate_id", profile.ID),
			zap.String("reason", out.reason),
		)
	}

	return scoreKeywords(posting.Text, profile.Text, e.threshold)
}

func (e *Engine) embeddingOutcome(ctx context.Context, profile *recruiting.CandidateProfile, postingVector []float32) outcome {
	resumeVector, err := e.embedder.Embed(ctx, truncateRunes(profile.Text, maxResumeEmbedRunes))
	if err != nil {
		status := outcomeFailed
		if err == ai.ErrUnavailable {
			status = outcomeUnavailable
		}
		return outcome{status: status, reason: err.Error()}
	}

	score := cosine(postingVector, resumeVector) * 100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	score = roundScore(score)

	result := &recruiting.MatchResult{
		Score:     score,
		Suitable:  score >= e.threshold,
		Strengths: []string{fmt.Sprintf("semantic similarity: %.1f%%", score)},
		Rationale: fmt.Sprintf("semantic similarity %.1f%% (embedding strategy)", score),
		Strategy:  recruiting.StrategyEmbedding,
	}
	if !result.Suitable {
		result.Weaknesses = []string{"low semantic similarity"}
	}

	return outcome{status: outcomeOK, result: result}
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
