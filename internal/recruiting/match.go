package recruiting

// Strategy names the method used to compute a match score.
type Strategy string

const (
	StrategyEmbedding Strategy = "embedding"
	StrategyKeyword   Strategy = "keyword"
	StrategyLLM       Strategy = "llm"
)

// MatchResult is the outcome of scoring one candidate against one job
// posting. Values are never mutated after creation; re-scoring produces
// a new result.
type MatchResult struct {
	Score      float64  `json:"score"`
	Suitable   bool     `json:"suitable"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
	Rationale  string   `json:"rationale"`
	Strategy   Strategy `json:"strategy"`
}
