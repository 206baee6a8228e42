package scoring

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/spigell/ai-recruiter/internal/recruiting"
)

const (
	maxJobKeywords = 20
	minTokenRunes  = 4
	keywordWeight  = 3
	experienceCap  = 10
	educationBonus = 20

	maxListedKeywords = 5
)

// keywordStopWords filters generic HR terms that carry no signal about the
// actual role, in both English and Russian.
var keywordStopWords = map[string]bool{
	"experience": true, "duties": true, "requirements": true,
	"skills": true, "knowledge": true, "responsibilities": true,
	"опыт": true, "работа": true, "работы": true, "обязанности": true,
	"требования": true, "знание": true, "навыки": true,
}

// yearsPattern detects a number adjacent to a years marker, e.g.
// "5 years", "3+ years", "опыт работы 5 лет".
var yearsPattern = regexp.MustCompile(`(?i)(\d{1,2})\s*\+?\s*(?:years?|год(?:а|ов)?|лет)`)

var educationMarkers = []string{
	"высшее образование", "высшее", "университет", "вуз",
	"higher education", "university", "degree",
}

// tokenize splits text into lowercased alphabetic runs of at least
// minTokenRunes runes. Digits and punctuation terminate a run.
func tokenize(text string) []string {
	var tokens []string
	var word []rune
	flush := func() {
		if len(word) >= minTokenRunes {
			tokens = append(tokens, string(word))
		}
		word = word[:0]
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) {
			word = append(word, r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// extractJobKeywords returns the top job keywords by frequency, stop-words
// removed, ties broken by first-seen order.
func extractJobKeywords(text string) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for i, token := range tokenize(text) {
		if keywordStopWords[token] {
			continue
		}
		if _, ok := counts[token]; !ok {
			firstSeen[token] = i
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > maxJobKeywords {
		order = order[:maxJobKeywords]
	}
	return order
}

// tokenSet builds a whole-word lookup set from resume text. Stop-words are
// kept: a job keyword never collides with them anyway.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range tokenize(text) {
		set[token] = true
	}
	return set
}

// detectYears returns the years-of-experience figure found in the text,
// or 0 when no experience pattern is present.
func detectYears(text string) int {
	match := yearsPattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	years, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return years
}

func hasEducation(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range educationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// scoreKeywords ranks one resume against the job posting text using the
// keyword heuristic: whole-word keyword matches, a capped experience bonus
// and an education bonus, normalized against the theoretical maximum.
func scoreKeywords(jobText, resumeText string, threshold float64) *recruiting.MatchResult {
	keywords := extractJobKeywords(jobText)
	if len(keywords) == 0 {
		return zeroResult("job posting text is empty or contains no usable keywords", recruiting.StrategyKeyword)
	}

	resumeTokens := tokenSet(resumeText)
	if len(resumeTokens) == 0 {
		return zeroResult("resume text is empty", recruiting.StrategyKeyword)
	}

	var matched, missing []string
	for _, keyword := range keywords {
		if resumeTokens[keyword] {
			matched = append(matched, keyword)
		} else {
			missing = append(missing, keyword)
		}
	}

	raw := len(matched) * keywordWeight

	years := detectYears(resumeText)
	experience := years * 2
	if experience > experienceCap {
		experience = experienceCap
	}
	raw += experience

	education := hasEducation(resumeText)
	if education {
		raw += educationBonus
	}

	max := len(keywords)*keywordWeight + experienceCap + educationBonus
	score := float64(raw) / float64(max) * 100
	if score > 100 {
		score = 100
	}
	score = roundScore(score)

	var strengths, weaknesses []string
	if len(matched) > 0 {
		strengths = append(strengths, "matched keywords: "+joinLimited(matched, maxListedKeywords))
	}
	if years > 0 {
		strengths = append(strengths, fmt.Sprintf("%d years of experience detected", years))
	}
	if education {
		strengths = append(strengths, "higher education mentioned")
	}
	if len(missing) > 0 {
		weaknesses = append(weaknesses, "missing keywords: "+joinLimited(missing, maxListedKeywords))
	}
	if score < threshold {
		weaknesses = append(weaknesses, "low match score")
	}

	return &recruiting.MatchResult{
		Score:      score,
		Suitable:   score >= threshold,
		Strengths:  strengths,
		Weaknesses: weaknesses,
		Rationale:  fmt.Sprintf("keyword score %.1f%% (%d of %d keywords matched)", score, len(matched), len(keywords)),
		Strategy:   recruiting.StrategyKeyword,
	}
}

func zeroResult(reason string, strategy recruiting.Strategy) *recruiting.MatchResult {
	return &recruiting.MatchResult{
		Score:     0,
		Suitable:  false,
		Rationale: reason,
		Strategy:  strategy,
	}
}

func joinLimited(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}

// roundScore rounds to 1 decimal place.
func roundScore(score float64) float64 {
	return float64(int(score*10+0.5)) / 10
}
