package interview

import (
	"fmt"
	"strconv"
	"strings"

	_ "embed"
)

//go:embed prompts/question_system.md
var questionSystemTemplate string

//go:embed prompts/question_first.md
var questionFirstTemplate string

//go:embed prompts/question_next.md
var questionNextTemplate string

//go:embed prompts/feedback.md
var feedbackTemplate string

//go:embed prompts/report_candidate.md
var candidateReportTemplate string

//go:embed prompts/report_hr.md
var hrReportTemplate string

const (
	feedbackSystemPrompt        = "You are an experienced HR specialist. Give constructive feedback on interview answers."
	candidateReportSystemPrompt = "You are an HR specialist. Write short, empathetic overall feedback for the candidate after the interview."
	hrReportSystemPrompt        = "You are a senior HR manager. Give a complete assessment of the candidate after the interview."

	earlyTerminationNote = "NOTE: the candidate ended the interview early, the transcript is incomplete."
)

func (c *Controller) questionPrompts(s *Session, previousAnswer string) (system, user string) {
	system = render(questionSystemTemplate, map[string]string{
		"PERSONA": c.persona,
		"JOB":     s.Posting.Text,
		"RESUME":  s.Candidate.Text,
		"TOTAL":   strconv.Itoa(s.PlannedQuestions),
	})

	previousAnswer = strings.TrimSpace(previousAnswer)
	if previousAnswer == "" {
		return system, strings.TrimSpace(questionFirstTemplate)
	}

	// Only the single most recent answer goes into the question prompt.
	return system, render(questionNextTemplate, map[string]string{
		"ANSWER": previousAnswer,
	})
}

func feedbackPrompts(s *Session, entry *Entry) (system, user string) {
	user = render(feedbackTemplate, map[string]string{
		"JOB":      s.Posting.Text,
		"QUESTION": entry.Question,
		"ANSWER":   entry.Answer,
	})
	return feedbackSystemPrompt, user
}

func candidateReportPrompts(s *Session) (system, user string) {
	user = render(candidateReportTemplate, map[string]string{
		"JOB":        s.Posting.Text,
		"RESUME":     s.Candidate.Text,
		"TRANSCRIPT": formatTranscript(s.Transcript),
		"NOTE":       terminationNote(s),
	})
	return candidateReportSystemPrompt, user
}

func (c *Controller) hrReportPrompts(s *Session) (system, user string) {
	user = render(hrReportTemplate, map[string]string{
		"JOB":        s.Posting.Text,
		"RESUME":     s.Candidate.Text,
		"TRANSCRIPT": formatTranscript(s.Transcript),
		"NOTE":       terminationNote(s),
		"HR_EMAIL":   c.hrEmail,
	})
	return hrReportSystemPrompt, user
}

func terminationNote(s *Session) string {
	if s.TerminatedBy {
		return earlyTerminationNote
	}
	return ""
}

// formatTranscript renders the full transcript for report prompts.
func formatTranscript(entries []*Entry) string {
	var builder strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&builder, "%d. Q: %s\n   A: %s\n", entry.Index, entry.Question, entry.Answer)
		if entry.Feedback != "" {
			fmt.Fprintf(&builder, "   F: %s\n", entry.Feedback)
		}
		builder.WriteString("\n")
	}
	return strings.TrimRight(builder.String(), "\n")
}

func render(template string, values map[string]string) string {
	out := template
	for key, value := range values {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return strings.TrimSpace(out)
}
