package interview

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/ai-recruiter/internal/recruiting"
)

// DefaultTTL bounds how long an interview link stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// State is the lifecycle position of an interview session.
type State string

const (
	StateCreated         State = "created"
	StateQuestioning     State = "questioning"
	StateCompleted       State = "completed"
	StateTerminatedEarly State = "terminated_early"
	StateReported        State = "reported"
	// StateExpired is written only by the store when a session outlives
	// its TTL; the controller never sets it.
	StateExpired State = "expired"
)

// ErrInvalidState is returned when an operation is attempted in the wrong
// state machine state, e.g. generating reports twice. The call fails, the
// session stays intact.
var ErrInvalidState = errors.New("operation not allowed in current session state")

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("interview session not found")

// Entry is one question/answer round. Entries are append-only; Index is
// assigned sequentially starting at 1.
type Entry struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

// Session holds one candidate's interview. Field names are stable: the
// store persists the session as a plain JSON document.
type Session struct {
	ID               string                       `json:"id"`
	Posting          *recruiting.JobPosting       `json:"job_posting"`
	Candidate        *recruiting.CandidateProfile `json:"candidate"`
	Transcript       []*Entry                     `json:"transcript,omitempty"`
	State            State                        `json:"state"`
	CreatedAt        time.Time                    `json:"created_at"`
	ExpiresAt        time.Time                    `json:"expires_at"`
	PlannedQuestions int                          `json:"planned_questions"`
	CandidateReport  string                       `json:"candidate_feedback,omitempty"`
	HRAssessment     string                       `json:"hr_assessment,omitempty"`
	TerminatedBy     bool                         `json:"early_termination,omitempty"`
}

// NewCode returns an opaque 8-character session code.
func NewCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Expired reports whether the session outlived its TTL at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Answered reports whether every transcript entry has a recorded answer.
func (s *Session) Answered() bool {
	for _, entry := range s.Transcript {
		if strings.TrimSpace(entry.Answer) == "" {
			return false
		}
	}
	return true
}

// LastAnswer returns the most recent recorded answer, or an empty string.
func (s *Session) LastAnswer() string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if answer := strings.TrimSpace(s.Transcript[i].Answer); answer != "" {
			return answer
		}
	}
	return ""
}

// Reports returns the stored final documents once the session has been
// reported. Before that it returns false.
func (s *Session) Reports() (*Reports, bool) {
	if s.State != StateReported {
		return nil, false
	}
	return &Reports{Candidate: s.CandidateReport, HR: s.HRAssessment}, true
}

func (s *Session) terminal() bool {
	return s.State == StateCompleted || s.State == StateTerminatedEarly
}
