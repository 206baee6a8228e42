package interview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/ai-recruiter/internal/ai"
	"github.com/spigell/ai-recruiter/internal/recruiting"
	"github.com/spigell/ai-recruiter/internal/utils"
)

const (
	placeholderQuestion        = "could not generate question"
	placeholderFeedback        = "could not generate feedback"
	placeholderCandidateReport = "could not generate candidate feedback"
	placeholderHRAssessment    = "could not generate hr assessment"

	// noAnswerText stands in for a silent candidate so a recorded round
	// always counts as answered and the interview can still complete.
	noAnswerText = "(no answer given)"

	promptPreviewLimit = 200
)

// Store is the durable keyed persistence the controller depends on.
// Writes are idempotent replacements keyed by session id. Load returns
// absent (false) for unknown and expired sessions.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, bool, error)
}

// Options configures a Controller.
type Options struct {
	// Persona is the interviewer name used in question prompts.
	Persona string
	// HREmail is appended to the HR assessment as the contact line.
	HREmail string
	// TTL bounds session validity; DefaultTTL when zero.
	TTL time.Duration
}

// Reports carries the two audience-specific final documents.
type Reports struct {
	Candidate string
	HR        string
}

// Controller owns the interview state machine for its sessions. The
// registry map is safe for concurrent use across different sessions, but
// a single session must be driven by one caller at a time: each step
// depends on the previous step's output, so there is no intra-session
// locking.
type Controller struct {
	generator ai.Generator
	store     Store
	logger    *zap.Logger
	persona   string
	hrEmail   string
	ttl       time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewController(generator ai.Generator, store Store, logger *zap.Logger, opts Options) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	persona := strings.TrimSpace(opts.Persona)
	if persona == "" {
		persona = "Lev"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Controller{
		generator: generator,
		store:     store,
		logger:    logger,
		persona:   persona,
		hrEmail:   opts.HREmail,
		ttl:       ttl,
		sessions:  make(map[string]*Session),
	}
}

// Create registers a new session and persists it. On a storage error the
// session stays registered so the write can be retried with Sync.
func (c *Controller) Create(ctx context.Context, posting *recruiting.JobPosting, candidate *recruiting.CandidateProfile, plannedQuestions int) (*Session, error) {
	if posting == nil || candidate == nil {
		return nil, fmt.Errorf("job posting and candidate profile are required")
	}
	if plannedQuestions < 0 {
		return nil, fmt.Errorf("planned question count must not be negative")
	}

	now := time.Now().UTC()
	session := &Session{
		ID:               NewCode(),
		Posting:          posting,
		Candidate:        candidate,
		State:            StateCreated,
		CreatedAt:        now,
		ExpiresAt:        now.Add(c.ttl),
		PlannedQuestions: plannedQuestions,
	}

	c.mu.Lock()
	c.sessions[session.ID] = session
	c.mu.Unlock()

	c.logger.Info("interview session created",
		zap.String("interview_id", session.ID),
		zap.String("candidate_id", candidate.ID),
		zap.Int("planned_questions", plannedQuestions),
	)

	if err := c.store.Save(ctx, session); err != nil {
		return session, fmt.Errorf("persist interview session: %w", err)
	}

	return session, nil
}

// Resume returns an already registered session or loads it from the
// store. Unknown and expired sessions yield ErrNotFound.
func (c *Controller) Resume(ctx context.Context, id string) (*Session, error) {
	c.mu.Lock()
	session, ok := c.sessions[id]
	c.mu.Unlock()
	if ok {
		return session, nil
	}

	session, found, err := c.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load interview session: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	c.mu.Lock()
	c.sessions[id] = session
	c.mu.Unlock()

	return session, nil
}

// Advance generates the next question conditioned on the most recent
// answer and appends it to the transcript. It returns nil once the
// planned question count is reached. Advancing a reported session is a
// state machine violation.
func (c *Controller) Advance(ctx context.Context, id, previousAnswer string) (*Entry, error) {
	session, err := c.get(id)
	if err != nil {
		return nil, err
	}

	switch session.State {
	case StateCreated:
		if session.PlannedQuestions == 0 {
			session.State = StateCompleted
			return nil, nil
		}
		session.State = StateQuestioning
	case StateQuestioning:
		// keep going
	case StateCompleted, StateTerminatedEarly:
		return nil, nil
	default:
		return nil, fmt.Errorf("advance session %s in state %s: %w", id, session.State, ErrInvalidState)
	}

	if len(session.Transcript) >= session.PlannedQuestions {
		if session.Answered() {
			session.State = StateCompleted
		}
		return nil, nil
	}

	system, user := c.questionPrompts(session, previousAnswer)

	c.logger.Debug("question generation request",
		zap.String("interview_id", session.ID),
		zap.Int("question_index", len(session.Transcript)+1),
		zap.String("prompt_preview", utils.TruncateForLog(user, promptPreviewLimit)),
	)

	question, err := c.generator.Complete(ctx, system, user)
	if err != nil {
		c.logger.Warn("question generation failed, using placeholder",
			zap.String("interview_id", session.ID),
			zap.Error(err),
		)
		question = placeholderQuestion
	}

	entry := &Entry{
		Index:    len(session.Transcript) + 1,
		Question: question,
	}
	session.Transcript = append(session.Transcript, entry)

	return entry, nil
}

// RecordAnswer fills the answer of an existing transcript entry. Once the
// last planned answer is recorded the session completes.
func (c *Controller) RecordAnswer(id string, index int, answer string) error {
	session, err := c.get(id)
	if err != nil {
		return err
	}

	if session.State != StateQuestioning {
		return fmt.Errorf("record answer for session %s in state %s: %w", id, session.State, ErrInvalidState)
	}
	if index < 1 || index > len(session.Transcript) {
		return fmt.Errorf("transcript entry %d does not exist in session %s", index, id)
	}

	if strings.TrimSpace(answer) == "" {
		answer = noAnswerText
	}
	session.Transcript[index-1].Answer = answer

	if len(session.Transcript) == session.PlannedQuestions && session.Answered() {
		session.State = StateCompleted
		c.logger.Info("interview completed",
			zap.String("interview_id", session.ID),
			zap.Int("questions", len(session.Transcript)),
		)
	}

	return nil
}

// ProvideFeedback asks for a short critique of a single answered
// question. Generation failures degrade to a placeholder.
func (c *Controller) ProvideFeedback(ctx context.Context, id string, index int) (string, error) {
	session, err := c.get(id)
	if err != nil {
		return "", err
	}

	if session.State != StateQuestioning && !session.terminal() {
		return "", fmt.Errorf("provide feedback for session %s in state %s: %w", id, session.State, ErrInvalidState)
	}
	if index < 1 || index > len(session.Transcript) {
		return "", fmt.Errorf("transcript entry %d does not exist in session %s", index, id)
	}

	entry := session.Transcript[index-1]
	if strings.TrimSpace(entry.Answer) == "" {
		return "", fmt.Errorf("transcript entry %d has no recorded answer", index)
	}

	system, user := feedbackPrompts(session, entry)

	feedback, err := c.generator.Complete(ctx, system, user)
	if err != nil {
		c.logger.Warn("feedback generation failed, using placeholder",
			zap.String("interview_id", session.ID),
			zap.Int("question_index", index),
			zap.Error(err),
		)
		feedback = placeholderFeedback
	}

	entry.Feedback = feedback
	return feedback, nil
}

// TerminateEarly stops the interview at the candidate's request. The
// transcript is kept as-is and reports reflect the incompleteness.
func (c *Controller) TerminateEarly(id string) error {
	session, err := c.get(id)
	if err != nil {
		return err
	}

	if session.State != StateCreated && session.State != StateQuestioning {
		return fmt.Errorf("terminate session %s in state %s: %w", id, session.State, ErrInvalidState)
	}

	session.State = StateTerminatedEarly
	session.TerminatedBy = true

	c.logger.Info("interview terminated early",
		zap.String("interview_id", session.ID),
		zap.Int("answered_questions", len(session.Transcript)),
	)

	return nil
}

// GenerateReports produces the candidate feedback and the HR assessment
// from the full transcript, exactly once per session. Generation failures
// degrade to placeholders; a storage failure is returned alongside the
// reports and the already-mutated session, so the write can be retried
// with Sync.
func (c *Controller) GenerateReports(ctx context.Context, id string) (*Reports, error) {
	session, err := c.get(id)
	if err != nil {
		return nil, err
	}

	if !session.terminal() {
		return nil, fmt.Errorf("generate reports for session %s in state %s: %w", id, session.State, ErrInvalidState)
	}

	reports := &Reports{
		Candidate: c.generateReport(ctx, session, candidateReportPrompts, placeholderCandidateReport, "candidate feedback"),
	}
	system, user := c.hrReportPrompts(session)
	reports.HR = c.complete(ctx, session, system, user, placeholderHRAssessment, "hr assessment")

	session.CandidateReport = reports.Candidate
	session.HRAssessment = reports.HR
	session.State = StateReported

	c.logger.Info("interview reports generated", zap.String("interview_id", session.ID))

	if err := c.store.Save(ctx, session); err != nil {
		return reports, fmt.Errorf("persist interview session: %w", err)
	}

	return reports, nil
}

// Sync retries persisting the session. Writes are idempotent
// replacements, so retrying after a storage failure is safe.
func (c *Controller) Sync(ctx context.Context, id string) error {
	session, err := c.get(id)
	if err != nil {
		return err
	}
	if err := c.store.Save(ctx, session); err != nil {
		return fmt.Errorf("persist interview session: %w", err)
	}
	return nil
}

func (c *Controller) generateReport(ctx context.Context, session *Session, prompts func(*Session) (string, string), placeholder, kind string) string {
	system, user := prompts(session)
	return c.complete(ctx, session, system, user, placeholder, kind)
}

func (c *Controller) complete(ctx context.Context, session *Session, system, user, placeholder, kind string) string {
	text, err := c.generator.Complete(ctx, system, user)
	if err != nil {
		c.logger.Warn("report generation failed, using placeholder",
			zap.String("interview_id", session.ID),
			zap.String("report", kind),
			zap.Error(err),
		)
		return placeholder
	}
	return text
}

func (c *Controller) get(id string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}
