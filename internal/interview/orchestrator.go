// Package interview owns the mock-interview session state machine: question
// cursor, per-question answer/feedback log, end-of-interview evaluation, and
// persistence handoff. One Orchestrator drives one logical session;
// independent sessions get independent instances and share nothing.
package interview

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"interviewd/internal/model"
)

const (
	minQuestions = 1
	maxQuestions = 50
)

// Grader provides per-answer feedback and end-of-interview evaluation.
type Grader interface {
	AskQuestion(ctx context.Context, questionText, answerText string) (string, error)
	Evaluate(ctx context.Context, questions, answers, referenceAnswers []string) (*model.Evaluation, error)
}

// Selector picks the session's questions from the configured source.
type Selector interface {
	Select(ctx context.Context, topics []string, mode model.SelectionMode, count int) ([]model.Question, error)
}

// RecordStore persists finished-session records. A write failure never
// reverts a completed session.
type RecordStore interface {
	Write(ctx context.Context, userID string, rec *model.SessionRecord) error
}

// Snapshot is an immutable view of session state, emitted to observers after
// every transition.
type Snapshot struct {
	SessionID  string            `json:"sessionId"`
	Phase      Phase             `json:"phase"`
	Topics     []string          `json:"topics,omitempty"`
	Questions  []model.Question  `json:"questions,omitempty"`
	Cursor     int               `json:"cursor"`
	Answers    []string          `json:"answers,omitempty"`
	Feedback   []string          `json:"feedback,omitempty"`
	Evaluation *model.Evaluation `json:"evaluation,omitempty"`
	LastError  string            `json:"lastError,omitempty"`
}

// CurrentQuestion returns the active question, or nil once the question
// phase is exhausted.
func (s Snapshot) CurrentQuestion() *model.Question {
	if s.Cursor < len(s.Questions) {
		q := s.Questions[s.Cursor]
		return &q
	}
	return nil
}

// Exhausted reports whether every planned question has been answered.
func (s Snapshot) Exhausted() bool {
	return len(s.Questions) > 0 && s.Cursor >= len(s.Questions)
}

// Orchestrator drives one interview session. Its operations are safe for
// concurrent use, but grading calls are serialized: a Submit or End issued
// while another is in flight is rejected with ErrBusy rather than racing the
// grader or reordering the answer log.
type Orchestrator struct {
	userID   string
	selector Selector
	grader   Grader
	store    RecordStore
	logger   *slog.Logger
	notify   func(Snapshot)

	mu         sync.Mutex
	sessionID  string
	phase      Phase
	topics     []string
	questions  []model.Question
	cursor     int
	answers    []string
	feedback   []string
	evaluation *model.Evaluation
	lastError  string
	startedAt  time.Time
	inFlight   bool
	epoch      int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNotifier registers a state-change observer. It is invoked after every
// transition, outside the state lock.
func WithNotifier(fn func(Snapshot)) Option {
	return func(o *Orchestrator) { o.notify = fn }
}

// WithLogger sets the orchestrator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an orchestrator for one user's session. All collaborators are
// injected; there are no package-level singletons.
func New(userID string, selector Selector, grader Grader, store RecordStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		userID:    userID,
		selector:  selector,
		grader:    grader,
		store:     store,
		logger:    slog.Default(),
		sessionID: uuid.NewString(),
		phase:     PhaseIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SessionID returns the session's stable identifier.
func (o *Orchestrator) SessionID() string { return o.sessionID }

// Snapshot returns a copy of the current session state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:  o.sessionID,
		Phase:      o.phase,
		Topics:     append([]string(nil), o.topics...),
		Questions:  append([]model.Question(nil), o.questions...),
		Cursor:     o.cursor,
		Answers:    append([]string(nil), o.answers...),
		Feedback:   append([]string(nil), o.feedback...),
		LastError:  o.lastError,
	}
	if o.evaluation != nil {
		ev := *o.evaluation
		snap.Evaluation = &ev
	}
	return snap
}

func (o *Orchestrator) emit(snap Snapshot) {
	if o.notify != nil {
		o.notify(snap)
	}
}

// Start loads and selects the session's questions and activates the
// question phase. Parameter violations return a ValidationError with no
// state change; a question-source failure moves the session to Failed with
// no partial Active state.
func (o *Orchestrator) Start(ctx context.Context, topics []string, mode model.SelectionMode, count int) error {
	if len(topics) == 0 {
		return &ValidationError{Reason: "no topics selected"}
	}
	if count < minQuestions || count > maxQuestions {
		return &ValidationError{Reason: "question count out of range"}
	}
	if !mode.Valid() {
		return &ValidationError{Reason: "unknown selection mode"}
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return ErrBusy
	}
	if o.phase != PhaseIdle {
		o.mu.Unlock()
		return ErrNotIdle
	}
	o.phase = PhaseLoading
	o.topics = append([]string(nil), topics...)
	o.inFlight = true
	epoch := o.epoch
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.emit(snap)

	questions, err := o.selector.Select(ctx, topics, mode, count)

	o.mu.Lock()
	o.inFlight = false
	if o.epoch != epoch {
		// Session was reset while loading; drop the result.
		o.mu.Unlock()
		return err
	}
	if err != nil {
		o.phase = PhaseFailed
		o.lastError = err.Error()
		snap = o.snapshotLocked()
		o.mu.Unlock()
		o.emit(snap)
		return err
	}
	o.questions = questions
	o.cursor = 0
	o.answers = nil
	o.feedback = nil
	o.evaluation = nil
	o.lastError = ""
	o.startedAt = time.Now()
	o.phase = PhaseActive
	snap = o.snapshotLocked()
	o.mu.Unlock()
	o.emit(snap)
	return nil
}

// Submit grades one answer to the current question and advances the cursor.
// Blank answers are silently ignored. A grading failure records lastError
// and leaves cursor, answers, and feedback untouched so the caller can retry
// the same question; the session stays Active either way.
func (o *Orchestrator) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return ErrBusy
	}
	if o.phase != PhaseActive {
		o.mu.Unlock()
		return ErrNotActive
	}
	if o.cursor >= len(o.questions) {
		o.mu.Unlock()
		return ErrExhausted
	}
	q := o.questions[o.cursor]
	o.inFlight = true
	epoch := o.epoch
	o.mu.Unlock()

	feedback, err := o.grader.AskQuestion(ctx, q.Text, text)

	o.mu.Lock()
	o.inFlight = false
	if o.epoch != epoch {
		o.mu.Unlock()
		return err
	}
	if err != nil {
		o.lastError = err.Error()
		snap := o.snapshotLocked()
		o.mu.Unlock()
		o.logger.Warn("answer grading failed", "session", o.sessionID, "error", err)
		o.emit(snap)
		return err
	}
	o.answers = append(o.answers, text)
	o.feedback = append(o.feedback, feedback)
	o.cursor++
	o.lastError = ""
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.emit(snap)
	return nil
}

// End runs the end-of-interview evaluation and, on success, completes the
// session and hands the finished record to the store. Partial interviews are
// gradable. An evaluation failure moves the session to Failed; End may be
// called again to retry without re-asking answered questions. The store
// write is asynchronous and its failure never reverts Complete.
func (o *Orchestrator) End(ctx context.Context) (*model.SessionRecord, error) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	// Failed-with-questions means a prior evaluation attempt failed; the
	// answer log is intact, so End is retryable from there.
	if o.phase != PhaseActive && !(o.phase == PhaseFailed && len(o.questions) > 0) {
		o.mu.Unlock()
		return nil, ErrNotActive
	}
	o.phase = PhaseEvaluating
	questions := make([]string, len(o.questions))
	refs := make([]string, len(o.questions))
	for i, q := range o.questions {
		questions[i] = q.Text
		refs[i] = q.ReferenceAnswer
	}
	answers := append([]string(nil), o.answers...)
	o.inFlight = true
	epoch := o.epoch
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.emit(snap)

	evaluation, err := o.grader.Evaluate(ctx, questions, answers, refs)

	o.mu.Lock()
	o.inFlight = false
	if o.epoch != epoch {
		o.mu.Unlock()
		return nil, err
	}
	if err != nil {
		o.phase = PhaseFailed
		o.lastError = err.Error()
		snap = o.snapshotLocked()
		o.mu.Unlock()
		o.logger.Warn("evaluation failed", "session", o.sessionID, "error", err)
		o.emit(snap)
		return nil, err
	}

	o.evaluation = evaluation
	o.lastError = ""
	o.phase = PhaseComplete
	record := &model.SessionRecord{
		SessionID:  o.sessionID,
		UserID:     o.userID,
		Topic:      strings.Join(o.topics, ", "),
		Score:      evaluation.OverallScore,
		StartedAt:  o.startedAt,
		FinishedAt: time.Now(),
		Transcript: strings.Join(o.answers, "\n"),
		Feedback:   strings.Join(o.feedback, "\n"),
		Evaluation: *evaluation,
	}
	snap = o.snapshotLocked()
	o.mu.Unlock()
	o.emit(snap)

	if o.store != nil {
		go o.persist(record)
	}
	return record, nil
}

// persist writes the finished record in the background. The in-memory
// evaluation result stays available to the caller regardless of outcome.
func (o *Orchestrator) persist(record *model.SessionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := o.store.Write(ctx, o.userID, record); err != nil {
		o.logger.Error("failed to persist session record",
			"session", record.SessionID, "user", o.userID, "error", err)
	}
}

// Reset returns the session to Idle from any state, discarding all
// in-memory session data. A grading call still in flight when Reset is
// called has its eventual result dropped.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.epoch++
	o.sessionID = uuid.NewString()
	o.phase = PhaseIdle
	o.topics = nil
	o.questions = nil
	o.cursor = 0
	o.answers = nil
	o.feedback = nil
	o.evaluation = nil
	o.lastError = ""
	o.inFlight = false
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.emit(snap)
}
