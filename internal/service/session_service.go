package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"interviewd/internal/cache"
	"interviewd/internal/config"
	"interviewd/internal/grading"
	"interviewd/internal/interview"
	"interviewd/internal/model"
	"interviewd/internal/repository"
	"interviewd/internal/speech"
)

// ErrSessionNotFound is returned for operations on unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// completedSessionGrace is how long a completed session stays addressable
// in memory after End. The persisted record outlives the live session; the
// grace window only covers result reads racing the eviction.
const completedSessionGrace = 5 * time.Minute

// Broadcaster pushes session events to connected clients. The ws hub
// implements it; a nil broadcaster drops events.
type Broadcaster interface {
	BroadcastSessionState(sessionID string, snap interview.Snapshot)
	CueSpeak(sessionID, text string)
}

// SessionService manages live interview sessions: one orchestrator (plus its
// speech relays) per session, and read access to finished records. Live
// sessions share no mutable state with each other.
type SessionService struct {
	selector    interview.Selector
	aiCfg       *config.AIConfig
	credentials cache.CredentialStore
	repo        repository.SessionRepo
	recent      cache.SessionCache
	logger      *slog.Logger
	broadcaster Broadcaster

	// grace delays eviction of completed sessions; tests shorten it.
	grace time.Duration

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

type liveSession struct {
	userID     string
	orch       *interview.Orchestrator
	recognizer *speech.RelayRecognizer
	synth      *speech.RelaySynthesizer
	flow       *interview.VoiceFlow
}

// NewSessionService creates the session service.
func NewSessionService(
	selector interview.Selector,
	aiCfg *config.AIConfig,
	credentials cache.CredentialStore,
	repo repository.SessionRepo,
	recent cache.SessionCache,
	logger *slog.Logger,
) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		selector:    selector,
		aiCfg:       aiCfg,
		credentials: credentials,
		repo:        repo,
		recent:      recent,
		logger:      logger,
		grace:       completedSessionGrace,
		sessions:    make(map[string]*liveSession),
	}
}

// SetBroadcaster wires the ws hub for session events.
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// recordStore adapts the repo + recent cache into the orchestrator's store.
type recordStore struct {
	repo   repository.SessionRepo
	recent cache.SessionCache
	logger *slog.Logger
}

func (st *recordStore) Write(ctx context.Context, userID string, rec *model.SessionRecord) error {
	if err := st.repo.Write(ctx, userID, rec); err != nil {
		return err
	}
	if st.recent != nil {
		if err := st.recent.Set(ctx, rec); err != nil {
			st.logger.Warn("session cache write failed", "session", rec.SessionID, "error", err)
		}
	}
	return nil
}

// Start creates a session for the user and begins the question phase. The
// grading backend is fixed here for the session's lifetime; a per-user
// stored credential overrides the process-level one.
func (s *SessionService) Start(ctx context.Context, userID string, provider config.Provider, topics []string, mode model.SelectionMode, count int) (interview.Snapshot, error) {
	if !provider.Valid() {
		return interview.Snapshot{}, &interview.ValidationError{Reason: fmt.Sprintf("unknown provider %q", provider)}
	}

	aiCfg := *s.aiCfg
	if s.credentials != nil {
		if key, err := s.credentials.Get(ctx, userID, provider); err != nil {
			s.logger.Warn("credential lookup failed", "user", userID, "error", err)
		} else if key != "" {
			switch provider {
			case config.ProviderPerplexity:
				aiCfg.Perplexity.APIKey = key
			default:
				aiCfg.OpenAI.APIKey = key
			}
		}
	}

	grader := grading.NewClient(&aiCfg, provider)
	recognizer := speech.NewRelayRecognizer()

	live := &liveSession{userID: userID, recognizer: recognizer}
	orch := interview.New(userID, s.selector, grader, &recordStore{repo: s.repo, recent: s.recent, logger: s.logger},
		interview.WithLogger(s.logger),
		interview.WithNotifier(func(snap interview.Snapshot) {
			if s.broadcaster != nil {
				s.broadcaster.BroadcastSessionState(snap.SessionID, snap)
			}
		}),
	)
	live.orch = orch
	live.synth = speech.NewRelaySynthesizer(func(text string) {
		if s.broadcaster != nil {
			s.broadcaster.CueSpeak(orch.SessionID(), text)
		}
	})
	live.flow = interview.NewVoiceFlow(orch, live.synth, recognizer, interview.DefaultSilenceDelay, s.logger)

	s.mu.Lock()
	s.sessions[orch.SessionID()] = live
	s.mu.Unlock()

	if err := orch.Start(ctx, topics, mode, count); err != nil {
		if interview.IsValidation(err) {
			s.mu.Lock()
			delete(s.sessions, orch.SessionID())
			s.mu.Unlock()
		}
		return orch.Snapshot(), err
	}
	return orch.Snapshot(), nil
}

func (s *SessionService) live(userID, sessionID string) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live, ok := s.sessions[sessionID]
	if !ok || live.userID != userID {
		return nil, ErrSessionNotFound
	}
	return live, nil
}

// Submit grades one answer for the session.
func (s *SessionService) Submit(ctx context.Context, userID, sessionID, text string) (interview.Snapshot, error) {
	live, err := s.live(userID, sessionID)
	if err != nil {
		return interview.Snapshot{}, err
	}
	err = live.orch.Submit(ctx, text)
	return live.orch.Snapshot(), err
}

// End evaluates the session and hands the record to persistence. On failure
// the live session stays addressable so the evaluation can be retried; on
// success it is evicted after a grace window, leaving the persisted record
// as the only copy.
func (s *SessionService) End(ctx context.Context, userID, sessionID string) (*model.SessionRecord, error) {
	live, err := s.live(userID, sessionID)
	if err != nil {
		return nil, err
	}
	rec, err := live.orch.End(ctx)
	if err == nil {
		time.AfterFunc(s.grace, func() { s.forget(sessionID) })
	}
	return rec, err
}

func (s *SessionService) forget(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Reset discards the session's in-memory state and forgets it.
func (s *SessionService) Reset(userID, sessionID string) error {
	live, err := s.live(userID, sessionID)
	if err != nil {
		return err
	}
	live.orch.Reset()
	s.forget(sessionID)
	return nil
}

// Snapshot returns the live session's current state.
func (s *SessionService) Snapshot(userID, sessionID string) (interview.Snapshot, error) {
	live, err := s.live(userID, sessionID)
	if err != nil {
		return interview.Snapshot{}, err
	}
	return live.orch.Snapshot(), nil
}

// AskCurrent runs the spoken question-answer cycle for the active question.
// The cycle outlives the triggering request, so it runs detached from its
// cancellation.
func (s *SessionService) AskCurrent(ctx context.Context, userID, sessionID string) error {
	live, err := s.live(userID, sessionID)
	if err != nil {
		return err
	}
	go live.flow.AskCurrent(context.WithoutCancel(ctx))
	return nil
}

// PushTranscript feeds a client-side recognition update into the session's
// relay recognizer.
func (s *SessionService) PushTranscript(userID, sessionID, text string) error {
	live, err := s.live(userID, sessionID)
	if err != nil {
		return err
	}
	live.recognizer.Push(text)
	return nil
}

// PlaybackDone signals that the client finished (or failed) speaking the
// current cue.
func (s *SessionService) PlaybackDone(userID, sessionID string) error {
	live, err := s.live(userID, sessionID)
	if err != nil {
		return err
	}
	live.synth.PlaybackDone()
	return nil
}

// Record returns a finished session record, trying the recent cache first.
func (s *SessionService) Record(ctx context.Context, userID, sessionID string) (*model.SessionRecord, error) {
	if s.recent != nil {
		if rec, err := s.recent.Get(ctx, userID, sessionID); err == nil && rec != nil {
			return rec, nil
		}
	}
	return s.repo.Read(ctx, userID, sessionID)
}

// History lists the user's finished sessions, newest first.
func (s *SessionService) History(ctx context.Context, userID string, limit int64) ([]*model.SessionRecord, error) {
	return s.repo.List(ctx, userID, limit)
}
