package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-request/internal/auth"
	"github.com/spec-kit/helpdesk-request/internal/collaborator"
	"github.com/spec-kit/helpdesk-request/internal/events"
	"github.com/spec-kit/helpdesk-request/internal/form"
	"github.com/spec-kit/helpdesk-request/internal/session"
)

// SessionService opens and closes form sessions.
type SessionService struct {
	store         *session.Store
	tokens        *auth.TokenManager
	fetcher       collaborator.UserInfoFetcher
	submitter     collaborator.RequestSubmitter
	dispatcher    events.Dispatcher
	recorder      form.Recorder
	logger        *zap.Logger
	actionTimeout time.Duration
}

// SessionDependencies bundles collaborators for the session service.
type SessionDependencies struct {
	Store         *session.Store
	Tokens        *auth.TokenManager
	Fetcher       collaborator.UserInfoFetcher
	Submitter     collaborator.RequestSubmitter
	Dispatcher    events.Dispatcher
	Recorder      form.Recorder
	Logger        *zap.Logger
	ActionTimeout time.Duration
}

// OpenedSession is returned when a new session is created.
type OpenedSession struct {
	Controller *form.Controller
	Token      string
	ExpiresAt  time.Time
}

// NewSessionService constructs the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		store:         deps.Store,
		tokens:        deps.Tokens,
		fetcher:       deps.Fetcher,
		submitter:     deps.Submitter,
		dispatcher:    deps.Dispatcher,
		recorder:      deps.Recorder,
		logger:        logger,
		actionTimeout: deps.ActionTimeout,
	}
}

// Open creates a form session and a token granting access to it.
func (s *SessionService) Open(ctx context.Context) (*OpenedSession, error) {
	id := uuid.NewString()
	token, expiresAt, err := s.tokens.GenerateToken(id)
	if err != nil {
		return nil, err
	}

	controller := form.NewController(form.Options{
		SessionID:     id,
		Fetcher:       s.fetcher,
		Submitter:     s.submitter,
		Dispatcher:    s.dispatcher,
		Logger:        s.logger,
		Recorder:      s.recorder,
		ActionTimeout: s.actionTimeout,
	})
	s.store.Add(controller)

	s.logger.Info("form session opened", zap.String("session_id", id), zap.Int("live_sessions", s.store.Len()))
	return &OpenedSession{Controller: controller, Token: token, ExpiresAt: expiresAt}, nil
}

// Close discards a form session and everything attached to it.
func (s *SessionService) Close(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("form session closed", zap.String("session_id", sessionID))
	return nil
}
