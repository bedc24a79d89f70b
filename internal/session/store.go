// Package session keeps the live form sessions of the service in memory.
// Sessions are discarded after an idle period, on explicit close, or when the
// process exits; nothing is persisted.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-request/internal/form"
	apperrors "github.com/spec-kit/helpdesk-request/pkg/util/errorutil"
)

type entry struct {
	controller *form.Controller
	lastSeen   time.Time
}

// Store maps session ids to form controllers.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Add registers a controller under its session id.
func (s *Store) Add(c *form.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[c.SessionID()] = &entry{controller: c, lastSeen: s.now()}
}

// Get returns the controller for id and marks the session as active.
func (s *Store) Get(id string) (*form.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFound("form session", map[string]any{"session_id": id})
	}
	e.lastSeen = s.now()
	return e.controller, nil
}

// Delete closes and forgets a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return apperrors.NewNotFound("form session", map[string]any{"session_id": id})
	}
	e.controller.Close(ctx)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep discards sessions idle for longer than the ttl. Sessions with an
// outstanding action are kept until it completes.
func (s *Store) Sweep(ctx context.Context) int {
	cutoff := s.now().Add(-s.ttl)
	var expired []*form.Controller

	s.mu.Lock()
	for id, e := range s.sessions {
		if e.lastSeen.After(cutoff) || e.controller.Busy() {
			continue
		}
		expired = append(expired, e.controller)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, c := range expired {
		c.Close(ctx)
	}
	if len(expired) > 0 {
		s.logger.Info("expired form sessions discarded", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps on every interval until ctx is done, then closes every session.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.CloseAll(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// CloseAll closes and forgets every session.
func (s *Store) CloseAll(ctx context.Context) {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()
	for _, e := range all {
		e.controller.Close(ctx)
	}
}
