package collaborator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-request/internal/domain"
)

const (
	DefaultLoadLatency   = 1500 * time.Millisecond
	DefaultSubmitLatency = 2000 * time.Millisecond
)

// DefaultUserInfo is the payload returned by the simulated lookup.
func DefaultUserInfo() domain.UserInfo {
	return domain.UserInfo{
		TicketNumber: "HD-2024-001234",
		PhoneNumber:  "+1 (555) 123-4567",
		Name:         "John Doe",
		Email:        "john.doe@company.com",
	}
}

// failure holds an injectable error shared by the simulated collaborators.
type failure struct {
	mu  sync.Mutex
	err error
}

// FailWith makes every following call return err; nil restores success.
func (f *failure) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *failure) current() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// SimulatedUserInfo returns a fixed record after a fixed delay.
type SimulatedUserInfo struct {
	failure
	Latency time.Duration
	Payload domain.UserInfo
}

// NewSimulatedUserInfo builds the lookup stand-in. A zero latency is allowed.
func NewSimulatedUserInfo(latency time.Duration, payload domain.UserInfo) *SimulatedUserInfo {
	return &SimulatedUserInfo{Latency: latency, Payload: payload}
}

func (s *SimulatedUserInfo) FetchUserInfo(ctx context.Context) (domain.UserInfo, error) {
	if err := wait(ctx, s.Latency); err != nil {
		return domain.UserInfo{}, err
	}
	if err := s.current(); err != nil {
		return domain.UserInfo{}, err
	}
	return s.Payload, nil
}

// SimulatedSubmitter acknowledges every request after a fixed delay.
type SimulatedSubmitter struct {
	failure
	Latency time.Duration
	now     func() time.Time

	recvMu   sync.Mutex
	received []domain.SubmissionRequest
}

// NewSimulatedSubmitter builds the submission stand-in.
func NewSimulatedSubmitter(latency time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{Latency: latency, now: time.Now}
}

func (s *SimulatedSubmitter) SubmitRequest(ctx context.Context, req domain.SubmissionRequest) (domain.SubmissionResult, error) {
	if err := wait(ctx, s.Latency); err != nil {
		return domain.SubmissionResult{}, err
	}
	if err := s.current(); err != nil {
		return domain.SubmissionResult{}, err
	}

	s.recvMu.Lock()
	s.received = append(s.received, req)
	s.recvMu.Unlock()

	return domain.SubmissionResult{
		RequestID:    uuid.NewString(),
		TicketNumber: req.UserInfo.TicketNumber,
		SubmittedAt:  s.now().UTC(),
	}, nil
}

// Received returns the requests acknowledged so far.
func (s *SimulatedSubmitter) Received() []domain.SubmissionRequest {
	s.recvMu.Lock()
	defer s.recvMu.Unlock()
	return append([]domain.SubmissionRequest(nil), s.received...)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
