package collaborator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-request/internal/domain"
)

func TestSimulatedUserInfo(t *testing.T) {
	s := NewSimulatedUserInfo(5*time.Millisecond, DefaultUserInfo())

	start := time.Now()
	info, err := s.FetchUserInfo(context.Background())
	if err != nil {
		t.Fatalf("FetchUserInfo: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("returned after %v, expected the configured latency", elapsed)
	}
	if info != DefaultUserInfo() {
		t.Errorf("unexpected payload %+v", info)
	}
}

func TestSimulatedUserInfoFailure(t *testing.T) {
	s := NewSimulatedUserInfo(0, DefaultUserInfo())
	boom := errors.New("directory offline")
	s.FailWith(boom)

	if _, err := s.FetchUserInfo(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}

	s.FailWith(nil)
	if _, err := s.FetchUserInfo(context.Background()); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
}

func TestSimulatedSubmitterHonorsDeadline(t *testing.T) {
	s := NewSimulatedSubmitter(time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := s.SubmitRequest(ctx, domain.SubmissionRequest{Description: "x"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if len(s.Received()) != 0 {
		t.Fatal("timed out request should not be recorded")
	}
}

func TestSimulatedSubmitter(t *testing.T) {
	s := NewSimulatedSubmitter(0)
	req := domain.SubmissionRequest{
		Description: "Printer broken",
		UserInfo:    DefaultUserInfo(),
	}

	res, err := s.SubmitRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	if res.RequestID == "" || res.TicketNumber != "HD-2024-001234" {
		t.Errorf("unexpected result %+v", res)
	}
	if got := s.Received(); len(got) != 1 || got[0].Description != "Printer broken" {
		t.Errorf("unexpected received %+v", got)
	}
}
