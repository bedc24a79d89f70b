// Package collaborator defines the external services consumed by a form
// session and ships simulated implementations with fixed latencies.
package collaborator

import (
	"context"

	"github.com/spec-kit/helpdesk-request/internal/domain"
)

// UserInfoFetcher looks up the requester and ticket context.
type UserInfoFetcher interface {
	FetchUserInfo(ctx context.Context) (domain.UserInfo, error)
}

// RequestSubmitter delivers a completed helpdesk request.
type RequestSubmitter interface {
	SubmitRequest(ctx context.Context, req domain.SubmissionRequest) (domain.SubmissionResult, error)
}

// UserInfoFetcherFunc adapts a function to UserInfoFetcher.
type UserInfoFetcherFunc func(ctx context.Context) (domain.UserInfo, error)

func (f UserInfoFetcherFunc) FetchUserInfo(ctx context.Context) (domain.UserInfo, error) {
	return f(ctx)
}

// RequestSubmitterFunc adapts a function to RequestSubmitter.
type RequestSubmitterFunc func(ctx context.Context, req domain.SubmissionRequest) (domain.SubmissionResult, error)

func (f RequestSubmitterFunc) SubmitRequest(ctx context.Context, req domain.SubmissionRequest) (domain.SubmissionResult, error) {
	return f(ctx, req)
}
