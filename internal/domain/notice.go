package domain

import "time"

// NoticeKind classifies notices surfaced to the requester.
type NoticeKind string

const (
	NoticeValidation NoticeKind = "validation"
	NoticeSuccess    NoticeKind = "success"
	NoticeFailure    NoticeKind = "failure"
	NoticeRejected   NoticeKind = "rejected"
)

// Notice is a user-facing message produced by a form action.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

// Blocking reports whether the notice must be acknowledged before continuing.
func (n Notice) Blocking() bool {
	return n.Kind == NoticeValidation || n.Kind == NoticeFailure
}
