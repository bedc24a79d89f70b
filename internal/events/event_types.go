package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserInfoLoaded     EventType = "user_info_loaded"
	EventUserInfoFailed     EventType = "user_info_failed"
	EventRequestSubmitted   EventType = "request_submitted"
	EventSubmissionFailed   EventType = "submission_failed"
	EventSubmissionRejected EventType = "submission_rejected"
	EventAttachmentsOffered EventType = "attachments_offered"
	EventAttachmentRemoved  EventType = "attachment_removed"
	EventSessionClosed      EventType = "session_closed"
)

// AllEventTypes lists every event type, for subscribers that want everything.
func AllEventTypes() []EventType {
	return []EventType{
		EventUserInfoLoaded,
		EventUserInfoFailed,
		EventRequestSubmitted,
		EventSubmissionFailed,
		EventSubmissionRejected,
		EventAttachmentsOffered,
		EventAttachmentRemoved,
		EventSessionClosed,
	}
}

// Event represents a form lifecycle event. Payloads never carry the
// description text or file content.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserInfoLoadedPayload payload.
type UserInfoLoadedPayload struct {
	TicketNumber string `json:"ticket_number"`
}

// CollaboratorFailedPayload payload.
type CollaboratorFailedPayload struct {
	Collaborator string `json:"collaborator"`
	Error        string `json:"error"`
}

// RequestSubmittedPayload payload.
type RequestSubmittedPayload struct {
	RequestID         string `json:"request_id"`
	TicketNumber      string `json:"ticket_number"`
	DescriptionLength int    `json:"description_length"`
	AttachmentCount   int    `json:"attachment_count"`
	AttachmentBytes   int64  `json:"attachment_bytes"`
}

// SubmissionRejectedPayload payload.
type SubmissionRejectedPayload struct {
	Reason string `json:"reason"`
}

// AttachmentsOfferedPayload payload.
type AttachmentsOfferedPayload struct {
	Accepted         int `json:"accepted"`
	RejectedType     int `json:"rejected_type"`
	RejectedSize     int `json:"rejected_size"`
	RejectedCapacity int `json:"rejected_capacity"`
	Total            int `json:"total"`
}

// AttachmentRemovedPayload payload.
type AttachmentRemovedPayload struct {
	Index     int `json:"index"`
	Remaining int `json:"remaining"`
}
