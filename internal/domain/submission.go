package domain

import "time"

// SubmissionRequest is handed to the submission collaborator.
type SubmissionRequest struct {
	Description string
	Attachments AttachmentList
	UserInfo    UserInfo
}

// SubmissionResult acknowledges an accepted helpdesk request.
type SubmissionResult struct {
	RequestID    string    `json:"request_id"`
	TicketNumber string    `json:"ticket_number"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
