package dto

import (
	"fmt"
	"time"

	"github.com/spec-kit/helpdesk-request/internal/attachment"
	"github.com/spec-kit/helpdesk-request/internal/domain"
	"github.com/spec-kit/helpdesk-request/internal/form"
)

// UpdateDescriptionRequest payload.
type UpdateDescriptionRequest struct {
	Description *string `json:"description"`
}

// SessionOpenedResponse is returned when a form session is created.
type SessionOpenedResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Session   SessionResponse `json:"session"`
}

// SessionResponse mirrors everything the form displays.
type SessionResponse struct {
	SessionID       string                   `json:"session_id"`
	Description     string                   `json:"description"`
	UserInfo        domain.UserInfo          `json:"user_info"`
	Attachments     []AttachmentResponse     `json:"attachments"`
	AttachmentCount string                   `json:"attachment_count"`
	MaxFiles        int                      `json:"max_files"`
	MaxFileBytes    int64                    `json:"max_file_bytes"`
	Busy            bool                     `json:"busy"`
	BusyAction      form.Action              `json:"busy_action,omitempty"`
	LoadState       form.ActionState         `json:"load_state"`
	SubmitState     form.ActionState         `json:"submit_state"`
	CanSubmit       bool                     `json:"can_submit"`
	Notices         []domain.Notice          `json:"notices"`
	LastSubmission  *domain.SubmissionResult `json:"last_submission,omitempty"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Size      string `json:"size"`
	Checksum  string `json:"checksum,omitempty"`
}

// OfferResponse reports the outcome of an upload.
type OfferResponse struct {
	Result  attachment.OfferResult `json:"result"`
	Session SessionResponse        `json:"session"`
}

// SubmitResponse acknowledges a submitted request.
type SubmitResponse struct {
	Submission domain.SubmissionResult `json:"submission"`
	Session    SessionResponse         `json:"session"`
}

// NewSessionResponse converts a controller snapshot.
func NewSessionResponse(snap form.Snapshot) SessionResponse {
	files := make([]AttachmentResponse, 0, len(snap.Attachments))
	for i, f := range snap.Attachments {
		files = append(files, AttachmentResponse{
			Index:     i,
			ID:        f.ID,
			FileName:  f.Name,
			MimeType:  f.MimeType,
			SizeBytes: f.SizeBytes,
			Size:      attachment.FormatSize(f.SizeBytes),
			Checksum:  f.Checksum,
		})
	}
	notices := snap.Notices
	if notices == nil {
		notices = []domain.Notice{}
	}
	return SessionResponse{
		SessionID:       snap.SessionID,
		Description:     snap.Description,
		UserInfo:        snap.UserInfo,
		Attachments:     files,
		AttachmentCount: AttachmentCountLabel(len(files)),
		MaxFiles:        attachment.MaxFiles,
		MaxFileBytes:    attachment.MaxFileBytes,
		Busy:            snap.Busy,
		BusyAction:      snap.BusyAction,
		LoadState:       snap.LoadState,
		SubmitState:     snap.SubmitState,
		CanSubmit:       snap.CanSubmit,
		Notices:         notices,
		LastSubmission:  snap.LastResult,
	}
}

// AttachmentCountLabel renders the "n/5 files" badge.
func AttachmentCountLabel(n int) string {
	return fmt.Sprintf("%d/%d files", n, attachment.MaxFiles)
}
