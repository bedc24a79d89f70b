package form

import (
	"time"

	"github.com/spec-kit/helpdesk-request/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-request/pkg/util/errorutil"
)

// Action identifies one of the two asynchronous form actions.
type Action string

const (
	ActionNone         Action = ""
	ActionLoadUserInfo Action = "load_user_info"
	ActionSubmit       Action = "submit"
)

// ActionState is the lifecycle of a single action slot.
type ActionState string

const (
	StateIdle    ActionState = "idle"
	StatePending ActionState = "pending"
	StateFailed  ActionState = "failed"
)

// User-facing notice texts.
const (
	MessageDescriptionRequired = "Please provide a description of your request."
	MessageSubmitted           = "Request submitted successfully!"
	MessageLoadFailed          = "Unable to load user information. Please try again."
	MessageSubmitFailed        = "Your request could not be submitted. Please try again."
)

const maxNotices = 20

var (
	// ErrBusy is returned when an action is triggered while another is outstanding.
	ErrBusy = apperrors.NewBusy("another action is already in progress")
	// ErrEmptyDescription is returned by Submit when the description is blank.
	ErrEmptyDescription = apperrors.NewValidationError(MessageDescriptionRequired, map[string]any{"field": "description"})
	// ErrClosed is returned once the session has been closed.
	ErrClosed = apperrors.NewNotFound("form session", nil)
)

// Snapshot is a consistent copy of a form session's state.
type Snapshot struct {
	SessionID   string
	Description string
	UserInfo    domain.UserInfo
	Attachments domain.AttachmentList
	Busy        bool
	BusyAction  Action
	LoadState   ActionState
	SubmitState ActionState
	CanSubmit   bool
	Notices     []domain.Notice
	LastResult  *domain.SubmissionResult
}

// Recorder receives form counters. observability.Metrics satisfies it.
type Recorder interface {
	RecordFormAction(action, outcome string, duration time.Duration)
	RecordAttachments(accepted, rejected int)
}

type noopRecorder struct{}

func (noopRecorder) RecordFormAction(string, string, time.Duration) {}
func (noopRecorder) RecordAttachments(int, int)                     {}
