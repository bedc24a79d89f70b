// Package form implements the helpdesk request form session: description
// text, displayed user information, attachments and the two asynchronous
// actions (load user information, submit) gated by a single busy flag.
//
// A Controller is safe for concurrent use. The busy flag is held for the
// whole collaborator call while the internal mutex is released, so reads and
// edits keep working while an action is outstanding. Once started, an action
// always runs to completion; cancelling the caller's context does not abort
// it, only the configured action timeout does.
package form

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-request/internal/attachment"
	"github.com/spec-kit/helpdesk-request/internal/collaborator"
	"github.com/spec-kit/helpdesk-request/internal/domain"
	"github.com/spec-kit/helpdesk-request/internal/events"
	apperrors "github.com/spec-kit/helpdesk-request/pkg/util/errorutil"
)

// Options configures a Controller.
type Options struct {
	SessionID     string
	Fetcher       collaborator.UserInfoFetcher
	Submitter     collaborator.RequestSubmitter
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Recorder      Recorder
	ActionTimeout time.Duration
	// OnBusyChange, when set, is called after every busy flag transition
	// with the mutex released.
	OnBusyChange func(busy bool)
	Now          func() time.Time
}

// Controller owns the state of one form session.
type Controller struct {
	sessionID     string
	fetcher       collaborator.UserInfoFetcher
	submitter     collaborator.RequestSubmitter
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	recorder      Recorder
	actionTimeout time.Duration
	onBusyChange  func(bool)
	now           func() time.Time

	mu          sync.Mutex
	description string
	attachments *attachment.Manager
	userInfo    domain.UserInfo
	busy        bool
	busyAction  Action
	loadState   ActionState
	submitState ActionState
	notices     []domain.Notice
	lastResult  *domain.SubmissionResult
	closed      bool
}

// NewController creates a session with placeholder user information, an
// empty description and no attachments.
func NewController(opts Options) *Controller {
	c := &Controller{
		sessionID:     opts.SessionID,
		fetcher:       opts.Fetcher,
		submitter:     opts.Submitter,
		dispatcher:    opts.Dispatcher,
		logger:        opts.Logger,
		recorder:      opts.Recorder,
		actionTimeout: opts.ActionTimeout,
		onBusyChange:  opts.OnBusyChange,
		now:           opts.Now,
		attachments:   attachment.NewManager(),
		userInfo:      domain.PlaceholderUserInfo(),
		loadState:     StateIdle,
		submitState:   StateIdle,
	}
	if c.fetcher == nil {
		c.fetcher = collaborator.NewSimulatedUserInfo(collaborator.DefaultLoadLatency, collaborator.DefaultUserInfo())
	}
	if c.submitter == nil {
		c.submitter = collaborator.NewSimulatedSubmitter(collaborator.DefaultSubmitLatency)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.recorder == nil {
		c.recorder = noopRecorder{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.logger = c.logger.With(zap.String("session_id", c.sessionID))
	return c
}

// SessionID returns the identifier the controller was created with.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// LoadUserInformation replaces the displayed user information with the
// lookup collaborator's answer. It returns ErrBusy without any effect when
// an action is already outstanding.
func (c *Controller) LoadUserInformation(ctx context.Context) error {
	c.mu.Lock()
	if err := c.acquireLocked(ActionLoadUserInfo); err != nil {
		c.mu.Unlock()
		return err
	}
	c.loadState = StatePending
	c.mu.Unlock()
	c.notifyBusy(true)

	started := c.now()
	actx, cancel := c.actionContext(ctx)
	info, err := c.fetcher.FetchUserInfo(actx)
	cancel()
	elapsed := c.now().Sub(started)

	c.mu.Lock()
	c.releaseLocked()
	if err != nil {
		c.loadState = StateFailed
		c.addNoticeLocked(domain.NoticeFailure, MessageLoadFailed)
	} else {
		c.loadState = StateIdle
		c.userInfo = info
	}
	c.mu.Unlock()
	c.notifyBusy(false)

	if err != nil {
		c.logger.Warn("user information lookup failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		c.recorder.RecordFormAction(string(ActionLoadUserInfo), "failure", elapsed)
		c.publish(ctx, events.EventUserInfoFailed, events.CollaboratorFailedPayload{
			Collaborator: "user_info",
			Error:        err.Error(),
		})
		return apperrors.NewCollaboratorFailure("user information lookup", err)
	}

	c.logger.Info("user information loaded", zap.String("ticket_number", info.TicketNumber), zap.Duration("elapsed", elapsed))
	c.recorder.RecordFormAction(string(ActionLoadUserInfo), "success", elapsed)
	c.publish(ctx, events.EventUserInfoLoaded, events.UserInfoLoadedPayload{TicketNumber: info.TicketNumber})
	return nil
}

// Submit sends the description and attachments to the submission
// collaborator. A blank description surfaces a validation notice and returns
// ErrEmptyDescription without entering the pending state. On success the
// description and attachments are cleared; user information is kept.
func (c *Controller) Submit(ctx context.Context) (domain.SubmissionResult, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.SubmissionResult{}, ErrClosed
	}
	if c.busy {
		c.mu.Unlock()
		return domain.SubmissionResult{}, ErrBusy
	}
	description := strings.TrimSpace(c.description)
	if description == "" {
		c.addNoticeLocked(domain.NoticeValidation, MessageDescriptionRequired)
		c.mu.Unlock()
		c.logger.Debug("submit rejected: empty description")
		c.recorder.RecordFormAction(string(ActionSubmit), "rejected", 0)
		c.publish(ctx, events.EventSubmissionRejected, events.SubmissionRejectedPayload{Reason: "empty_description"})
		return domain.SubmissionResult{}, ErrEmptyDescription
	}
	req := domain.SubmissionRequest{
		Description: description,
		Attachments: c.attachments.Files(),
		UserInfo:    c.userInfo,
	}
	c.busy = true
	c.busyAction = ActionSubmit
	c.submitState = StatePending
	c.mu.Unlock()
	c.notifyBusy(true)

	started := c.now()
	actx, cancel := c.actionContext(ctx)
	result, err := c.submitter.SubmitRequest(actx, req)
	cancel()
	elapsed := c.now().Sub(started)

	c.mu.Lock()
	c.releaseLocked()
	if err != nil {
		c.submitState = StateFailed
		c.addNoticeLocked(domain.NoticeFailure, MessageSubmitFailed)
	} else {
		c.submitState = StateIdle
		c.description = ""
		c.attachments.Reset()
		c.lastResult = &result
		c.addNoticeLocked(domain.NoticeSuccess, MessageSubmitted)
	}
	c.mu.Unlock()
	c.notifyBusy(false)

	if err != nil {
		c.logger.Warn("request submission failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		c.recorder.RecordFormAction(string(ActionSubmit), "failure", elapsed)
		c.publish(ctx, events.EventSubmissionFailed, events.CollaboratorFailedPayload{
			Collaborator: "submission",
			Error:        err.Error(),
		})
		return domain.SubmissionResult{}, apperrors.NewCollaboratorFailure("request submission", err)
	}

	c.logger.Info("request submitted",
		zap.String("request_id", result.RequestID),
		zap.Int("attachments", len(req.Attachments)),
		zap.Duration("elapsed", elapsed))
	c.recorder.RecordFormAction(string(ActionSubmit), "success", elapsed)
	c.publish(ctx, events.EventRequestSubmitted, events.RequestSubmittedPayload{
		RequestID:         result.RequestID,
		TicketNumber:      result.TicketNumber,
		DescriptionLength: len(req.Description),
		AttachmentCount:   len(req.Attachments),
		AttachmentBytes:   req.Attachments.TotalBytes(),
	})
	return result, nil
}

// SetDescription replaces the description text. Edits are allowed while an
// action is outstanding.
func (c *Controller) SetDescription(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.description = text
	return nil
}

// Description returns the current description text.
func (c *Controller) Description() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.description
}

// OfferFiles filters candidates and attaches the accepted ones. Rejected
// files are reported in the result and surfaced as a notice.
func (c *Controller) OfferFiles(ctx context.Context, candidates []domain.FileCandidate) (domain.AttachmentList, attachment.OfferResult, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, attachment.OfferResult{}, ErrClosed
	}
	files, result := c.attachments.Offer(candidates)
	if rejected := result.Rejected(); rejected > 0 {
		c.addNoticeLocked(domain.NoticeRejected, rejectionMessage(result))
	}
	c.mu.Unlock()

	c.logger.Debug("attachments offered",
		zap.Int("accepted", result.Accepted),
		zap.Int("rejected", result.Rejected()),
		zap.Int("total", len(files)))
	c.recorder.RecordAttachments(result.Accepted, result.Rejected())
	c.publish(ctx, events.EventAttachmentsOffered, events.AttachmentsOfferedPayload{
		Accepted:         result.Accepted,
		RejectedType:     result.RejectedType,
		RejectedSize:     result.RejectedSize,
		RejectedCapacity: result.RejectedCapacity,
		Total:            len(files),
	})
	return files, result, nil
}

// RemoveAttachment drops the attachment at index. It reports false when the
// index is out of range, in which case nothing changes.
func (c *Controller) RemoveAttachment(ctx context.Context, index int) (domain.AttachmentList, bool, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, false, ErrClosed
	}
	before := c.attachments.Len()
	files := c.attachments.RemoveAt(index)
	c.mu.Unlock()

	removed := len(files) < before
	if removed {
		c.publish(ctx, events.EventAttachmentRemoved, events.AttachmentRemovedPayload{Index: index, Remaining: len(files)})
	}
	return files, removed, nil
}

// Attachments returns a copy of the attachment list.
func (c *Controller) Attachments() domain.AttachmentList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attachments.Files()
}

// UserInfo returns the displayed user information.
func (c *Controller) UserInfo() domain.UserInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userInfo
}

// Busy reports whether an action is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// CanSubmit reports whether the submit trigger is enabled.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

// Notices returns the notice history, newest last.
func (c *Controller) Notices() []domain.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notice(nil), c.notices...)
}

// Snapshot returns a consistent copy of the whole session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		SessionID:   c.sessionID,
		Description: c.description,
		UserInfo:    c.userInfo,
		Attachments: c.attachments.Files(),
		Busy:        c.busy,
		BusyAction:  c.busyAction,
		LoadState:   c.loadState,
		SubmitState: c.submitState,
		CanSubmit:   c.canSubmitLocked(),
		Notices:     append([]domain.Notice(nil), c.notices...),
	}
	if c.lastResult != nil {
		res := *c.lastResult
		snap.LastResult = &res
	}
	return snap
}

// Close discards the session's description and attachments. Further calls
// return ErrClosed. An outstanding action still completes.
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.description = ""
	c.attachments.Reset()
	c.mu.Unlock()

	c.logger.Debug("form session closed")
	c.publish(ctx, events.EventSessionClosed, nil)
}

func (c *Controller) acquireLocked(action Action) error {
	if c.closed {
		return ErrClosed
	}
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	c.busyAction = action
	return nil
}

func (c *Controller) releaseLocked() {
	c.busy = false
	c.busyAction = ActionNone
}

func (c *Controller) canSubmitLocked() bool {
	return !c.closed && !c.busy && strings.TrimSpace(c.description) != ""
}

func (c *Controller) addNoticeLocked(kind domain.NoticeKind, message string) {
	c.notices = append(c.notices, domain.Notice{Kind: kind, Message: message, At: c.now()})
	if len(c.notices) > maxNotices {
		c.notices = append([]domain.Notice(nil), c.notices[len(c.notices)-maxNotices:]...)
	}
}

func (c *Controller) actionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	actx := context.WithoutCancel(ctx)
	if c.actionTimeout > 0 {
		return context.WithTimeout(actx, c.actionTimeout)
	}
	return actx, func() {}
}

func (c *Controller) notifyBusy(busy bool) {
	if c.onBusyChange != nil {
		c.onBusyChange(busy)
	}
}

func (c *Controller) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if c.dispatcher == nil {
		return
	}
	err := c.dispatcher.Publish(context.WithoutCancel(ctx), events.Event{
		Type:      eventType,
		SessionID: c.sessionID,
		Timestamp: c.now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		c.logger.Warn("event handlers failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func rejectionMessage(r attachment.OfferResult) string {
	var reasons []string
	if r.RejectedType > 0 {
		reasons = append(reasons, fmt.Sprintf("%d unsupported type", r.RejectedType))
	}
	if r.RejectedSize > 0 {
		reasons = append(reasons, fmt.Sprintf("%d over %s", r.RejectedSize, attachment.FormatSize(attachment.MaxFileBytes)))
	}
	if r.RejectedCapacity > 0 {
		reasons = append(reasons, fmt.Sprintf("%d over the %d file limit", r.RejectedCapacity, attachment.MaxFiles))
	}
	noun := "files were"
	if r.Rejected() == 1 {
		noun = "file was"
	}
	return fmt.Sprintf("%d %s not attached (%s).", r.Rejected(), noun, strings.Join(reasons, ", "))
}
