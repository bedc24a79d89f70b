package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-request/internal/api/dto"
	"github.com/spec-kit/helpdesk-request/internal/attachment"
	"github.com/spec-kit/helpdesk-request/internal/auth"
	"github.com/spec-kit/helpdesk-request/internal/domain"
	"github.com/spec-kit/helpdesk-request/internal/form"
	"github.com/spec-kit/helpdesk-request/internal/service"
	apperrors "github.com/spec-kit/helpdesk-request/pkg/util/errorutil"
)

// uploadField is the multipart field carrying offered files.
const uploadField = "files"

// SessionHandler serves the helpdesk request form endpoints.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{service: sessionService}
}

// Open POST /sessions.
func (h *SessionHandler) Open(c *fiber.Ctx) error {
	opened, err := h.service.Open(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.SessionOpenedResponse{
		Token:     opened.Token,
		ExpiresAt: opened.ExpiresAt,
		Session:   dto.NewSessionResponse(opened.Controller.Snapshot()),
	}})
}

// Get GET /session.
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	controller, err := controllerFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(controller.Snapshot())})
}

// UpdateDescription PUT /session/description.
func (h *SessionHandler) UpdateDescription(c *fiber.Ctx) error {
	controller, err := controllerFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Description == nil {
		return apperrors.NewValidationError("description required", map[string]any{"field": "description"})
	}
	if err := controller.SetDescription(*req.Description); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(controller.Snapshot())})
}

// LoadUserInfo POST /session/user-info/load.
func (h *SessionHandler) LoadUserInfo(c *fiber.Ctx) error {
	controller, err := controllerFrom(c)
	if err != nil {
		return err
	}
	if err := controller.LoadUserInformation(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(controller.Snapshot())})
}

// OfferAttachments POST /session/attachments.
func (h *SessionHandler) OfferAttachments(c *fiber.Ctx) error {
	controller, err := controllerFrom(c)
	if err != nil {
		return err
	}
	mf, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form required", nil)
	}
	headers := mf.File[uploadField]
	if len(headers) == 0 {
		return apperrors.NewValidationError("no files provided", map[string]any{"field": uploadField})
	}

	candidates := make([]domain.FileCandidate, 0, len(headers))
	for _, fh := range headers {
		candidate, err := readCandidate(fh)
		if err != nil {
			return apperrors.NewValidationError("unreadable file", map[string]any{"file": fh.Filename})
		}
		candidates = append(candidates, candidate)
	}

	_, result, err := controller.OfferFiles(c.UserContext(), candidates)
	if err != nil {
		return err
	}
	if result.Accepted == 0 && result.Rejected() > 0 {
		return apperrors.NewAttachmentRejected("no files were attached", map[string]any{
			"rejected_type":     result.RejectedType,
			"rejected_size":     result.RejectedSize,
			"rejected_capacity": result.RejectedCapacity,
			"rejections":        result.Rejections,
		})
	}
	return c.JSON(fiber.Map{"data": dto.OfferResponse{
		Result:  result,
		Session: dto.NewSessionResponse(controller.Snapshot()),
	}})
}

// RemoveAttachment DELETE /session/attachments/:index.
func (h *SessionHandler) RemoveAttachment(c *fiber.Ctx) error {
	controller, err := controllerFrom(c)
	if err != nil {
		return err
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return apperrors.NewValidationError("index must be an integer", map[string]any{"field": "index"})
	}
	_, removed, err := controller.RemoveAttachment(c.UserContext(), index)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.NewNotFound("attachment", map[string]any{"index": index})
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(controller.Snapshot())})
}

// Submit POST /session/submit.
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	controller, err := controllerFrom(c)
	if err != nil {
		return err
	}
	result, err := controller.Submit(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SubmitResponse{
		Submission: result,
		Session:    dto.NewSessionResponse(controller.Snapshot()),
	}})
}

// Close DELETE /session.
func (h *SessionHandler) Close(c *fiber.Ctx) error {
	controller, err := controllerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Close(c.UserContext(), controller.SessionID()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func controllerFrom(c *fiber.Ctx) (*form.Controller, error) {
	controller, ok := auth.ControllerFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("form session required")
	}
	return controller, nil
}

// readCandidate loads an uploaded part. Oversized parts are not read: the
// size filter rejects them from the header alone.
func readCandidate(fh *multipart.FileHeader) (domain.FileCandidate, error) {
	candidate := domain.FileCandidate{
		Name:      fh.Filename,
		SizeBytes: fh.Size,
		MimeType:  fh.Header.Get("Content-Type"),
	}
	if fh.Size > attachment.MaxFileBytes || !attachment.TypeAllowed(candidate.Name, candidate.MimeType) {
		return candidate, nil
	}

	f, err := fh.Open()
	if err != nil {
		return candidate, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, attachment.MaxFileBytes+1))
	if err != nil {
		return candidate, err
	}
	candidate.Content = content
	candidate.SizeBytes = int64(len(content))
	return candidate, nil
}
