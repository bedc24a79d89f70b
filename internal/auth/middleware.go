package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-request/internal/form"
	apperrors "github.com/spec-kit/helpdesk-request/pkg/util/errorutil"
)

const controllerKey = "form_controller"

// SessionLookup resolves a session id to its controller.
type SessionLookup interface {
	Get(id string) (*form.Controller, error)
}

// SessionMiddleware validates bearer session tokens and loads the form session.
type SessionMiddleware struct {
	tokens   *TokenManager
	sessions SessionLookup
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, sessions SessionLookup) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, sessions: sessions}
}

// Handle enforces a valid session token for protected routes.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid session token")
	}

	controller, err := m.sessions.Get(claims.SessionID)
	if err != nil {
		return err
	}

	c.Locals(controllerKey, controller)
	return c.Next()
}

// ControllerFromContext retrieves the form session loaded by the middleware.
func ControllerFromContext(c *fiber.Ctx) (*form.Controller, bool) {
	val := c.Locals(controllerKey)
	if val == nil {
		return nil, false
	}
	controller, ok := val.(*form.Controller)
	return controller, ok
}
