package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-request/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-request/internal/auth"
	"github.com/spec-kit/helpdesk-request/internal/collaborator"
	"github.com/spec-kit/helpdesk-request/internal/events"
	"github.com/spec-kit/helpdesk-request/internal/observability"
	"github.com/spec-kit/helpdesk-request/internal/persistence"
	"github.com/spec-kit/helpdesk-request/internal/service"
	"github.com/spec-kit/helpdesk-request/internal/session"
)

type testFile struct {
	name        string
	contentType string
	content     []byte
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := session.NewStore(time.Minute, logger)
	tokens := auth.NewTokenManager("test-secret", time.Minute)
	sessions := service.NewSessionService(service.SessionDependencies{
		Store:      store,
		Tokens:     tokens,
		Fetcher:    collaborator.NewSimulatedUserInfo(0, collaborator.DefaultUserInfo()),
		Submitter:  collaborator.NewSimulatedSubmitter(0),
		Dispatcher: events.NewInMemoryDispatcher(),
		Recorder:   metrics,
		Logger:     logger,
	})

	return NewServer(ServerConfig{
		Name:      "test",
		BodyLimit: 64 << 20,
		Logger:    logger,
		Metrics:   metrics,
		Routes: RouteConfig{
			Health:            handlers.NewHealthHandler("test", "dev", &persistence.Redis{}, store, metrics),
			Sessions:          handlers.NewSessionHandler(sessions),
			SessionMiddleware: auth.NewSessionMiddleware(tokens, store),
		},
	})
}

// buildUpload creates a multipart body with one "files" part per file.
func buildUpload(t *testing.T, files []testFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, f.name))
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(f.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func do(t *testing.T, app *fiber.App, method, path, token string, body io.Reader, contentType string) (int, map[string]any) {
	t.Helper()
	req, err := nethttp.NewRequest(method, path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	decoded := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func openSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := do(t, app, nethttp.MethodPost, "/sessions", "", nil, "")
	if status != nethttp.StatusCreated {
		t.Fatalf("open session: status %d body %v", status, body)
	}
	data := body["data"].(map[string]any)
	session := data["session"].(map[string]any)
	info := session["user_info"].(map[string]any)
	if info["ticket_number"] != "Not assigned" {
		t.Fatalf("new session should show placeholder info, got %v", info)
	}
	return data["token"].(string)
}

func sessionData(body map[string]any) map[string]any {
	data := body["data"].(map[string]any)
	if s, ok := data["session"].(map[string]any); ok {
		return s
	}
	return data
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func pdfFile(name string) testFile {
	return testFile{name: name, contentType: "application/pdf", content: []byte("%PDF-1.4 " + name)}
}

func TestSessionRequiresToken(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, nethttp.MethodGet, "/session", "", nil, "")
	if status != nethttp.StatusUnauthorized || errorCode(body) != "UNAUTHORIZED" {
		t.Fatalf("status %d body %v", status, body)
	}

	status, _ = do(t, app, nethttp.MethodGet, "/session", "garbage", nil, "")
	if status != nethttp.StatusUnauthorized {
		t.Fatalf("expected 401 for an invalid token, got %d", status)
	}
}

func TestFullFormFlow(t *testing.T) {
	app := newTestApp(t)
	token := openSession(t, app)

	status, body := do(t, app, nethttp.MethodPost, "/session/submit", token, nil, "")
	if status != nethttp.StatusBadRequest || errorCode(body) != "VALIDATION_FAILED" {
		t.Fatalf("empty submit: status %d body %v", status, body)
	}
	if msg := body["error"].(map[string]any)["message"]; msg != "Please provide a description of your request." {
		t.Fatalf("unexpected message %v", msg)
	}

	status, body = do(t, app, nethttp.MethodPost, "/session/user-info/load", token, nil, "")
	if status != nethttp.StatusOK {
		t.Fatalf("load: status %d body %v", status, body)
	}
	if info := sessionData(body)["user_info"].(map[string]any); info["name"] != "John Doe" {
		t.Fatalf("unexpected user info %v", info)
	}

	status, body = do(t, app, nethttp.MethodPut, "/session/description", token,
		strings.NewReader(`{"description":"Printer broken"}`), fiber.MIMEApplicationJSON)
	if status != nethttp.StatusOK || sessionData(body)["can_submit"] != true {
		t.Fatalf("description: status %d body %v", status, body)
	}

	files := []testFile{{name: "setup.exe", contentType: "application/octet-stream", content: []byte("MZ")}}
	for i := 1; i <= 6; i++ {
		files = append(files, pdfFile(fmt.Sprintf("page%d.pdf", i)))
	}
	upload, contentType := buildUpload(t, files)
	status, body = do(t, app, nethttp.MethodPost, "/session/attachments", token, upload, contentType)
	if status != nethttp.StatusOK {
		t.Fatalf("upload: status %d body %v", status, body)
	}
	result := body["data"].(map[string]any)["result"].(map[string]any)
	if result["accepted"] != float64(5) || result["rejected_type"] != float64(1) || result["rejected_capacity"] != float64(1) {
		t.Fatalf("unexpected offer result %v", result)
	}
	sess := sessionData(body)
	if sess["attachment_count"] != "5/5 files" {
		t.Fatalf("count label = %v", sess["attachment_count"])
	}
	first := sess["attachments"].([]any)[0].(map[string]any)
	if first["file_name"] != "page1.pdf" || first["size"] != "18.00 Bytes" {
		t.Fatalf("unexpected first attachment %v", first)
	}

	status, body = do(t, app, nethttp.MethodDelete, "/session/attachments/0", token, nil, "")
	if status != nethttp.StatusOK {
		t.Fatalf("remove: status %d body %v", status, body)
	}
	remaining := sessionData(body)["attachments"].([]any)
	if len(remaining) != 4 || remaining[0].(map[string]any)["file_name"] != "page2.pdf" {
		t.Fatalf("unexpected attachments after remove %v", remaining)
	}

	status, _ = do(t, app, nethttp.MethodDelete, "/session/attachments/9", token, nil, "")
	if status != nethttp.StatusNotFound {
		t.Fatalf("out of range remove: status %d", status)
	}

	status, body = do(t, app, nethttp.MethodPost, "/session/submit", token, nil, "")
	if status != nethttp.StatusOK {
		t.Fatalf("submit: status %d body %v", status, body)
	}
	submission := body["data"].(map[string]any)["submission"].(map[string]any)
	if submission["ticket_number"] != "HD-2024-001234" {
		t.Fatalf("unexpected submission %v", submission)
	}
	sess = sessionData(body)
	if sess["description"] != "" || len(sess["attachments"].([]any)) != 0 {
		t.Fatalf("form not reset: %v", sess)
	}
	if sess["user_info"].(map[string]any)["email"] != "john.doe@company.com" {
		t.Fatal("user info should survive submit")
	}

	status, _ = do(t, app, nethttp.MethodDelete, "/session", token, nil, "")
	if status != nethttp.StatusNoContent {
		t.Fatalf("close: status %d", status)
	}
	status, body = do(t, app, nethttp.MethodGet, "/session", token, nil, "")
	if status != nethttp.StatusNotFound || errorCode(body) != "NOT_FOUND" {
		t.Fatalf("closed session: status %d body %v", status, body)
	}
}

func TestUploadAllRejected(t *testing.T) {
	app := newTestApp(t)
	token := openSession(t, app)

	big := testFile{name: "scan.pdf", contentType: "application/pdf", content: bytes.Repeat([]byte("a"), 11*1024*1024)}
	upload, contentType := buildUpload(t, []testFile{big})
	status, body := do(t, app, nethttp.MethodPost, "/session/attachments", token, upload, contentType)
	if status != nethttp.StatusUnprocessableEntity || errorCode(body) != "ATTACHMENT_REJECTED" {
		t.Fatalf("status %d body %v", status, body)
	}
	details := body["error"].(map[string]any)["details"].(map[string]any)
	if details["rejected_size"] != float64(1) {
		t.Fatalf("unexpected details %v", details)
	}

	_, body = do(t, app, nethttp.MethodGet, "/session", token, nil, "")
	if n := len(sessionData(body)["attachments"].([]any)); n != 0 {
		t.Fatalf("oversize file attached, %d attachments", n)
	}
}

func TestUploadWithoutFiles(t *testing.T) {
	app := newTestApp(t)
	token := openSession(t, app)

	upload, contentType := buildUpload(t, nil)
	status, body := do(t, app, nethttp.MethodPost, "/session/attachments", token, upload, contentType)
	if status != nethttp.StatusBadRequest || errorCode(body) != "VALIDATION_FAILED" {
		t.Fatalf("status %d body %v", status, body)
	}
}

func TestDescriptionPayloadValidation(t *testing.T) {
	app := newTestApp(t)
	token := openSession(t, app)

	status, _ := do(t, app, nethttp.MethodPut, "/session/description", token, strings.NewReader(`{}`), fiber.MIMEApplicationJSON)
	if status != nethttp.StatusBadRequest {
		t.Fatalf("missing description: status %d", status)
	}

	status, _ = do(t, app, nethttp.MethodPut, "/session/description", token, strings.NewReader(`{"description":"   "}`), fiber.MIMEApplicationJSON)
	if status != nethttp.StatusOK {
		t.Fatalf("blank description should be stored: status %d", status)
	}
	status, body := do(t, app, nethttp.MethodPost, "/session/submit", token, nil, "")
	if status != nethttp.StatusBadRequest {
		t.Fatalf("whitespace submit: status %d body %v", status, body)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)
	openSession(t, app)

	status, body := do(t, app, nethttp.MethodGet, "/health/ready", "", nil, "")
	if status != nethttp.StatusOK || body["status"] != "ready" {
		t.Fatalf("ready: status %d body %v", status, body)
	}
	if deps := body["dependencies"].(map[string]any); deps["redis"] != "disabled" {
		t.Fatalf("unexpected deps %v", deps)
	}

	status, body = do(t, app, nethttp.MethodGet, "/metrics", "", nil, "")
	if status != nethttp.StatusOK {
		t.Fatalf("metrics: status %d", status)
	}
	requests := body["data"].(map[string]any)["requests"].(map[string]any)
	if len(requests) == 0 {
		t.Fatal("expected request counters after opening a session")
	}

	status, body = do(t, app, nethttp.MethodGet, "/nope", "", nil, "")
	if status != nethttp.StatusNotFound || errorCode(body) != "NOT_FOUND" {
		t.Fatalf("unknown route: status %d body %v", status, body)
	}
}
