package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	jsoniter "github.com/json-iterator/go"

	"storefront/internal/events"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

// newApp builds the real route table over a seeded in-memory store.
func newApp(t *testing.T, loginMax int) (*fiber.App, *repos.MemoryStore) {
	t.Helper()
	store := repos.NewMemoryStore()
	if err := repos.SeedCatalog(store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	deps := handlers.NewDeps(store, events.NopPublisher{})
	deps.LoginMax = loginMax

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{
		Views:        engine,
		JSONEncoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:    1 << 20,
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(recover.New())
	deps.Mount(app)
	return app, store
}

// call sends a JSON request and returns the status and raw body.
func call(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode %s: %v", string(b), err)
	}
	return v
}

type errBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func expectError(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("expected %d, got %d body=%s", wantStatus, status, string(body))
	}
	if e := decode[errBody](t, body); e.Error != wantCode {
		t.Fatalf("expected code %q, got %q (%s)", wantCode, e.Error, e.Message)
	}
}

// login registers a throwaway account and logs it in.
func login(t *testing.T, app *fiber.App) {
	t.Helper()
	status, body := call(t, app, "POST", "/api/v1/auth/register", map[string]string{
		"name": "Admin", "email": "admin@storefront.test", "password": "s3cret", "studentId": "ADM001",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: %d %s", status, string(body))
	}
	status, body = call(t, app, "POST", "/api/v1/auth/login", map[string]string{
		"email": "admin@storefront.test", "password": "s3cret",
	})
	if status != http.StatusOK {
		t.Fatalf("login: %d %s", status, string(body))
	}
}

type logEntry struct {
	Level  string                 `json:"level"`
	Action string                 `json:"action"`
	User   string                 `json:"user"`
	Err    string                 `json:"err"`
	Fields map[string]interface{} `json:"fields"`
}

// capture logs by temporarily replacing the standard logger output
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
