package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

func TestRegisterValidationAndConflicts(t *testing.T) {
	app, store := newApp(t, 5)

	good := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "engine1", "studentId": "AB12345"}
	bad := []map[string]string{
		{"name": "A", "email": "ada@example.com", "password": "engine1"},
		{"name": "Ada", "email": "ada-at-example", "password": "engine1"},
		{"name": "Ada", "email": "ada@example.com", "password": "engine"},
		{"name": "Ada", "email": "ada@example.com", "password": "abc1"},
		{"name": "Ada", "email": "ada@example.com", "password": "engine1", "studentId": "AB1"},
	}
	for _, in := range bad {
		status, body := call(t, app, "POST", "/api/v1/auth/register", in)
		expectError(t, status, body, http.StatusBadRequest, "validation")
	}

	status, body := call(t, app, "POST", "/api/v1/auth/register", good)
	if status != http.StatusCreated {
		t.Fatalf("register: %d %s", status, string(body))
	}
	if strings.Contains(string(body), "engine1") || strings.Contains(string(body), "passwordHash") {
		t.Fatalf("credential leaked in response: %s", string(body))
	}

	status, body = call(t, app, "POST", "/api/v1/auth/register", good)
	expectError(t, status, body, http.StatusConflict, "conflict")
	sameStudent := map[string]string{"name": "Bob", "email": "bob@example.com", "password": "engine1", "studentId": "AB12345"}
	status, body = call(t, app, "POST", "/api/v1/auth/register", sameStudent)
	expectError(t, status, body, http.StatusConflict, "conflict")

	accounts, err := repos.NewUserRepo(store).All()
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	h := accounts[0].PasswordHash
	if !strings.HasPrefix(h, "$2") {
		t.Fatalf("unexpected hash format: %s", h)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("engine1")); err != nil {
		t.Fatalf("stored hash does not validate the password: %v", err)
	}
}

// login throttling + success/fail paths.
func TestLoginSuccessFailAndThrottle(t *testing.T) {
	app, _ := newApp(t, 3)
	call(t, app, "POST", "/api/v1/auth/register", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "engine1"})

	status, body := call(t, app, "GET", "/api/v1/auth/session", nil)
	expectError(t, status, body, http.StatusUnauthorized, "unauthorized")

	// bad password -> 401
	status, body = call(t, app, "POST", "/api/v1/auth/login", map[string]string{"email": "ada@example.com", "password": "wrong99"})
	expectError(t, status, body, http.StatusUnauthorized, "unauthorized")
	// unknown email -> 401
	status, body = call(t, app, "POST", "/api/v1/auth/login", map[string]string{"email": "eve@example.com", "password": "engine1"})
	expectError(t, status, body, http.StatusUnauthorized, "unauthorized")

	status, body = call(t, app, "POST", "/api/v1/auth/login", map[string]string{"email": "ada@example.com", "password": "engine1"})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on success, got %d %s", status, string(body))
	}
	if s := decode[domain.Session](t, body); s.Email != "ada@example.com" || s.Name != "Ada" {
		t.Fatalf("unexpected session %+v", s)
	}

	status, body = call(t, app, "GET", "/api/v1/auth/session", nil)
	if status != http.StatusOK || strings.Contains(string(body), "password") {
		t.Fatalf("session: %d %s", status, string(body))
	}

	// throttle after 3 attempts
	status, body = call(t, app, "POST", "/api/v1/auth/login", map[string]string{"email": "ada@example.com", "password": "engine1"})
	expectError(t, status, body, http.StatusTooManyRequests, "rate_limited")

	status, _ = call(t, app, "POST", "/api/v1/auth/logout", nil)
	if status != http.StatusNoContent {
		t.Fatalf("logout: %d", status)
	}
	status, _ = call(t, app, "POST", "/api/v1/auth/logout", nil)
	if status != http.StatusNoContent {
		t.Fatalf("second logout: %d", status)
	}
	status, body = call(t, app, "GET", "/api/v1/auth/session", nil)
	expectError(t, status, body, http.StatusUnauthorized, "unauthorized")
}
