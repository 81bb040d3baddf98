package handler

import (
	"net/http"
	"testing"

	"github.com/stepwise/stepwise-backend/internal/model"
)

func TestRegisterHandler(t *testing.T) {
	app := newTestApp(t)

	rec, envelope := app.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "ann",
		"email":    "ann@example.com",
		"password": "Str0ng!pass",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %v", rec.Code, envelope)
	}
	account := dataField(t, envelope, "account")
	if account["role"] != "student" {
		t.Errorf("role = %v, want student", account["role"])
	}
	if _, hasHash := account["password_hash"]; hasHash {
		t.Error("response leaks password_hash")
	}
	if token, _ := envelope["data"].(map[string]any)["token"].(string); token == "" {
		t.Error("register returned no token")
	}
}

func TestRegisterHandlerWeakPassword(t *testing.T) {
	app := newTestApp(t)

	rec, envelope := app.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "ann",
		"email":    "ann@example.com",
		"password": "weakpass",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errCode(envelope); code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q, want VALIDATION_ERROR", code)
	}
	fields, _ := envelope["error"].(map[string]any)["fields"].(map[string]any)
	if _, ok := fields["password"]; !ok {
		t.Errorf("fields = %v, want password entry", fields)
	}
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "ann", "ann@example.com", model.RoleStudent)

	rec, envelope := app.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "ann",
		"email":    "ann@example.com",
		"password": "Str0ng!pass",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if code := errCode(envelope); code != "CONFLICT" {
		t.Errorf("error code = %q, want CONFLICT", code)
	}
}

func TestLoginHandlerStatusMapping(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "ann", "ann@example.com", model.RoleStudent)

	tests := []struct {
		name       string
		identifier string
		password   string
		wantStatus int
		wantCode   string
	}{
		{"unknown identifier", "nobody@example.com", "Str0ng!pass", http.StatusNotFound, "USER_NOT_FOUND"},
		{"wrong password", "ann@example.com", "Wr0ng!pass", http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"email login", "ann@example.com", "Str0ng!pass", http.StatusOK, ""},
		{"username login", "ann", "Str0ng!pass", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, envelope := app.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
				"identifier": tt.identifier,
				"password":   tt.password,
			})
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %v", rec.Code, tt.wantStatus, envelope)
			}
			if tt.wantCode != "" {
				if code := errCode(envelope); code != tt.wantCode {
					t.Errorf("error code = %q, want %q", code, tt.wantCode)
				}
			}
		})
	}
}

func TestMeHandler(t *testing.T) {
	app := newTestApp(t)
	account, token := app.register(t, "ann", "ann@example.com", model.RoleStudent)

	rec, envelope := app.request(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", rec.Code, envelope)
	}
	identity := dataField(t, envelope, "identity")
	if identity["id"] != account.ID.String() {
		t.Errorf("identity id = %v, want %s", identity["id"], account.ID)
	}

	rec, envelope = app.request(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", rec.Code)
	}
	if code := errCode(envelope); code != "TOKEN_REQUIRED" {
		t.Errorf("error code = %q, want TOKEN_REQUIRED", code)
	}

	rec, envelope = app.request(t, http.MethodGet, "/api/v1/auth/me", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", rec.Code)
	}
	if code := errCode(envelope); code != "TOKEN_INVALID" {
		t.Errorf("error code = %q, want TOKEN_INVALID", code)
	}
}
