package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("senha123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "senha123" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "senha123") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "senha124") {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestIssueAndParseToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	user := core.User{ID: "u1", Email: "demo@exemplo.com"}

	token, err := svc.IssueToken(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	identity, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if identity.UserID != "u1" || identity.Email != "demo@exemplo.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	minter := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	token, err := minter.IssueToken(core.User{ID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatalf("expected verification failure for wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)
	token, err := svc.IssueToken(core.User{ID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Fatalf("expected verification failure for expired token")
	}
}

func TestMiddleware(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	var seen Identity
	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No header
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", rr.Code)
	}

	// Malformed header
	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Token abc")
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("malformed header: expected 401, got %d", rr.Code)
	}

	// Garbage token
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("bad token: expected 403, got %d", rr.Code)
	}

	// Valid token
	token, err := svc.IssueToken(core.User{ID: "u42", Email: "demo@exemplo.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d", rr.Code)
	}
	if seen.UserID != "u42" {
		t.Fatalf("identity not attached to context: %+v", seen)
	}
}
