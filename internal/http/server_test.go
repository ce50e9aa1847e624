package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joaovitorrios/gerenciador-gastos/internal/auth"
	"github.com/joaovitorrios/gerenciador-gastos/internal/config"
	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
	"github.com/joaovitorrios/gerenciador-gastos/internal/services"
	"github.com/joaovitorrios/gerenciador-gastos/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	authService := auth.NewService("test-secret", time.Hour)
	cfg := &config.Config{
		Port:               "0",
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		RateLimitPerMinute: 1000,
	}

	s := NewServer(cfg,
		services.NewUserService(repo, authService),
		services.NewTransactionService(repo, nil),
		authService,
		repo.Ping)

	ts := httptest.NewServer(s.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return resp, out.Bytes()
}

func registerAndLogin(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()

	creds := map[string]string{"email": email, "password": "senha123"}
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", creds)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", creds)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned %d: %s", resp.StatusCode, body)
	}

	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.Token == "" {
		t.Fatal("login returned empty token")
	}
	return login.Token
}

func createTransaction(t *testing.T, ts *httptest.Server, token string, payload map[string]any) core.Transaction {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", token, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create transaction returned %d: %s", resp.StatusCode, body)
	}
	var tx core.Transaction
	if err := json.Unmarshal(body, &tx); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	return tx
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	creds := map[string]string{"email": "maria@example.com", "password": "senha123"}
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", creds)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register = %d: %s", resp.StatusCode, body)
	}

	var created struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if created.Message != "Usuário criado com sucesso" {
		t.Errorf("register message = %q", created.Message)
	}
	// Confirmation only, no account record in the body
	if bytes.Contains(body, []byte("maria@example.com")) || bytes.Contains(body, []byte("password")) {
		t.Errorf("register response leaks account data: %s", body)
	}

	// Same email again
	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", creds)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register = %d, want 400", resp.StatusCode)
	}
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if msg.Message != "Usuário já existe" {
		t.Errorf("duplicate register message = %q", msg.Message)
	}
}

func TestRegisterInvalidPayload(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "senha123"}},
		{"bad email", map[string]string{"email": "not-an-email", "password": "senha123"}},
		{"missing password", map[string]string{"email": "maria@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("register = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ts := newTestServer(t)
	registerAndLogin(t, ts, "maria@example.com")

	wrongPassword := map[string]string{"email": "maria@example.com", "password": "errada"}
	unknownEmail := map[string]string{"email": "nobody@example.com", "password": "senha123"}

	resp1, body1 := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", wrongPassword)
	resp2, body2 := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", unknownEmail)

	if resp1.StatusCode != http.StatusBadRequest || resp2.StatusCode != http.StatusBadRequest {
		t.Fatalf("login failures = %d and %d, want 400 for both", resp1.StatusCode, resp2.StatusCode)
	}
	if !bytes.Equal(body1, body2) {
		t.Errorf("failure bodies differ: %s vs %s", body1, body2)
	}
	if !bytes.Contains(body1, []byte("Email ou senha inválidos")) {
		t.Errorf("failure body = %s", body1)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/transactions"},
		{http.MethodPost, "/api/transactions"},
		{http.MethodGet, "/api/dashboard"},
	}

	for _, p := range paths {
		resp, body := doJSON(t, p.method, ts.URL+p.path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s without token = %d, want 401", p.method, p.path, resp.StatusCode)
		}
		if !bytes.Contains(body, []byte("Acesso negado")) {
			t.Errorf("%s %s body = %s", p.method, p.path, body)
		}
	}

	// Garbage token
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/transactions", "not.a.token", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("bad token = %d, want 403", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte("Token inválido ou expirado")) {
		t.Errorf("bad token body = %s", body)
	}
}

func TestTransactionCRUD(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "maria@example.com")

	created := createTransaction(t, ts, token, map[string]any{
		"description": "Aluguel",
		"amount":      1200.00,
		"date":        "2023-06-05",
		"category":    "Moradia",
		"type":        "expense",
	})
	if created.Amount.Cents != 120000 {
		t.Errorf("created amount = %d cents, want 120000", created.Amount.Cents)
	}

	// Read back
	resp, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/transactions/%s", ts.URL, created.ID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get = %d: %s", resp.StatusCode, body)
	}

	// Update
	resp, body = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/transactions/%s", ts.URL, created.ID), token, map[string]any{
		"description": "Aluguel reajustado",
		"amount":      1350.00,
		"date":        "2023-06-05",
		"category":    "Moradia",
		"type":        "expense",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update = %d: %s", resp.StatusCode, body)
	}
	var updated core.Transaction
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Description != "Aluguel reajustado" || updated.Amount.Cents != 135000 {
		t.Errorf("updated = %+v", updated)
	}

	// Delete
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/transactions/%s", ts.URL, created.ID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/transactions/%s", ts.URL, created.ID), token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/transactions/%s", ts.URL, created.ID), token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete twice = %d, want 404", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte("Transação não encontrada")) {
		t.Errorf("delete twice body = %s", body)
	}
}

func TestTransactionValidation(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "maria@example.com")

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"missing description", map[string]any{"amount": 10.0, "date": "2023-06-05", "category": "Outros", "type": "expense"}},
		{"description over 200 chars", map[string]any{"description": strings.Repeat("a", 201), "amount": 10.0, "date": "2023-06-05", "category": "Outros", "type": "expense"}},
		{"zero amount", map[string]any{"description": "x", "amount": 0, "date": "2023-06-05", "category": "Outros", "type": "expense"}},
		{"negative amount", map[string]any{"description": "x", "amount": -5.0, "date": "2023-06-05", "category": "Outros", "type": "expense"}},
		{"missing date", map[string]any{"description": "x", "amount": 10.0, "category": "Outros", "type": "expense"}},
		{"bad type", map[string]any{"description": "x", "amount": 10.0, "date": "2023-06-05", "category": "Outros", "type": "transfer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", token, tt.payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("create = %d (%s), want 400", resp.StatusCode, body)
			}
			if !bytes.Contains(body, []byte("Dados inválidos")) {
				t.Errorf("create body = %s, want validation message", body)
			}
		})
	}
}

func TestTransactionOwnership(t *testing.T) {
	ts := newTestServer(t)
	ownerToken := registerAndLogin(t, ts, "owner@example.com")
	otherToken := registerAndLogin(t, ts, "other@example.com")

	created := createTransaction(t, ts, ownerToken, map[string]any{
		"description": "Aluguel",
		"amount":      1200.00,
		"date":        "2023-06-05",
		"category":    "Moradia",
		"type":        "expense",
	})

	url := fmt.Sprintf("%s/api/transactions/%s", ts.URL, created.ID)

	// Every cross-user operation reads as not found
	resp, _ := doJSON(t, http.MethodGet, url, otherToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user get = %d, want 404", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPut, url, otherToken, map[string]any{
		"description": "Hijack", "amount": 1.0, "date": "2023-06-05", "category": "x", "type": "expense",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user update = %d, want 404", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodDelete, url, otherToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user delete = %d, want 404", resp.StatusCode)
	}

	// Lists are disjoint
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/transactions", otherToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("other list = %d", resp.StatusCode)
	}
	var list []core.Transaction
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("other user sees %d transactions, want 0", len(list))
	}
}

func TestTransactionListFilters(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "maria@example.com")

	seed := []map[string]any{
		{"description": "Maio", "amount": 100.0, "date": "2023-05-01", "category": "Outros", "type": "expense"},
		{"description": "Junho", "amount": 200.0, "date": "2023-06-05", "category": "Moradia", "type": "expense"},
		{"description": "Limite", "amount": 300.0, "date": "2023-06-01", "category": "Outros", "type": "expense"},
	}
	for _, p := range seed {
		createTransaction(t, ts, token, p)
	}

	// startDate is inclusive: 2023-06-01 stays, 2023-05-01 goes
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/transactions?startDate=2023-06-01", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("filtered list = %d", resp.StatusCode)
	}
	var list []core.Transaction
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("filtered list len = %d, want 2", len(list))
	}
	if list[0].Description != "Junho" || list[1].Description != "Limite" {
		t.Errorf("filtered list order = %s, %s", list[0].Description, list[1].Description)
	}

	// Category filter
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/transactions?category=Moradia", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("category list = %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Description != "Junho" {
		t.Errorf("category filter = %+v", list)
	}

	// Malformed date parameter
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/transactions?startDate=junho", token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad date filter = %d, want 400", resp.StatusCode)
	}
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "maria@example.com")

	seed := []map[string]any{
		{"description": "Salário", "amount": 5000.0, "date": "2023-06-01", "category": "Salário", "type": "income"},
		{"description": "Aluguel", "amount": 1200.0, "date": "2023-06-05", "category": "Moradia", "type": "expense"},
		{"description": "Mercado", "amount": 500.0, "date": "2023-06-10", "category": "Alimentação", "type": "expense"},
	}
	for _, p := range seed {
		createTransaction(t, ts, token, p)
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/dashboard", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard = %d: %s", resp.StatusCode, body)
	}

	var summary struct {
		TotalIncome    float64 `json:"totalIncome"`
		TotalExpense   float64 `json:"totalExpense"`
		Balance        float64 `json:"balance"`
		CategoryTotals []struct {
			Category string  `json:"category"`
			Total    float64 `json:"total"`
		} `json:"categoryTotals"`
		MonthlyData []struct {
			Month   string  `json:"month"`
			Income  float64 `json:"income"`
			Expense float64 `json:"expense"`
			Balance float64 `json:"balance"`
		} `json:"monthlyData"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}

	if summary.TotalIncome != 5000 || summary.TotalExpense != 1700 || summary.Balance != 3300 {
		t.Errorf("totals = %+v", summary)
	}
	if len(summary.CategoryTotals) != 2 {
		t.Fatalf("categoryTotals len = %d, want 2 (income excluded)", len(summary.CategoryTotals))
	}
	if len(summary.MonthlyData) != 1 || summary.MonthlyData[0].Month != "2023-06" {
		t.Fatalf("monthlyData = %+v", summary.MonthlyData)
	}
	if summary.MonthlyData[0].Balance != 3300 {
		t.Errorf("month balance = %v, want 3300", summary.MonthlyData[0].Balance)
	}
}

func TestDashboardEmpty(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "maria@example.com")

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/dashboard", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard = %d", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte(`"categoryTotals":[]`)) {
		t.Errorf("empty dashboard body = %s", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/transactions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("preflight missing CORS headers")
	}
}
