package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
)

const (
	msgUserCreated        = "Usuário criado com sucesso"
	msgUserExists         = "Usuário já existe"
	msgInvalidCredentials = "Email ou senha inválidos"
	msgTransactionMissing = "Transação não encontrada"
	msgInvalidPayload     = "Dados inválidos"
	msgServerError        = "Erro no servidor"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeDomainError translates a domain error into a status and a
// user-facing message. Unknowns become a 500 without leaking details.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeMessage(w, http.StatusNotFound, msgTransactionMissing)
	case errors.Is(err, core.ErrEmailTaken):
		writeMessage(w, http.StatusBadRequest, msgUserExists)
	case errors.Is(err, core.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, msgInvalidCredentials)
	case isValidationError(err):
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "path", r.URL.Path)
		writeMessage(w, http.StatusInternalServerError, msgServerError)
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidDate,
		core.ErrInvalidAmount,
		core.ErrInvalidType,
		core.ErrEmptyDescription,
		core.ErrDescriptionTooLong,
		core.ErrEmptyCategory,
		core.ErrInvalidEmail,
		core.ErrEmptyPassword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// parseFilter reads startDate, endDate and category query parameters.
func parseFilter(r *http.Request) (core.TransactionFilter, error) {
	var filter core.TransactionFilter

	if v := strings.TrimSpace(r.URL.Query().Get("startDate")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return filter, core.ErrInvalidDate
		}
		filter.StartDate = d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("endDate")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return filter, core.ErrInvalidDate
		}
		filter.EndDate = d
	}
	filter.Category = strings.TrimSpace(r.URL.Query().Get("category"))

	return filter, nil
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: parsedTime}, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
