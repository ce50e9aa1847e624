package http

import (
	"encoding/json"
	"net/http"

	"github.com/joaovitorrios/gerenciador-gastos/internal/auth"
	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
)

type transactionRequest struct {
	Description string               `json:"description"`
	Amount      core.Money           `json:"amount"`
	Date        core.Date            `json:"date"`
	Category    string               `json:"category"`
	Type        core.TransactionType `json:"type"`
}

func (req *transactionRequest) toTransaction(userID string) core.Transaction {
	return core.Transaction{
		UserID:      userID,
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		Date:        req.Date,
		Category:    sanitizeInput(req.Category),
		Type:        req.Type,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	transactions, err := s.transactions.List(r.Context(), identity.UserID, filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	created, err := s.transactions.Create(r.Context(), req.toTransaction(identity.UserID))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	tx, err := s.transactions.Get(r.Context(), r.PathValue("id"), identity.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	tx := req.toTransaction(identity.UserID)
	tx.ID = r.PathValue("id")

	updated, err := s.transactions.Update(r.Context(), tx)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	if err := s.transactions.Delete(r.Context(), r.PathValue("id"), identity.UserID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Transação removida"})
}
