package http

import (
	"net/http"

	"github.com/joaovitorrios/gerenciador-gastos/internal/auth"
)

// handleDashboard returns the aggregated summary for the caller.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	summary, err := s.transactions.Dashboard(r.Context(), identity.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
