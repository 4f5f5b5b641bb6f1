package http

import (
	"net/http"
	"strings"

	"director/internal/core"
	"director/internal/log"
)

type createTransactionRequest struct {
	// Date defaults to today.
	Date        string               `json:"date"`
	Amount      amountInput          `json:"amount"`
	Type        core.TransactionType `json:"type"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.deps.Transactions.List(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}

	now := s.now()
	date := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if v := strings.TrimSpace(req.Date); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, r, log.OpCreate, err)
			return
		}
		date = d
	}
	amount, err := core.ParseAmount(string(req.Amount))
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}

	tx, err := s.deps.Transactions.Create(r.Context(), core.Transaction{
		Date:        date,
		Amount:      amount,
		Type:        core.TransactionType(strings.ToLower(strings.TrimSpace(string(req.Type)))),
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
	})
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Transactions.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
