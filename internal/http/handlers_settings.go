package http

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"director/internal/core"
	"director/internal/log"
)

type exportResponse struct {
	ExportedAt   time.Time          `json:"exportedAt"`
	Transactions []core.Transaction `json:"transactions"`
	Objectives   []core.Objective   `json:"objectives"`
}

// handleExport returns every stored record for the settings page backup.
// Seed objectives are not exported since nothing is stored yet.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	out := exportResponse{ExportedAt: s.now().UTC()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.deps.Transactions.List(gctx)
		out.Transactions = txs
		return err
	})
	g.Go(func() error {
		objs, seeded, err := s.deps.Objectives.List(gctx)
		if !seeded {
			out.Objectives = objs
		}
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}
	if out.Transactions == nil {
		out.Transactions = []core.Transaction{}
	}
	if out.Objectives == nil {
		out.Objectives = []core.Objective{}
	}

	w.Header().Set("Content-Disposition", `attachment; filename="director-export.json"`)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Objectives.Reset(r.Context()); err != nil {
		writeError(w, r, log.OpReset, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
