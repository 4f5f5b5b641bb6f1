package http

import (
	"context"
	"net/http"

	"director/internal/core"
	"director/internal/dashboard"
	"director/internal/ledger"
	"director/internal/log"
)

func (s *Server) parseQuery(r *http.Request) (dashboard.Query, error) {
	now := s.now()
	year, err := parseYear(r, now.Year())
	if err != nil {
		return dashboard.Query{}, err
	}
	mode, err := dashboard.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		return dashboard.Query{}, badRequest("%v", err)
	}
	scope, err := ledger.ParseScope(r.URL.Query().Get("scope"), now)
	if err != nil {
		return dashboard.Query{}, badRequest("%v", err)
	}
	return dashboard.Query{Year: year, Mode: mode, Scope: scope}, nil
}

func (s *Server) snapshot(r *http.Request, q dashboard.Query) (dashboard.Snapshot, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()
	return s.deps.Dashboard.Snapshot(ctx, q)
}

// handleDashboard serves GET /api/dashboard?year=&mode=&scope=.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	snap, err := s.snapshot(r, q)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type seriesResponse struct {
	Metric ledger.Metric  `json:"metric"`
	Year   int            `json:"year"`
	Mode   dashboard.Mode `json:"mode"`
	Points []ledger.Point `json:"points"`
}

// handleSeries serves GET /api/series?metric=&year=&mode=.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	metric, err := ledger.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeError(w, r, log.OpRead, badRequest("%v", err))
		return
	}
	q, err := s.parseQuery(r)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	snap, err := s.snapshot(r, q)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, seriesResponse{
		Metric: metric,
		Year:   snap.Year,
		Mode:   snap.Mode,
		Points: snap.Series[metric],
	})
}

// handleCategories serves GET /api/categories[?type=].
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query().Get("type")
	if v == "" {
		writeJSON(w, http.StatusOK, core.CategorySuggestions)
		return
	}
	typ := core.TransactionType(v)
	if !typ.IsValid() {
		writeError(w, r, log.OpRead, badRequest("unknown transaction type %q", v))
		return
	}
	writeJSON(w, http.StatusOK, core.Suggestions(typ))
}
