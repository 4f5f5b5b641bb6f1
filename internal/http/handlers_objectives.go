package http

import (
	"net/http"

	"director/internal/core"
	"director/internal/dashboard"
	"director/internal/log"
)

type objectivesResponse struct {
	Objectives []dashboard.ObjectiveView `json:"objectives"`
	// Seeded is true when nothing is stored yet and defaults are returned.
	Seeded bool `json:"seeded"`
}

type keyResultUpdate struct {
	CurrentValue *float64 `json:"currentValue"`
}

func (s *Server) handleListObjectives(w http.ResponseWriter, r *http.Request) {
	objs, seeded, err := s.deps.Objectives.List(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, objectivesResponse{Objectives: dashboard.Views(objs), Seeded: seeded})
}

// handleCreateObjective always stores a new objective; any client ID is
// discarded.
func (s *Server) handleCreateObjective(w http.ResponseWriter, r *http.Request) {
	var o core.Objective
	if err := decodeJSON(w, r, &o); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	o.ID = ""
	s.saveObjective(w, r, o, http.StatusCreated)
}

// handleSaveObjective upserts the objective named in the path.
func (s *Server) handleSaveObjective(w http.ResponseWriter, r *http.Request) {
	var o core.Objective
	if err := decodeJSON(w, r, &o); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	o.ID = r.PathValue("id")
	s.saveObjective(w, r, o, http.StatusOK)
}

func (s *Server) saveObjective(w http.ResponseWriter, r *http.Request, o core.Objective, status int) {
	o.Title = sanitizeInput(o.Title)
	o.Category = sanitizeInput(o.Category)
	for i := range o.KeyResults {
		o.KeyResults[i].Title = sanitizeInput(o.KeyResults[i].Title)
		o.KeyResults[i].Unit = sanitizeInput(o.KeyResults[i].Unit)
	}
	saved, err := s.deps.Objectives.Save(r.Context(), o)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, status, dashboard.Views([]core.Objective{saved})[0])
}

func (s *Server) handleUpdateKeyResult(w http.ResponseWriter, r *http.Request) {
	var req keyResultUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	if req.CurrentValue == nil {
		writeError(w, r, log.OpUpdate, badRequest("currentValue is required"))
		return
	}
	saved, err := s.deps.Objectives.UpdateKeyResult(r.Context(), r.PathValue("id"), r.PathValue("krID"), *req.CurrentValue)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard.Views([]core.Objective{saved})[0])
}

func (s *Server) handleDeleteObjective(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Objectives.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
