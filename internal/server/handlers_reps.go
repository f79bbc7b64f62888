package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/stack-ranker/internal/dal"
)

func (s *Server) handleListReps(w http.ResponseWriter, r *http.Request) {
	reps, err := s.store.RepMetrics().GetAll(r.Context())
	if err != nil {
		s.storeError(w, "list reps", err)
		return
	}
	s.dataResponse(w, http.StatusOK, reps)
}

func (s *Server) handleGetRep(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	rep, err := s.store.RepMetrics().GetByName(r.Context(), name)
	if err != nil {
		s.storeError(w, "get rep", err)
		return
	}
	if rep == nil {
		s.errorResponse(w, http.StatusNotFound, "rep not found")
		return
	}
	s.dataResponse(w, http.StatusOK, rep)
}

func (s *Server) handleUpdateRep(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var patch dal.RepMetricsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rep, err := s.store.RepMetrics().Update(r.Context(), name, patch)
	if err != nil {
		s.storeError(w, "update rep", err)
		return
	}
	s.dataResponse(w, http.StatusOK, rep)
}
