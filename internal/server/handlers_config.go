package server

import (
	"encoding/json"
	"net/http"
)

type stagesPayload struct {
	Stages []string `json:"stages"`
}

func (s *Server) handleGetStages(w http.ResponseWriter, r *http.Request) {
	stages, err := s.store.Config().GetStages(r.Context())
	if err != nil {
		s.storeError(w, "get stages", err)
		return
	}
	s.dataResponse(w, http.StatusOK, stagesPayload{Stages: stages})
}

func (s *Server) handleUpdateStages(w http.ResponseWriter, r *http.Request) {
	var payload stagesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(payload.Stages) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "stages must not be empty")
		return
	}

	stages, err := s.store.Config().UpdateStages(r.Context(), payload.Stages)
	if err != nil {
		s.storeError(w, "update stages", err)
		return
	}
	s.dataResponse(w, http.StatusOK, stagesPayload{Stages: stages})
}
