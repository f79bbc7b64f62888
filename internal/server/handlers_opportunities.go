package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/stack-ranker/internal/dal"
)

// filtersFromQuery builds opportunity filters from query parameters.
// A date range applies only when both start and end parse.
func filtersFromQuery(r *http.Request) (*dal.Filters, error) {
	q := r.URL.Query()
	filters := &dal.Filters{
		Stage:  q.Get("stage"),
		Rep:    q.Get("rep"),
		Region: q.Get("region"),
	}
	startRaw := q.Get("startDate")
	endRaw := q.Get("endDate")
	if startRaw != "" && endRaw != "" {
		start, err := dal.ParseDate(startRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate %q", startRaw)
		}
		end, err := dal.ParseDate(endRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate %q", endRaw)
		}
		filters.DateRange = &dal.DateRange{Start: start, End: end}
	}
	return filters, nil
}

func (s *Server) handleListOpportunities(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromQuery(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	opportunities, err := s.store.Opportunities().GetAll(r.Context(), filters)
	if err != nil {
		s.storeError(w, "list opportunities", err)
		return
	}
	s.dataResponse(w, http.StatusOK, opportunities)
}

func (s *Server) handleGetOpportunity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	opportunity, err := s.store.Opportunities().GetByID(r.Context(), id)
	if err != nil {
		s.storeError(w, "get opportunity", err)
		return
	}
	if opportunity == nil {
		s.errorResponse(w, http.StatusNotFound, "opportunity not found")
		return
	}
	s.dataResponse(w, http.StatusOK, opportunity)
}

func (s *Server) handleCreateOpportunity(w http.ResponseWriter, r *http.Request) {
	var input dal.NewOpportunity
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := input.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	opportunity, err := s.store.Opportunities().Create(r.Context(), input)
	if err != nil {
		if dal.IsNotFound(err) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		s.storeError(w, "create opportunity", err)
		return
	}
	s.dataResponse(w, http.StatusCreated, opportunity)
}

func (s *Server) handleUpdateOpportunity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch dal.OpportunityPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opportunity, err := s.store.Opportunities().Update(r.Context(), id, patch)
	if err != nil {
		s.storeError(w, "update opportunity", err)
		return
	}
	s.dataResponse(w, http.StatusOK, opportunity)
}

func (s *Server) handleDeleteOpportunity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Opportunities().Delete(r.Context(), id); err != nil {
		s.storeError(w, "delete opportunity", err)
		return
	}
	s.dataResponse(w, http.StatusOK, map[string]string{"id": id})
}
