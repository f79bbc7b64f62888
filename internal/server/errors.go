package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/stack-ranker/internal/dal"
)

// storeError maps facade errors to HTTP status codes. Missing entities
// become 404, everything else is treated as a backend failure.
func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	if dal.IsNotFound(err) {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	var backendErr *dal.BackendError
	if errors.As(err, &backendErr) {
		s.metrics.BackendError()
	}

	s.log.Errorw("request failed", "op", op, "error", err)
	s.errorResponse(w, http.StatusInternalServerError, "internal server error")
}
