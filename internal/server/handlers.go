package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/marcus/listing-optimizer/internal/acquire"
	"github.com/marcus/listing-optimizer/internal/db"
	"github.com/marcus/listing-optimizer/internal/types"
)

// ListOptimizationsResponse represents the response for listing optimization history.
type ListOptimizationsResponse struct {
	Optimizations []db.Optimization `json:"optimizations"`
	Count         int               `json:"count"`
	Limit         int               `json:"limit"`
	Offset        int               `json:"offset"`
}

// handleOptimize acquires a listing, rewrites it, and returns the
// before/after pair. With save=true and a configured database the pair is
// also persisted.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req types.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := s.run(r.Context(), req.Identifier, req.Save)
	if err != nil {
		var notFound *acquire.NotFoundError
		var acqErr *acquire.AcquisitionError
		switch {
		case errors.As(err, &notFound):
			s.errorResponse(w, http.StatusNotFound,
				"Listing not found: the identifier may be invalid or the source refused the request")
		case errors.As(err, &acqErr):
			s.errorResponse(w, http.StatusBadGateway, "Source unavailable: "+acqErr.Message)
		default:
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleListOptimizations lists persisted optimizations with pagination.
func (s *Server) handleListOptimizations(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "History is not available: no database configured")
		return
	}

	limit := parseQueryInt(r, "limit", 50, 100)
	offset := parseQueryInt(r, "offset", 0, 0)

	optimizations, total, err := s.db.ListOptimizations(r.Context(), limit, offset)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ListOptimizationsResponse{
		Optimizations: optimizations,
		Count:         total,
		Limit:         limit,
		Offset:        offset,
	})
}

// handleGetOptimization retrieves one optimization by its ID.
func (s *Server) handleGetOptimization(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "History is not available: no database configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid optimization ID")
		return
	}

	optimization, err := s.db.GetOptimization(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if optimization == nil {
		s.errorResponse(w, http.StatusNotFound, "Optimization not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, optimization)
}

// handleDeleteOptimization removes one optimization record.
func (s *Server) handleDeleteOptimization(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "History is not available: no database configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid optimization ID")
		return
	}

	if err := s.db.DeleteOptimization(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// parseQueryInt parses an integer query parameter with default and max values.
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}
