package api

import (
	"net/http"
	"strconv"

	"manzil/internal/metrics"
	"manzil/internal/models"
)

// UnitRequest is the request body for creating or updating a unit.
type UnitRequest struct {
	OwnerID int64  `json:"owner_id,omitempty"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// handleUnits serves the unit collection.
// GET /api/units?owner_id=N
// POST /api/units
func (s *HTTPServer) handleUnits(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("units")
	switch r.Method {
	case http.MethodGet:
		ownerID, _ := strconv.ParseInt(r.URL.Query().Get("owner_id"), 10, 64)
		units, err := s.db.ListUnits(r.Context(), ownerID)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"units": units})

	case http.MethodPost:
		var req UnitRequest
		if err := decodeStrict(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if !models.ValidUnitType(req.Type) {
			writeError(w, http.StatusBadRequest, "type must be villa, chalet or palace")
			return
		}
		unit := &models.Unit{OwnerID: req.OwnerID, Name: req.Name, Type: req.Type}
		if err := s.db.CreateUnit(r.Context(), unit); err != nil {
			s.writeDomainError(w, err)
			return
		}
		s.log.Info().Int64("unit_id", unit.ID).Str("name", unit.Name).Msg("unit created")
		writeJSON(w, http.StatusCreated, unit)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleUnitByID serves one unit.
// GET|PUT|DELETE /api/units/{id}
func (s *HTTPServer) handleUnitByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("unit")
	id, rest, err := pathID(r.URL.Path, "/api/units/")
	if err != nil || rest != "" {
		writeError(w, http.StatusBadRequest, "invalid unit id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		unit, err := s.db.GetUnit(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, unit)

	case http.MethodPut:
		var req UnitRequest
		if err := decodeStrict(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		unit, err := s.db.GetUnit(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		if req.Name != "" {
			unit.Name = req.Name
		}
		if req.Type != "" {
			if !models.ValidUnitType(req.Type) {
				writeError(w, http.StatusBadRequest, "type must be villa, chalet or palace")
				return
			}
			unit.Type = req.Type
		}
		if err := s.db.UpdateUnit(r.Context(), unit); err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, unit)

	case http.MethodDelete:
		if err := s.db.DeleteUnit(r.Context(), id); err != nil {
			s.writeDomainError(w, err)
			return
		}
		s.log.Info().Int64("unit_id", id).Msg("unit deleted")
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
