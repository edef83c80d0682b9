package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pcamargo/herdlog/internal/domain"
)

// paddockRequest is the body of POST /paddocks and PUT /paddocks/{name}.
type paddockRequest struct {
	Name     string   `json:"name"`
	AreaHa   *float64 `json:"area_ha"`
	Capacity *int     `json:"capacity"`
	Kind     string   `json:"kind"`
	Notes    string   `json:"notes"`
	// Active defaults to true when omitted on create; PUT sends it explicitly
	// to deactivate a paddock that cannot be deleted.
	Active *bool `json:"active"`
}

func (req paddockRequest) toDomain() domain.Paddock {
	p := domain.Paddock{
		Name:     req.Name,
		AreaHa:   req.AreaHa,
		Capacity: req.Capacity,
		Kind:     req.Kind,
		Notes:    req.Notes,
		Active:   true,
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	return p
}

// listPaddocks handles GET /paddocks.
func (s *Server) listPaddocks(w http.ResponseWriter, r *http.Request) {
	paddocks, err := s.paddocks.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paddocks)
}

// createPaddock handles POST /paddocks.
func (s *Server) createPaddock(w http.ResponseWriter, r *http.Request) {
	var req paddockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	created, err := s.paddocks.Register(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// updatePaddock handles PUT /paddocks/{name}.
func (s *Server) updatePaddock(w http.ResponseWriter, r *http.Request) {
	var req paddockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	updated, err := s.paddocks.Update(r.Context(), chi.URLParam(r, "name"), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deletePaddock handles DELETE /paddocks/{name}.
// Replies 409 with code "occupied" while animals are still in the paddock.
func (s *Server) deletePaddock(w http.ResponseWriter, r *http.Request) {
	if err := s.paddocks.Remove(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
