package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pcamargo/herdlog/internal/domain"
)

// ingestAnimalRequest is the body of POST /animals. The four historical
// fallback-field spellings from the original data model are accepted
// alongside the canonical legacy_paddock; the first non-empty one wins, so
// the rest of the engine only ever sees a single normalized field.
type ingestAnimalRequest struct {
	EarTag        string `json:"ear_tag"`
	Name          string `json:"name"`
	Sex           string `json:"sex"`
	Breed         string `json:"breed"`
	RegisteredAt  string `json:"registered_at"` // YYYY-MM-DD, optional
	LegacyPaddock string `json:"legacy_paddock"`
	PiqueteAtual1 string `json:"piquete_atual"`
	PiqueteAtual2 string `json:"piqueteAtual"`
	PastoAtual1   string `json:"pasto_atual"`
	PastoAtual2   string `json:"pastoAtual"`
}

// legacyPaddock collapses the fallback-field spellings into one value.
func (req ingestAnimalRequest) legacyPaddock() string {
	for _, v := range []string{
		req.LegacyPaddock, req.PiqueteAtual1, req.PiqueteAtual2,
		req.PastoAtual1, req.PastoAtual2,
	} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// ingestAnimal handles POST /animals.
func (s *Server) ingestAnimal(w http.ResponseWriter, r *http.Request) {
	var req ingestAnimalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	animal := domain.Animal{
		EarTag:        req.EarTag,
		Name:          req.Name,
		Sex:           req.Sex,
		Breed:         req.Breed,
		LegacyPaddock: req.legacyPaddock(),
	}
	if strings.TrimSpace(req.RegisteredAt) != "" {
		t, err := time.Parse("2006-01-02", req.RegisteredAt)
		if err != nil {
			badRequest(w, "registered_at must be YYYY-MM-DD")
			return
		}
		animal.RegisteredAt = &t
	}

	created, err := s.animals.Ingest(r.Context(), animal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listAnimals handles GET /animals.
func (s *Server) listAnimals(w http.ResponseWriter, r *http.Request) {
	animals, err := s.animals.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, animals)
}

// getAnimal handles GET /animals/{animalID}.
func (s *Server) getAnimal(w http.ResponseWriter, r *http.Request) {
	id, ok := animalIDParam(w, r)
	if !ok {
		return
	}
	animal, err := s.animals.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, animal)
}

// getAnimalLocation handles GET /animals/{animalID}/location.
// Replies 204 when the resolver finds no location — a valid state for
// newly registered animals, not an error.
func (s *Server) getAnimalLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := animalIDParam(w, r)
	if !ok {
		return
	}
	location, err := s.locations.Resolve(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if location == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

// getAnimalHistory handles GET /animals/{animalID}/history.
func (s *Server) getAnimalHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := animalIDParam(w, r)
	if !ok {
		return
	}
	history, err := s.locations.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// animalIDParam parses the {animalID} URL parameter, replying 400 on a
// malformed UUID.
func animalIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "animalID"))
	if err != nil {
		badRequest(w, "animal id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
