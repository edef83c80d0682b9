package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pcamargo/herdlog/internal/domain"
)

// errorResponse is the JSON body of every non-2xx reply.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps a service error to an HTTP status and error body.
// Sentinel errors from domain carry the status; anything unrecognized is a
// 500 with a generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", err)
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, domain.ErrOccupied):
		writeErrorBody(w, http.StatusConflict, "occupied", err)
	case errors.Is(err, domain.ErrNoOpTransfer):
		writeErrorBody(w, http.StatusConflict, "no_op_transfer", err)
	case errors.Is(err, domain.ErrConflict):
		writeErrorBody(w, http.StatusConflict, "conflict", err)
	default:
		slog.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal", Message: "internal error"},
		})
	}
}

func writeErrorBody(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{
		Error: errorDetail{Code: code, Message: unwrapMessage(err)},
	})
}

// badRequest replies 400 for requests rejected before reaching the service
// layer (malformed JSON, bad UUID, bad date).
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error: errorDetail{Code: "bad_request", Message: message},
	})
}

// unwrapMessage strips the "service.X.Y:"/"repo.X.Y:" call-site prefixes
// from a wrapped sentinel error, leaving the human-readable part.
// e.g. "service.PaddockService.Register: repo.PaddockRepo.Create:
// validation error: paddock "P1" already exists" → `validation error:
// paddock "P1" already exists`.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		i := strings.Index(msg, ": ")
		if i < 0 {
			break
		}
		prefix := msg[:i]
		if !strings.HasPrefix(prefix, "service.") && !strings.HasPrefix(prefix, "repo.") {
			break
		}
		msg = msg[i+2:]
	}
	return msg
}
