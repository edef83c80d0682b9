package handler

import "net/http"

// health handles GET /healthz. Liveness only — it does not touch the
// database.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
