package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /health", s.handleHealth)

	// Hasura event webhook.
	mux.HandleFunc("POST /uploads/hasura/events", s.handleHasuraEvents)

	// Upload content.
	mux.HandleFunc("GET /uploads/{id}", s.handleGetUpload)
	mux.HandleFunc("POST /uploads/{id}", s.handlePutUpload)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
