package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/katharostech/hasura-upload-manager/internal/hasura"
)

const (
	secretHeaderName = "x-hasura-upload-manager-secret"

	eventJSONMaxBody = 1 << 20 // 1 MiB
)

// handleHasuraEvents is the webhook Hasura event triggers deliver to. The
// shared secret is checked before the payload is read; once the reconciler
// has run the request is always acknowledged, so Hasura never redelivers
// over a cleanup-internal failure.
func (s *Server) handleHasuraEvents(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get(secretHeaderName)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.webhookSecret)) != 1 {
		s.writeErrorReq(w, r, http.StatusForbidden,
			forbidden(fmt.Errorf("'%s' header does not match", secretHeaderName)))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, eventJSONMaxBody)
	var payload hasura.EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("decoding event payload: %w", err), ErrCodeInvalidJSON))
		return
	}

	s.reconciler.Handle(r.Context(), &payload)

	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
