package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Upload ids are issued by the backend as UUIDs. Validating the shape here
// keeps arbitrary strings out of the blob directory and out of Hasura
// variables.
func validateUploadID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Server) pathUploadID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if !validateUploadID(id) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(errors.New("request must provide a valid upload id"), ErrCodeInvalidID))
		return "", false
	}
	return id, true
}
