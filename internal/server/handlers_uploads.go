package server

import (
	"bufio"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
)

// The credential is a JWT carried in a host-locked cookie. It is forwarded
// to Hasura verbatim and never parsed here.
const credentialCookieName = "__Host-Authorization"

func credentialFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(credentialCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUploadID(w, r)
	if !ok {
		return
	}

	content, err := s.uploads.Fetch(r.Context(), id, credentialFromRequest(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer content.Reader.Close()

	buffered := bufio.NewReader(content.Reader)
	peek, _ := buffered.Peek(512)

	w.Header().Set("Content-Type", http.DetectContentType(peek))
	w.Header().Set("Content-Length", strconv.FormatInt(content.SizeBytes, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := buffered.WriteTo(w); err != nil {
		s.log().Debug("stream upload content", "upload_id", id, "error", err)
	}
}

func (s *Server) handlePutUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUploadID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.multipartMaxMemory); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, classifyMultipartError(err))
		return
	}

	file, err := singleUploadedFile(r.MultipartForm)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	content, err := file.Open()
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("reading uploaded file: %w", err)))
		return
	}
	defer content.Close()

	if err := s.uploads.Store(r.Context(), id, credentialFromRequest(r), content); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// singleUploadedFile returns the one file part of the form, regardless of
// field name. Zero or multiple file parts are rejected.
func singleUploadedFile(form *multipart.Form) (*multipart.FileHeader, error) {
	var files []*multipart.FileHeader
	if form != nil {
		for _, headers := range form.File {
			files = append(files, headers...)
		}
	}
	if len(files) == 0 {
		return nil, badRequestCode(errors.New("request must contain an upload file"), ErrCodeMissingRequired)
	}
	if len(files) > 1 {
		return nil, badRequestCode(errors.New("only one file can be uploaded at a time"), ErrCodeTooManyFiles)
	}
	return files[0], nil
}

func classifyMultipartError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "request body too large") {
		return badRequestCode(errors.New("request body too large"), ErrCodeRequestTooLarge)
	}
	return badRequestCode(fmt.Errorf("request must contain a multipart upload body: %w", err), ErrCodeInvalidArgument)
}
