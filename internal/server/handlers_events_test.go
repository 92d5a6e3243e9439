package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/katharostech/hasura-upload-manager/internal/api"
)

func deletionEventBody(trigger, id string) *bytes.Buffer {
	payload := fmt.Sprintf(`{
		"event": {
			"session_variables": {},
			"op": "DELETE",
			"data": {"old": {"id": %q}, "new": null}
		},
		"created_at": "2021-01-01T00:00:00Z",
		"id": "evt-1",
		"trigger": {"name": %q},
		"table": {"schema": "public", "name": "uploads"}
	}`, id, trigger)
	return bytes.NewBufferString(payload)
}

func postEvent(srv *Server, secret string, body *bytes.Buffer) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/uploads/hasura/events", body)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(secretHeaderName, secret)
	}
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	return w
}

func TestEventDeletesUpload(t *testing.T) {
	srv, root := newTestServer(t, grantingBackend("jwt"))
	seedBlob(t, root, testUploadID, "abc")

	w := postEvent(srv, testSecret, deletionEventBody(deletionTriggerName, testUploadID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	if _, ok := blobContent(t, root, testUploadID); ok {
		t.Fatal("expected blob removed")
	}
}

func TestEventDeleteIsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t, grantingBackend("jwt"))

	w := postEvent(srv, testSecret, deletionEventBody(deletionTriggerName, testUploadID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for already-absent blob, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestEventIgnoresUnrelatedTriggers(t *testing.T) {
	srv, root := newTestServer(t, grantingBackend("jwt"))
	seedBlob(t, root, testUploadID, "abc")

	w := postEvent(srv, testSecret, deletionEventBody("upload_created", testUploadID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	if content, ok := blobContent(t, root, testUploadID); !ok || content != "abc" {
		t.Fatalf("expected store unchanged, got %q (exists %v)", content, ok)
	}
}

func TestEventSecretMismatchRejectedBeforeParsing(t *testing.T) {
	srv, root := newTestServer(t, grantingBackend("jwt"))
	seedBlob(t, root, testUploadID, "abc")

	// The body is not even valid JSON; a 403 (not a 400) proves the secret
	// check happens before the payload is inspected.
	w := postEvent(srv, "wrong-secret", bytes.NewBufferString("{not json"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (%s)", w.Code, w.Body.String())
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "forbidden" {
		t.Fatalf("expected forbidden code, got %q", errResp.Code)
	}

	if _, ok := blobContent(t, root, testUploadID); !ok {
		t.Fatal("expected store untouched")
	}
}

func TestEventMissingSecretRejected(t *testing.T) {
	srv, _ := newTestServer(t, grantingBackend("jwt"))

	w := postEvent(srv, "", deletionEventBody(deletionTriggerName, testUploadID))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestEventMalformedBodyRejected(t *testing.T) {
	srv, _ := newTestServer(t, grantingBackend("jwt"))

	w := postEvent(srv, testSecret, bytes.NewBufferString("{not json"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestEventMissingOldRowAcknowledged(t *testing.T) {
	srv, _ := newTestServer(t, grantingBackend("jwt"))

	body := bytes.NewBufferString(fmt.Sprintf(`{
		"event": {"session_variables": {}, "op": "DELETE", "data": {"old": null, "new": null}},
		"created_at": "2021-01-01T00:00:00Z",
		"id": "evt-2",
		"trigger": {"name": %q},
		"table": {"schema": "public", "name": "uploads"}
	}`, deletionTriggerName))

	w := postEvent(srv, testSecret, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected cleanup failures to still acknowledge, got %d (%s)", w.Code, w.Body.String())
	}
}
