package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/katharostech/hasura-upload-manager/internal/blobstore"
	"github.com/katharostech/hasura-upload-manager/internal/hasura"
)

// Authorization is delegated entirely to Hasura: a read is allowed when the
// caller's JWT can select the uploads row, a write when it can update it.
// The mutation below changes nothing (it sets id to its current value); it
// exists purely as a permission probe against Hasura's row-level rules, with
// the returned id as evidence that the update was allowed.
const (
	uploadLookupQuery = `
query Upload($id: uuid!) {
  upload: uploads_by_pk(id: $id) {
    id
  }
}`

	uploadProbeMutation = `
mutation Upload($id: uuid!) {
  upload: update_uploads_by_pk(pk_columns: { id: $id }, _set: { id: $id }) {
    id
  }
}`
)

// UploadService enforces check-then-act semantics for blob access: every
// read and write asks Hasura for a fresh permission decision before any
// filesystem I/O happens. Decisions are never cached across requests.
type UploadService struct {
	hasura *hasura.Client
	store  blobstore.Store
	logger *slog.Logger
}

// NewUploadService constructs an UploadService.
func NewUploadService(client *hasura.Client, store blobstore.Store, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{hasura: client, store: store, logger: logger}
}

// UploadContent is an open stream over stored upload bytes.
type UploadContent struct {
	Reader    io.ReadCloser
	SizeBytes int64
}

type uploadEnvelope struct {
	Upload *hasura.UploadRow `json:"upload"`
}

// Fetch returns the blob stored under id after Hasura confirms the caller
// may read it. Denied access, a missing row, a missing blob, and a backend
// failure all collapse into the same not-found error so callers cannot
// probe for existence.
func (s *UploadService) Fetch(ctx context.Context, id, jwt string) (*UploadContent, error) {
	resp, err := s.hasura.Call(ctx, uploadLookupQuery, jwt, map[string]any{"id": id})
	if err != nil {
		s.logPermissionFailure("read", id, err)
		return nil, notFoundUpload()
	}

	var envelope uploadEnvelope
	if err := resp.DecodeData(&envelope); err != nil {
		s.logger.Warn("upload lookup returned unexpected shape", "upload_id", id, "error", err)
		return nil, notFoundUpload()
	}
	if envelope.Upload == nil || envelope.Upload.ID == "" {
		return nil, notFoundUpload()
	}

	rc, size, err := s.store.Open(ctx, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Hasura has a row but the blob directory does not. Report the
			// same not-found as a denial; the gap is an operator problem.
			s.logger.Warn("store inconsistency: upload row exists but blob is missing", "upload_id", id)
			return nil, notFoundUpload()
		}
		return nil, storeFailure(fmt.Errorf("reading upload %s: %w", id, err))
	}

	return &UploadContent{Reader: rc, SizeBytes: size}, nil
}

// Store persists content under id after the permission probe mutation
// succeeds. A probe failure of any kind is the ambiguous not-found; a
// filesystem fault after a successful probe is an internal error carrying
// its cause.
func (s *UploadService) Store(ctx context.Context, id, jwt string, content io.Reader) error {
	resp, err := s.hasura.Call(ctx, uploadProbeMutation, jwt, map[string]any{"id": id})
	if err != nil {
		s.logPermissionFailure("write", id, err)
		return notFoundUpload()
	}

	var envelope uploadEnvelope
	if err := resp.DecodeData(&envelope); err != nil {
		s.logger.Warn("permission probe returned unexpected shape", "upload_id", id, "error", err)
		return notFoundUpload()
	}
	if envelope.Upload == nil || envelope.Upload.ID != id {
		return notFoundUpload()
	}

	n, err := s.store.Put(ctx, id, content)
	if err != nil {
		return storeFailure(fmt.Errorf("error writing file: %w", err))
	}

	s.logger.Info("upload stored", "upload_id", id, "bytes", n)
	return nil
}

func (s *UploadService) logPermissionFailure(op, id string, err error) {
	var transportErr *hasura.TransportError
	if errors.As(err, &transportErr) {
		// Kept distinct from a plain denial so operators can alert on
		// backend outages even though the caller sees the same 404.
		s.logger.Warn("hasura unreachable during permission check", "op", op, "upload_id", id, "error", err)
		return
	}
	s.logger.Debug("permission check denied", "op", op, "upload_id", id, "error", err)
}

func notFoundUpload() error {
	return notFoundCode(errors.New("upload not found or not accessible to the current user"), ErrCodeUploadNotFound)
}
