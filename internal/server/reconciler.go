package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/katharostech/hasura-upload-manager/internal/blobstore"
	"github.com/katharostech/hasura-upload-manager/internal/hasura"
)

const deletionTriggerName = "upload_deleted"

// EventReconciler keeps the blob directory consistent with the backend's
// row lifecycle: when Hasura reports an uploads row deleted, the
// corresponding blob is removed. Cleanup is best effort; a failure leaves
// an orphaned blob rather than making the event source redeliver.
type EventReconciler struct {
	store  blobstore.Store
	logger *slog.Logger
}

// NewEventReconciler constructs an EventReconciler.
func NewEventReconciler(store blobstore.Store, logger *slog.Logger) *EventReconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventReconciler{store: store, logger: logger}
}

// Handle processes one Hasura event payload. Events from triggers other
// than the upload deletion trigger are acknowledged and ignored. Deleting
// an already-absent blob is success: the desired end state holds either way.
func (r *EventReconciler) Handle(ctx context.Context, payload *hasura.EventPayload) {
	if payload.Trigger.Name != deletionTriggerName {
		r.logger.Debug("ignoring event from unrelated trigger", "trigger", payload.Trigger.Name, "op", payload.Event.Op)
		return
	}

	var row hasura.UploadRow
	if err := json.Unmarshal(payload.Event.Data.Old, &row); err != nil || row.ID == "" {
		r.logger.Warn("deletion event missing old row id", "event_id", payload.ID, "error", err)
		return
	}

	if err := r.store.Delete(ctx, row.ID); err != nil {
		r.logger.Warn("could not delete upload", "upload_id", row.ID, "error", err)
		return
	}

	r.logger.Info("upload deleted", "upload_id", row.ID, "trigger", payload.Trigger.Name)
}
