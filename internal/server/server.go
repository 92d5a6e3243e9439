package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/katharostech/hasura-upload-manager/internal/blobstore"
	"github.com/katharostech/hasura-upload-manager/internal/hasura"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 5 * time.Minute
	writeTimeout      = 5 * time.Minute
	idleTimeout       = 60 * time.Second

	defaultMaxUploadBytes     = 100 << 20 // 100 MiB
	defaultMultipartMaxMemory = 8 << 20   // 8 MiB
)

// Server wraps the HTTP handlers for the upload manager.
type Server struct {
	addr          string
	uploads       *UploadService
	reconciler    *EventReconciler
	webhookSecret string
	logger        *slog.Logger

	maxUploadBytes     int64
	multipartMaxMemory int64
}

// UploadOptions overrides upload request limits.
type UploadOptions struct {
	MaxUploadBytes     int64
	MultipartMaxMemory int64
}

// New creates a new server instance.
func New(addr string, client *hasura.Client, store blobstore.Store, webhookSecret string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:               addr,
		uploads:            NewUploadService(client, store, logger),
		reconciler:         NewEventReconciler(store, logger),
		webhookSecret:      webhookSecret,
		logger:             logger,
		maxUploadBytes:     defaultMaxUploadBytes,
		multipartMaxMemory: defaultMultipartMaxMemory,
	}
}

// ConfigureUploadOptions overrides the request size limits.
func (s *Server) ConfigureUploadOptions(opts UploadOptions) {
	if s == nil {
		return
	}
	if opts.MaxUploadBytes > 0 {
		s.maxUploadBytes = opts.MaxUploadBytes
	}
	if opts.MultipartMaxMemory > 0 {
		s.multipartMaxMemory = opts.MultipartMaxMemory
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.withRequestLogging(s.routes()),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
