package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katharostech/hasura-upload-manager/internal/blobstore"
	"github.com/katharostech/hasura-upload-manager/internal/config"
	"github.com/katharostech/hasura-upload-manager/internal/hasura"
	"github.com/katharostech/hasura-upload-manager/internal/server"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the upload manager gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := slog.Default().With("component", "server")

			store, err := blobstore.NewLocalDir(cfg.DataDir)
			if err != nil {
				return err
			}
			logger.Info("using blob directory", "path", cfg.DataDir)

			client := hasura.NewClient(cfg.HasuraURL, slog.Default().With("component", "hasura"))

			srv := server.New(cfg.ListenAddr, client, store, cfg.WebhookSecret, logger)
			srv.ConfigureUploadOptions(server.UploadOptions{
				MaxUploadBytes:     cfg.Uploads.MaxUploadBytes,
				MultipartMaxMemory: cfg.Uploads.MultipartMaxMemory,
			})
			return srv.ListenAndServe()
		},
	}
}
