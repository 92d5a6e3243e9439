package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katharostech/hasura-upload-manager/internal/api"
	"github.com/katharostech/hasura-upload-manager/internal/config"
)

const jwtEnvKey = "UPLOAD_MANAGER_JWT"

func newPutCmd(cfg *config.Config) *cobra.Command {
	var jwt string
	var serverURL string

	cmd := &cobra.Command{
		Use:   "put <id> <file>",
		Short: "Upload a file to a running gateway",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, path := args[0], args[1]

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			client := api.NewClient(resolveServerURL(serverURL, cfg), resolveJWT(jwt))
			if err := client.Upload(cmd.Context(), id, filepath.Base(path), f); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "uploaded %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&jwt, "jwt", "", "Hasura JWT to authenticate as")
	cmd.Flags().StringVar(&serverURL, "server", "", "gateway base URL")
	return cmd
}

func newGetCmd(cfg *config.Config) *cobra.Command {
	var jwt string
	var serverURL string
	var outPath string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Download a file from a running gateway",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var out io.Writer = os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			client := api.NewClient(resolveServerURL(serverURL, cfg), resolveJWT(jwt))
			_, err := client.Download(cmd.Context(), id, out)
			return err
		},
	}

	cmd.Flags().StringVar(&jwt, "jwt", "", "Hasura JWT to authenticate as")
	cmd.Flags().StringVar(&serverURL, "server", "", "gateway base URL")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func resolveServerURL(flagValue string, cfg *config.Config) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	addr := config.DefaultListenAddr
	if cfg != nil && strings.TrimSpace(cfg.ListenAddr) != "" {
		addr = cfg.ListenAddr
	}
	if strings.Contains(addr, "://") {
		return addr
	}
	return "http://" + addr
}

func resolveJWT(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	return os.Getenv(jwtEnvKey)
}
