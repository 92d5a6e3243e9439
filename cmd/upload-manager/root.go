package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katharostech/hasura-upload-manager/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "upload-manager",
		Short: "Authorization-delegating file gateway for Hasura uploads",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newPutCmd(cfg),
		newGetCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}
