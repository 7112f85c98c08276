package main

import (
	"artexport/api"
	"artexport/config"

	"github.com/spf13/cobra"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var flags exportFlags
	var port string

	cmd := &cobra.Command{
		Use:   "serve [page-or-dir...]",
		Short: "Expose the export workflow over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := buildController(cmd.Context(), cfg, args, flags, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup.Close()

			if port == "" {
				port = cfg.APIPort
			}

			r := api.NewEngine()
			api.RegisterWorkflowRoutes(r, cmd.Context(), ctrl)
			return api.Serve(cmd.Context(), ":"+port, r)
		},
	}

	addExportFlags(cmd, &flags)
	cmd.Flags().StringVar(&port, "port", "", "HTTP API port (env API_PORT)")
	return cmd
}
