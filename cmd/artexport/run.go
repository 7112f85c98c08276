package main

import (
	"fmt"

	"artexport/config"
	"artexport/types"

	"github.com/spf13/cobra"
)

func newRunCmd(cfg *config.Config) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "run [page-or-dir...]",
		Short: "Run the export workflow once without a UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := buildController(cmd.Context(), cfg, args, flags, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup.Close()

			outcome, err := ctrl.Run(cmd.Context())
			if err != nil {
				return err
			}

			state := ctrl.State()
			out := cmd.OutOrStdout()
			switch outcome {
			case types.OutcomeAbandoned:
				fmt.Fprintln(out, "Export cancelled, nothing uploaded.")
			case types.OutcomeNavigated:
				fmt.Fprintf(out, "Uploaded %q.\n", ctrl.Status().LastTitle)
			case types.OutcomeMultiPage:
				return fmt.Errorf("%s", state.ErrorMessage)
			case types.OutcomeUploadFailed:
				if state.ErrorMessage != "" {
					return fmt.Errorf("%s", state.ErrorMessage)
				}
				return fmt.Errorf("upload failed")
			}
			return nil
		},
	}

	addExportFlags(cmd, &flags)
	return cmd
}

func addExportFlags(cmd *cobra.Command, flags *exportFlags) {
	cmd.Flags().StringVar(&flags.title, "title", "", "Design title (defaults to the file or directory name)")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "exports", "Local directory for exports when S3 is not configured")
	cmd.Flags().BoolVar(&flags.print, "print", false, "Print the follow-up URL instead of opening a browser")
}
