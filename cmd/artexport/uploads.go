package main

import (
	"fmt"
	"strings"

	"artexport/client"
	"artexport/config"

	"github.com/spf13/cobra"
)

func newUploadsCmd(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "List recent uploads stored by a receiver",
		RunE: func(cmd *cobra.Command, args []string) error {
			listURL := fmt.Sprintf("%s/uploads?limit=%d", strings.TrimSuffix(cfg.UploadURL, "/export"), limit)

			records, err := client.NewUploadClient(cfg.UploadURL, cfg.UploadToken).ListUploads(cmd.Context(), listURL)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, rec := range records {
				fmt.Fprintf(out, "%s  %s  %s\n", rec.ReceivedAt.Format("2006-01-02 15:04:05"), rec.ID, rec.Title)
				for _, f := range rec.Files {
					fmt.Fprintf(out, "    %s  %s\n", f.MimeType, f.URL)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of uploads to list")
	return cmd
}
