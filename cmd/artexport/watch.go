package main

import (
	"context"
	"fmt"

	"artexport/config"
	"artexport/shared/kafka"
	"artexport/types"

	"github.com/spf13/cobra"
)

func newWatchCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print upload events published to Kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.Kafka.Enabled() {
				return fmt.Errorf("KAFKA_BOOTSTRAP_SERVERS is not set")
			}

			out := cmd.OutOrStdout()
			consumer, err := kafka.NewEventConsumer(cfg.Kafka, func(ctx context.Context, event *types.UploadEvent) error {
				_, err := fmt.Fprintf(out, "%s  %-8s  %s  (%d file(s)) %s\n",
					event.UploadedAt.Format("2006-01-02 15:04:05"), event.Source, event.Title, len(event.Files), event.FollowUpURL)
				return err
			})
			if err != nil {
				return err
			}
			defer consumer.Close()

			return consumer.Run(cmd.Context())
		},
	}
}
