package main

import (
	"time"

	"artexport/api"
	"artexport/config"
	"artexport/shared/kafka"
	"artexport/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newReceiveCmd(cfg *config.Config) *cobra.Command {
	var (
		port      string
		memory    bool
		recordTTL time.Duration
	)

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Run the upload endpoint that stores exported designs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cleanup closers
			defer func() { cleanup.Close() }()

			var uploads store.UploadStore
			if memory {
				uploads = store.NewMemoryStore()
			} else {
				rs, err := store.NewRedisStore(cfg.Redis, recordTTL)
				if err != nil {
					return err
				}
				uploads = rs
			}
			cleanup = append(cleanup, uploads)

			recv := &api.Receiver{Token: cfg.UploadToken, Store: uploads}
			if cfg.Kafka.Enabled() {
				producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
				if err != nil {
					logrus.WithError(err).Warn("Kafka producer unavailable; upload events disabled")
				} else {
					recv.Publisher = producer
					cleanup = append(cleanup, producer)
				}
			}
			if cfg.UploadToken == "" {
				logrus.Warn("UPLOAD_TOKEN is empty; the upload endpoint accepts unauthenticated requests")
			}

			if port == "" {
				port = cfg.ReceiverPort
			}

			r := api.NewEngine()
			api.RegisterReceiverRoutes(r, recv)
			return api.Serve(cmd.Context(), ":"+port, r)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Receiver port (env RECEIVER_PORT)")
	cmd.Flags().BoolVar(&memory, "memory", false, "Keep uploads in memory instead of Redis")
	cmd.Flags().DurationVar(&recordTTL, "record-ttl", 0, "Expire stored uploads after this duration (0 keeps them)")
	return cmd
}
