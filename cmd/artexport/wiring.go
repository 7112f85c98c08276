package main

import (
	"context"
	"io"
	"strconv"
	"time"

	"artexport/client"
	"artexport/config"
	"artexport/exporter"
	"artexport/navigator"
	"artexport/shared/kafka"
	"artexport/workflow"

	"github.com/sirupsen/logrus"
)

// exportFlags select the design pages and where artifacts are published
type exportFlags struct {
	title  string
	outDir string
	print  bool
}

// closers collects resources to release when a command ends
type closers []io.Closer

func (c closers) Close() {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil {
			logrus.WithError(err).Warn("Close failed")
		}
	}
}

// buildController wires the exporter, uploader, navigator and optional notifier
func buildController(ctx context.Context, cfg *config.Config, paths []string, flags exportFlags, out io.Writer) (*workflow.Controller, closers, error) {
	if err := cfg.ValidateWorkflow(); err != nil {
		return nil, nil, err
	}

	var cleanup closers

	var objectStore exporter.ObjectStore
	if cfg.S3.Bucket != "" {
		s3Store, err := exporter.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		objectStore = s3Store
		logrus.WithField("bucket", cfg.S3.Bucket).Info("Publishing exports to S3")
	} else {
		objectStore = &exporter.LocalStore{Dir: flags.outDir}
		logrus.WithField("dir", flags.outDir).Info("S3 not configured; publishing exports locally")
	}

	var nav workflow.Navigator = navigator.NewBrowser()
	if flags.print {
		nav = &navigator.Printer{W: out}
	}

	opts := workflow.OptionsFromConfig(cfg)
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			logrus.WithError(err).Warn("Kafka producer unavailable; upload events disabled")
		} else {
			opts.Notifier = producer
			cleanup = append(cleanup, producer)
		}
	}

	ctrl := workflow.NewController(
		exporter.NewFileExporter(objectStore, paths, flags.title),
		client.NewUploadClient(cfg.UploadURL, cfg.UploadToken),
		nav,
		opts,
	)
	return ctrl, cleanup, nil
}

// parseDuration accepts Go durations ("30s") or whole seconds ("30")
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}
