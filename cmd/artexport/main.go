package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"artexport/config"

	"github.com/spf13/cobra"
)

// globalFlags override values loaded from the environment
type globalFlags struct {
	uploadURL     string
	token         string
	followUpURL   string
	format        string
	failurePolicy string
	exportTimeout string
	uploadTimeout string
	logLevel      string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:           "artexport",
		Short:         "Export a design, upload it and open the mockup page",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, loaded, flags); err != nil {
				return err
			}
			loaded.SetupLogging()
			*cfg = *loaded
			return cfg.Validate()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.uploadURL, "upload-url", "", "Upload endpoint URL (env UPLOAD_URL)")
	pf.StringVar(&flags.token, "token", "", "Bearer token for the upload endpoint (env UPLOAD_TOKEN)")
	pf.StringVar(&flags.followUpURL, "followup-url", "", "Page opened after a successful upload (env FOLLOWUP_URL)")
	pf.StringVar(&flags.format, "format", "", "Export format (env EXPORT_FORMAT)")
	pf.StringVar(&flags.failurePolicy, "failure-policy", "", "Upload failure policy: silent or surface (env UPLOAD_FAILURE_POLICY)")
	pf.StringVar(&flags.exportTimeout, "export-timeout", "", "Export timeout, 0 for none (env EXPORT_TIMEOUT)")
	pf.StringVar(&flags.uploadTimeout, "upload-timeout", "", "Upload timeout, 0 for none (env UPLOAD_TIMEOUT)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (env LOG_LEVEL)")

	root.AddCommand(
		newRunCmd(cfg),
		newTUICmd(cfg),
		newServeCmd(cfg),
		newReceiveCmd(cfg),
		newWatchCmd(cfg),
		newUploadsCmd(cfg),
	)
	return root
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags globalFlags) error {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	if changed("upload-url") {
		cfg.UploadURL = flags.uploadURL
	}
	if changed("token") {
		cfg.UploadToken = flags.token
	}
	if changed("followup-url") {
		cfg.FollowUpURL = flags.followUpURL
	}
	if changed("format") {
		cfg.ExportFormat = flags.format
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("failure-policy") {
		policy, err := config.ParseUploadFailurePolicy(flags.failurePolicy)
		if err != nil {
			return err
		}
		cfg.FailurePolicy = policy
	}
	if changed("export-timeout") {
		d, err := parseDuration(flags.exportTimeout)
		if err != nil {
			return fmt.Errorf("invalid --export-timeout: %w", err)
		}
		cfg.ExportTimeout = d
	}
	if changed("upload-timeout") {
		d, err := parseDuration(flags.uploadTimeout)
		if err != nil {
			return fmt.Errorf("invalid --upload-timeout: %w", err)
		}
		cfg.UploadTimeout = d
	}
	return nil
}
