package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"artexport/client"
	"artexport/config"
	"artexport/types"

	"github.com/sirupsen/logrus"
)

// ErrBusy is returned by Run while another run is in progress
var ErrBusy = errors.New("workflow already running")

// Exporter is the design-export capability
type Exporter interface {
	RequestExport(ctx context.Context, req types.ExportRequest) (*types.ExportResult, error)
}

// Uploader sends the upload payload to the remote endpoint
type Uploader interface {
	Upload(ctx context.Context, payload types.UploadPayload) (*client.UploadResponse, error)
}

// Navigator is the external-navigation capability
type Navigator interface {
	OpenExternalURL(ctx context.Context, url string) error
}

// Notifier is told about every successful upload
type Notifier interface {
	Notify(ctx context.Context, event types.UploadEvent) error
}

// Options configures a Controller. Zero values fall back to the package defaults.
type Options struct {
	Format        string
	TitlePrefix   string
	FollowUpURL   string
	FailurePolicy config.UploadFailurePolicy

	// Zero means no timeout
	ExportTimeout time.Duration
	UploadTimeout time.Duration

	Notifier Notifier
	Now      func() time.Time
}

// OptionsFromConfig builds controller options from the runtime configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Format:        cfg.ExportFormat,
		TitlePrefix:   cfg.TitlePrefix,
		FollowUpURL:   cfg.FollowUpURL,
		FailurePolicy: cfg.FailurePolicy,
		ExportTimeout: cfg.ExportTimeout,
		UploadTimeout: cfg.UploadTimeout,
	}
}

// Controller runs the export -> validate -> upload -> navigate workflow
type Controller struct {
	exporter  Exporter
	uploader  Uploader
	navigator Navigator
	opts      Options
	state     *stateManager
}

// NewController creates a workflow controller in the idle state
func NewController(exporter Exporter, uploader Uploader, navigator Navigator, opts Options) *Controller {
	if opts.Format == "" {
		opts.Format = config.DefaultExportFormat
	}
	opts.Format = strings.ToLower(opts.Format)
	if opts.TitlePrefix == "" {
		opts.TitlePrefix = config.DefaultTitlePrefix
	}
	if opts.FollowUpURL == "" {
		opts.FollowUpURL = config.DefaultFollowUpURL
	}
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = config.PolicySilent
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		exporter:  exporter,
		uploader:  uploader,
		navigator: navigator,
		opts:      opts,
		state:     newStateManager(opts.Now),
	}
}

// State returns a snapshot of the busy flag and error message
func (c *Controller) State() types.WorkflowState {
	return c.state.snapshot()
}

// Status returns the state plus recent activity and the last outcome
func (c *Controller) Status() types.StatusResponse {
	return c.state.status()
}

// Run executes one workflow run. The busy flag is set before Run blocks on anything
// and is cleared on every return path. The only error is ErrBusy; every other
// failure is handled inside the run and reported through the outcome and state.
func (c *Controller) Run(ctx context.Context) (types.Outcome, error) {
	if !c.state.begin() {
		return types.OutcomeBusy, ErrBusy
	}
	return c.execute(ctx), nil
}

// Start enters the busy state synchronously and runs the workflow in the background.
// The returned channel yields the outcome once and is then closed.
func (c *Controller) Start(ctx context.Context) (<-chan types.Outcome, error) {
	if !c.state.begin() {
		return nil, ErrBusy
	}

	done := make(chan types.Outcome, 1)
	go func() {
		defer close(done)
		done <- c.execute(ctx)
	}()
	return done, nil
}

// execute runs the steps after begin has succeeded
func (c *Controller) execute(ctx context.Context) types.Outcome {
	defer c.state.finish()

	c.state.addLog("Requesting export...")
	outcome, title := c.run(ctx)
	c.state.record(outcome, title)

	logrus.WithFields(logrus.Fields{
		"outcome": outcome,
		"title":   title,
	}).Info("Export workflow finished")
	return outcome
}

func (c *Controller) run(ctx context.Context) (types.Outcome, string) {
	result, err := c.requestExport(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Export request failed, treating as abandoned")
		c.state.addLog(fmt.Sprintf("Export failed: %v", err))
		return types.OutcomeAbandoned, ""
	}
	if !result.Completed() {
		c.state.addLog("Export not completed, nothing to upload")
		return types.OutcomeAbandoned, ""
	}

	fileURL := result.ExportBlobs[0].URL
	if IsArchiveURL(fileURL) {
		c.state.setError(config.MsgSelectSinglePage)
		return types.OutcomeMultiPage, ""
	}

	title := DeriveTitle(result.Title, c.opts.TitlePrefix, c.opts.Now())
	payload := types.UploadPayload{
		Title: title,
		Files: []types.ExportedFile{{URL: fileURL, MimeType: MimeType(c.opts.Format)}},
	}

	c.state.addLog(fmt.Sprintf("Uploading %q...", title))
	resp, err := c.upload(ctx, payload)
	if err != nil {
		logrus.WithError(err).WithField("title", title).Warn("Upload failed")
		c.state.addLog(fmt.Sprintf("Upload failed: %v", err))
		if c.opts.FailurePolicy == config.PolicySurface {
			c.state.setError(config.MsgUploadFailed)
		}
		return types.OutcomeUploadFailed, title
	}

	followUp := client.FollowUpURL(c.opts.FollowUpURL, config.FollowUpTitleParam, title)
	c.state.addLog("Upload complete, opening " + followUp)
	if err := c.navigator.OpenExternalURL(ctx, followUp); err != nil {
		logrus.WithError(err).WithField("url", followUp).Warn("Failed to open follow-up URL")
	}

	if c.opts.Notifier != nil {
		event := types.UploadEvent{
			ID:          resp.ID,
			Source:      "workflow",
			Title:       title,
			Files:       payload.Files,
			FollowUpURL: followUp,
			UploadedAt:  c.opts.Now(),
		}
		if err := c.opts.Notifier.Notify(ctx, event); err != nil {
			logrus.WithError(err).Warn("Failed to publish upload event")
		}
	}

	return types.OutcomeNavigated, title
}

func (c *Controller) requestExport(ctx context.Context) (*types.ExportResult, error) {
	ctx, cancel := withOptionalTimeout(ctx, c.opts.ExportTimeout)
	defer cancel()

	return c.exporter.RequestExport(ctx, types.ExportRequest{
		AcceptedFileTypes: []string{c.opts.Format},
	})
}

func (c *Controller) upload(ctx context.Context, payload types.UploadPayload) (*client.UploadResponse, error) {
	ctx, cancel := withOptionalTimeout(ctx, c.opts.UploadTimeout)
	defer cancel()

	resp, err := c.uploader.Upload(ctx, payload)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &client.UploadResponse{}
	}
	return resp, nil
}

// DeriveTitle returns the trimmed export title, or "<prefix>-<unix millis>" when it is blank
func DeriveTitle(exportTitle, prefix string, now time.Time) string {
	if t := strings.TrimSpace(exportTitle); t != "" {
		return t
	}
	return strings.TrimSpace(prefix + "-" + strconv.FormatInt(now.UnixMilli(), 10))
}

// IsArchiveURL reports whether an exported file URL points at a multi-page archive
func IsArchiveURL(fileURL string) bool {
	return strings.Contains(strings.ToLower(fileURL), config.ArchiveSuffix)
}

// MimeType returns the image MIME type for an export format
func MimeType(format string) string {
	format = strings.ToLower(format)
	if format == "jpg" {
		format = "jpeg"
	}
	return "image/" + format
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
