package navigator

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Browser opens URLs in the user's default browser.
// It starts the platform opener and does not wait for it.
type Browser struct {
	// command builds the opener; overridable in tests
	command func(target string) (*exec.Cmd, error)
}

// NewBrowser creates a browser navigator for the current platform
func NewBrowser() *Browser {
	return &Browser{command: func(target string) (*exec.Cmd, error) {
		return platformCommand(runtime.GOOS, target)
	}}
}

// OpenExternalURL implements the external-navigation capability.
// The opener is not bound to ctx so it outlives the workflow run.
func (b *Browser) OpenExternalURL(ctx context.Context, target string) error {
	if err := validateURL(target); err != nil {
		return err
	}

	cmd, err := b.command(target)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	logrus.WithField("url", target).Info("Opened follow-up URL")
	// Reap the opener without blocking the caller
	go func() { _ = cmd.Wait() }()
	return nil
}

func platformCommand(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		// cmd.exe would split the URL at '&'
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", target), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// Printer writes URLs to a writer instead of opening them (headless runs)
type Printer struct {
	W io.Writer
}

// OpenExternalURL implements the external-navigation capability
func (p *Printer) OpenExternalURL(ctx context.Context, target string) error {
	if err := validateURL(target); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.W, "Open: %s\n", target)
	return err
}

func validateURL(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open non-http URL %q", target)
	}
	return nil
}
