package exporter

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"artexport/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ObjectStore publishes exported artifacts and returns a URL for them
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	URL(ctx context.Context, key string) (string, error)
}

// FileExporter exports a design made of page files on disk.
// Each path is a page file or a directory of page files. A single page is
// published as-is; several pages are bundled into one .zip archive.
type FileExporter struct {
	store ObjectStore
	paths []string
	title string
}

// NewFileExporter creates an exporter over paths. An empty title derives one from the paths.
func NewFileExporter(store ObjectStore, paths []string, title string) *FileExporter {
	return &FileExporter{
		store: store,
		paths: paths,
		title: title,
	}
}

// RequestExport implements the design-export capability
func (e *FileExporter) RequestExport(ctx context.Context, req types.ExportRequest) (*types.ExportResult, error) {
	pages, err := e.pages(req.AcceptedFileTypes)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		logrus.WithField("paths", e.paths).Info("No exportable pages selected")
		return &types.ExportResult{Status: types.ExportAborted}, nil
	}

	title := e.title
	if title == "" {
		title = deriveTitle(e.paths, pages)
	}

	exportID := uuid.New().String()
	var key string
	if len(pages) == 1 {
		key, err = e.publishFile(ctx, exportID, pages[0])
	} else {
		key, err = e.publishArchive(ctx, exportID, title, pages)
	}
	if err != nil {
		return nil, err
	}

	fileURL, err := e.store.URL(ctx, key)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"pages": len(pages),
		"key":   key,
	}).Info("Design exported")

	return &types.ExportResult{
		Status:      types.ExportCompleted,
		ExportBlobs: []types.ExportedBlob{{URL: fileURL}},
		Title:       title,
	}, nil
}

// pages resolves the configured paths to accepted page files, in order
func (e *FileExporter) pages(accepted []string) ([]string, error) {
	var pages []string
	for _, p := range e.paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			if acceptsFile(accepted, p) {
				pages = append(pages, p)
			}
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		var dirPages []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := filepath.Join(p, entry.Name())
			if acceptsFile(accepted, name) {
				dirPages = append(dirPages, name)
			}
		}
		sort.Strings(dirPages)
		pages = append(pages, dirPages...)
	}
	return pages, nil
}

func (e *FileExporter) publishFile(ctx context.Context, exportID, page string) (string, error) {
	f, err := os.Open(page)
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	key := exportID + "/" + filepath.Base(page)
	if err := e.store.Put(ctx, key, f, contentType(page)); err != nil {
		return "", err
	}
	return key, nil
}

func (e *FileExporter) publishArchive(ctx context.Context, exportID, title string, pages []string) (string, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, page := range pages {
		name := fmt.Sprintf("%03d-%s", i+1, filepath.Base(page))
		if err := addToZip(zw, name, page); err != nil {
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish archive: %w", err)
	}

	key := exportID + "/" + archiveName(title)
	if err := e.store.Put(ctx, key, &buf, "application/zip"); err != nil {
		return "", err
	}
	return key, nil
}

func addToZip(zw *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", name, err)
	}
	return nil
}

// acceptsFile reports whether path has one of the accepted extensions.
// An empty accepted list allows any file.
func acceptsFile(accepted []string, path string) bool {
	ext := normalizeExt(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return false
	}
	if len(accepted) == 0 {
		return true
	}
	for _, a := range accepted {
		if normalizeExt(a) == ext {
			return true
		}
	}
	return false
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

func contentType(path string) string {
	switch normalizeExt(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return "image/png"
	case "jpg":
		return "image/jpeg"
	case "pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// deriveTitle names the export after a single directory, else the first page
func deriveTitle(paths, pages []string) string {
	if len(paths) == 1 {
		if info, err := os.Stat(paths[0]); err == nil && info.IsDir() {
			return filepath.Base(filepath.Clean(paths[0]))
		}
	}
	base := filepath.Base(pages[0])
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func archiveName(title string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r < ' ' {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "design"
	}
	return name + ".zip"
}
