package exporter

import (
	"archive/zip"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"artexport/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngRequest = types.ExportRequest{AcceptedFileTypes: []string{"png"}}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func localPath(t *testing.T, fileURL string) string {
	t.Helper()
	u, err := url.Parse(fileURL)
	require.NoError(t, err)
	require.Equal(t, "file", u.Scheme)
	return filepath.FromSlash(u.Path)
}

func TestExportSinglePage(t *testing.T) {
	src := t.TempDir()
	page := writeFile(t, filepath.Join(src, "logo.png"), "png-bytes")
	store := &LocalStore{Dir: t.TempDir()}

	result, err := NewFileExporter(store, []string{page}, "").RequestExport(context.Background(), pngRequest)
	require.NoError(t, err)

	require.True(t, result.Completed())
	assert.Equal(t, "logo", result.Title)
	require.Len(t, result.ExportBlobs, 1)
	assert.True(t, strings.HasSuffix(result.ExportBlobs[0].URL, "/logo.png"))

	data, err := os.ReadFile(localPath(t, result.ExportBlobs[0].URL))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestExportMultiPageDirectoryIsArchived(t *testing.T) {
	design := filepath.Join(t.TempDir(), "Cartaz")
	writeFile(t, filepath.Join(design, "2.png"), "two")
	writeFile(t, filepath.Join(design, "1.png"), "one")
	writeFile(t, filepath.Join(design, "notes.txt"), "ignored")
	store := &LocalStore{Dir: t.TempDir()}

	result, err := NewFileExporter(store, []string{design}, "").RequestExport(context.Background(), pngRequest)
	require.NoError(t, err)

	require.True(t, result.Completed())
	assert.Equal(t, "Cartaz", result.Title)
	assert.True(t, strings.HasSuffix(result.ExportBlobs[0].URL, "/Cartaz.zip"))

	zr, err := zip.OpenReader(localPath(t, result.ExportBlobs[0].URL))
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"001-1.png", "002-2.png"}, names)
}

func TestExportSinglePageDirectoryIsNotArchived(t *testing.T) {
	design := filepath.Join(t.TempDir(), "Banner")
	writeFile(t, filepath.Join(design, "page.png"), "x")

	result, err := NewFileExporter(&LocalStore{Dir: t.TempDir()}, []string{design}, "Custom").RequestExport(context.Background(), pngRequest)
	require.NoError(t, err)

	assert.Equal(t, "Custom", result.Title)
	assert.True(t, strings.HasSuffix(result.ExportBlobs[0].URL, "/page.png"))
}

func TestExportWithoutAcceptedPagesIsAborted(t *testing.T) {
	src := t.TempDir()
	jpg := writeFile(t, filepath.Join(src, "photo.jpeg"), "x")

	cases := []struct {
		name  string
		paths []string
	}{
		{"no selection", nil},
		{"wrong type", []string{jpg}},
		{"empty dir", []string{t.TempDir()}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, err := NewFileExporter(&LocalStore{Dir: t.TempDir()}, c.paths, "").RequestExport(context.Background(), pngRequest)
			require.NoError(t, err)
			assert.Equal(t, types.ExportAborted, result.Status)
			assert.False(t, result.Completed())
		})
	}
}

func TestExportMissingPathFails(t *testing.T) {
	_, err := NewFileExporter(&LocalStore{Dir: t.TempDir()}, []string{"/does/not/exist.png"}, "").RequestExport(context.Background(), pngRequest)
	require.Error(t, err)
}

func TestAcceptsFile(t *testing.T) {
	assert.True(t, acceptsFile([]string{"png"}, "a.PNG"))
	assert.True(t, acceptsFile([]string{"jpg"}, "a.jpeg"))
	assert.True(t, acceptsFile(nil, "a.pdf"))
	assert.False(t, acceptsFile([]string{"png"}, "a.jpg"))
	assert.False(t, acceptsFile(nil, "README"))
}

func TestArchiveName(t *testing.T) {
	assert.Equal(t, "a_b.zip", archiveName("a/b"))
	assert.Equal(t, "design.zip", archiveName("  "))
}
