package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pivolan/hrf_analyzer/domain/models"
	"github.com/pivolan/hrf_analyzer/plot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFigure(t *testing.T, title string) plot.Figure {
	t.Helper()
	fig, err := plot.NewHRFFigure([]float64{0, 20}, models.TracePair{Mean: []float64{1, 4}, Spread: []float64{0, 1}}, title, nil)
	require.NoError(t, err)
	return fig
}

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Before NO - HbO", "before-no-hbo"},
		{"Ñandú HbR", "nandu-hbr"},
		{"  ", "figure"},
		{"Mean ± 1 SD", "mean-1-sd"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, slug(tt.title))
		})
	}
}

func TestBrowserViewerShow(t *testing.T) {
	observe(t)
	dir := t.TempDir()
	var opened []string
	var prompt bytes.Buffer
	v := &browserViewer{
		dir:    dir,
		open:   func(path string) error { opened = append(opened, path); return nil },
		in:     bufio.NewReader(strings.NewReader("\n\n")),
		prompt: &prompt,
	}

	require.NoError(t, v.Show(context.Background(), testFigure(t, "Before NO - HbO")))
	require.NoError(t, v.Show(context.Background(), testFigure(t, "After NO - HbO")))

	require.Len(t, opened, 2)
	assert.True(t, strings.HasPrefix(filepath.Base(opened[0]), "hrf-before-no-hbo-"))
	page, err := os.ReadFile(opened[0])
	require.NoError(t, err)
	assert.Contains(t, string(page), "Before NO - HbO")
	assert.Contains(t, prompt.String(), "press Enter")
}

func TestBrowserViewerEOFDismisses(t *testing.T) {
	observe(t)
	v := &browserViewer{
		dir:    t.TempDir(),
		open:   func(string) error { return nil },
		in:     bufio.NewReader(strings.NewReader("")),
		prompt: &bytes.Buffer{},
	}
	assert.NoError(t, v.Show(context.Background(), testFigure(t, "x")))
}

func TestBrowserViewerOpenError(t *testing.T) {
	observe(t)
	v := &browserViewer{
		dir:    t.TempDir(),
		open:   func(string) error { return errors.New("no browser") },
		in:     bufio.NewReader(strings.NewReader("\n")),
		prompt: &bytes.Buffer{},
	}
	assert.ErrorContains(t, v.Show(context.Background(), testFigure(t, "x")), "no browser")
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestBrowserViewerCancel(t *testing.T) {
	observe(t)
	v := &browserViewer{
		dir:    t.TempDir(),
		open:   func(string) error { return nil },
		in:     bufio.NewReader(blockingReader{}),
		prompt: &bytes.Buffer{},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, v.Show(ctx, testFigure(t, "x")), context.DeadlineExceeded)
}

func TestRemoveOldFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "hrf-old.html")
	fresh := filepath.Join(dir, "hrf-new.html")
	other := filepath.Join(dir, "keep.html")
	for _, p := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(other, past, past))

	require.NoError(t, removeOldFiles(dir, viewPrefix, time.Now().Add(-viewMaxAge)))
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}
