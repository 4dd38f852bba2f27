package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/mozillazg/go-unidecode"
	"github.com/pivolan/hrf_analyzer/logger"
	"github.com/pivolan/hrf_analyzer/plot"
	"go.uber.org/zap"
)

const (
	viewPrefix = "hrf-"
	viewMaxAge = 24 * time.Hour
)

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// browserViewer writes the figure as an HTML page, opens it and waits for Enter.
type browserViewer struct {
	dir    string
	open   func(path string) error
	in     *bufio.Reader
	prompt io.Writer
}

func newBrowserViewer(dir string) *browserViewer {
	if dir == "" {
		dir = os.TempDir()
	}
	return &browserViewer{
		dir:    dir,
		open:   openInBrowser,
		in:     bufio.NewReader(os.Stdin),
		prompt: os.Stdout,
	}
}

func (v *browserViewer) Show(ctx context.Context, fig plot.Figure) error {
	log := logger.WithContext(ctx)
	if err := removeOldFiles(v.dir, viewPrefix, time.Now().Add(-viewMaxAge)); err != nil {
		log.Debug("cleaning old pages", zap.Error(err))
	}

	f, err := os.CreateTemp(v.dir, viewPrefix+slug(fig.Title)+"-*.html")
	if err != nil {
		return err
	}
	if err := plot.RenderHTML(fig, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("opening figure", zap.String("page", f.Name()))
	if err := v.open(f.Name()); err != nil {
		return fmt.Errorf("opening %s: %w", f.Name(), err)
	}

	fmt.Fprintf(v.prompt, "%s: press Enter to continue\n", fig.Title)
	return v.waitForEnter(ctx)
}

func (v *browserViewer) waitForEnter(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		_, err := v.in.ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// slug turns a title into an ASCII file name fragment.
func slug(title string) string {
	s := strings.ToLower(unidecode.Unidecode(title))
	s = strings.Trim(slugInvalid.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "figure"
	}
	return s
}

func openInBrowser(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}

// removeOldFiles deletes pages from earlier runs whose name has the prefix.
func removeOldFiles(dirPath, prefix string, maxAge time.Time) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}
	for _, file := range files {
		if file.IsDir() || !strings.HasPrefix(file.Name(), prefix) {
			continue
		}
		info, err := file.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(maxAge) {
			if err := os.Remove(filepath.Join(dirPath, file.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
