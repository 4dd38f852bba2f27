package hrf

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
	"github.com/pivolan/go_utils"
)

var archiveExtensions = []string{".gz", ".lz4", ".zip"}

// IsArchive reports whether the path carries a compression extension we unpack.
func IsArchive(path string) bool {
	return go_utils.InArray(strings.ToLower(filepath.Ext(path)), archiveExtensions)
}

// StripArchiveExt removes one compression extension, if any: a.csv.gz -> a.csv.
func StripArchiveExt(path string) string {
	if IsArchive(path) {
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openInput opens path for reading, decompressing gz, lz4 and zip on the fly.
// The returned name is the logical file name of the payload (used to pick a format).
// Archives are never modified or removed.
func openInput(path string) (io.ReadCloser, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return openGzip(path)
	case ".lz4":
		return openLZ4(path)
	case ".zip":
		return openZip(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

func openGzip(path string) (io.ReadCloser, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	gr, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, "", &ParseError{Path: path, Err: fmt.Errorf("gzip: %w", err)}
	}
	return &multiCloser{Reader: gr, closers: []io.Closer{file, gr}}, StripArchiveExt(path), nil
}

func openLZ4(path string) (io.ReadCloser, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return &multiCloser{Reader: lz4.NewReader(file), closers: []io.Closer{file}}, StripArchiveExt(path), nil
}

// openZip picks the largest regular file in the archive.
func openZip(path string) (io.ReadCloser, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", &ParseError{Path: path, Err: fmt.Errorf("zip: %w", err)}
	}

	var largest *zip.File
	var largestSize uint64
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largest == nil || f.UncompressedSize64 > largestSize {
			largest = f
			largestSize = f.UncompressedSize64
		}
	}
	if largest == nil {
		r.Close()
		return nil, "", &ParseError{Path: path, Err: fmt.Errorf("zip archive is empty")}
	}

	rc, err := largest.Open()
	if err != nil {
		r.Close()
		return nil, "", &ParseError{Path: path, Err: fmt.Errorf("zip member %s: %w", largest.Name, err)}
	}
	return &multiCloser{Reader: rc, closers: []io.Closer{r, rc}}, largest.Name, nil
}
