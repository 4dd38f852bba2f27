package hrf

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound        = errors.New("file not found")
	ErrParse               = errors.New("cannot parse table")
	ErrEmptyGroup          = errors.New("channel group has no columns")
	ErrWidthMismatch       = errors.New("mean and spread groups have different channel counts")
	ErrLengthMismatch      = errors.New("series lengths differ")
	ErrTooFewChannels      = errors.New("not enough channels for spread method")
	ErrUnknownSpreadMethod = errors.New("unknown spread method")
)

// ParseError points at the place in a file where interpretation failed.
// Row is 1-based and counts the header; zero means "not row specific".
type ParseError struct {
	Path   string
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("%s: row %d, column %q: %v", e.Path, e.Row, e.Column, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("%s: row %d: %v", e.Path, e.Row, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
