package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrFileRead indicates a candidate file could not be opened or read.
	ErrFileRead = errors.New("file read error")

	// ErrParse indicates the grammar produced no tree for a file.
	ErrParse = errors.New("parse error")

	// ErrEmptyKeyword indicates a keyword search without a keyword.
	ErrEmptyKeyword = errors.New("keyword is required")
)

// FailureKind classifies a per-file failure.
type FailureKind string

const (
	FailureRead  FailureKind = "read"
	FailureParse FailureKind = "parse"
)

// FileFailure records why one file was not extracted. Failures never abort
// the remaining files.
type FileFailure struct {
	File string
	Kind FailureKind
	Err  error
}

func (f FileFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.File, f.Err)
}

func (f FileFailure) Unwrap() error {
	return f.Err
}

// MarshalJSON renders the failure with its error message.
func (f FileFailure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		File  string      `json:"file"`
		Kind  FailureKind `json:"kind"`
		Error string      `json:"error"`
	}{f.File, f.Kind, msg})
}

func readFailure(path string, err error) FileFailure {
	return FileFailure{File: path, Kind: FailureRead, Err: fmt.Errorf("%w: %w", ErrFileRead, err)}
}

func parseFailure(path string, err error) FileFailure {
	return FileFailure{File: path, Kind: FailureParse, Err: fmt.Errorf("%w: %w", ErrParse, err)}
}

// Err joins all failures into one error, or returns nil when there are none.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
