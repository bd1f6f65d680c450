package classify

import (
	"strings"

	"astrofiler/internal/faults"
)

// FileFailure is one source that could not be classified.
type FileFailure struct {
	Source      string
	Destination string
	Err         error
}

func (f FileFailure) Error() string {
	if f.Destination == "" {
		return "classify " + f.Source + ": " + f.Err.Error()
	}
	return "classify " + f.Source + " -> " + f.Destination + ": " + f.Err.Error()
}

// BatchError aggregates the per-file failures of a batch that otherwise ran
// to completion. It matches faults.ErrPerFile.
type BatchError struct {
	Failures []FileFailure
}

// Error joins failure messages with newlines.
func (e *BatchError) Error() string {
	messages := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		messages[i] = f.Error()
	}
	return strings.Join(messages, "\n")
}

func (e *BatchError) Is(target error) bool {
	return target == faults.ErrPerFile
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}
