package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEnvironment marks failures of the surrounding system (e.g. a
	// destination directory that cannot be created). They abort a batch.
	ErrEnvironment = errors.New("environment error")
	// ErrPerFile marks failures confined to one source file. A batch keeps
	// going and reports them together at the end.
	ErrPerFile = errors.New("file error")
	// ErrPersistence marks catalog write failures. They abort a batch after
	// the failing file has been rolled back.
	ErrPersistence = errors.New("persistence error")
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	// ErrUnsupported marks operations a frame kind does not offer.
	ErrUnsupported   = errors.New("unsupported operation")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker. The marker should be one of the exported sentinel
// errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrEnvironment
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err should stop a classification batch.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrPerFile)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "archive failure"
	}
	return strings.Join(parts, ": ")
}
