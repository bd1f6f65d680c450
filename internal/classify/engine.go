package classify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"astrofiler/internal/faults"
	"astrofiler/internal/fileutil"
	"astrofiler/internal/logging"
	"astrofiler/internal/progress"
)

// Batch is one classification run for one frame.
type Batch struct {
	Destination string
	Sources     []string
}

// Commit describes a file that has just been copied into place.
type Commit struct {
	Destination string
	BaseName    string
	Source      string
	Written     string
	// InPlace is set when Source already was Written and no copy was made.
	// Undoing such a commit must leave the file alone.
	InPlace bool
}

// CommitFunc records a copied file. A non-nil error aborts the batch; the
// function is responsible for undoing its own partial work first.
type CommitFunc func(ctx context.Context, c Commit) error

// Engine runs classification batches.
type Engine struct {
	// Verify compares checksums after each copy.
	Verify bool
	Logger *slog.Logger
}

// Run processes sources in order. The tracker advances once per source that
// was copied and committed or that failed on its own; each advance is pushed
// to observer.
func (e *Engine) Run(ctx context.Context, batch Batch, commit CommitFunc, observer progress.Observer, tracker *progress.Tracker) error {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(e.Logger, "classify"))
	if observer == nil {
		observer = progress.Nop
	}
	if tracker == nil {
		tracker = progress.New("classify", len(batch.Sources), false)
	}

	var failures []FileFailure
	advance := func() {
		tracker.Advance()
		observer.Push(tracker.Snapshot())
	}

	for _, source := range batch.Sources {
		if err := os.MkdirAll(batch.Destination, 0o755); err != nil {
			return faults.Wrap(faults.ErrEnvironment, "classify", "create destination",
				batch.Destination, err)
		}

		name, ok := fileutil.FileName(source)
		if !ok {
			failure := FileFailure{Source: source, Err: fmt.Errorf("no file name in source path")}
			failures = append(failures, failure)
			logging.WarnWithContext(logger, "skipping source without file name", "classify_source_invalid",
				logging.String("source", source),
				logging.String(logging.FieldErrorHint, "remove the entry from the frame queue"),
				logging.String(logging.FieldImpact, "file stays unclassified"))
			advance()
			continue
		}

		written := filepath.Join(batch.Destination, name)
		inPlace := fileutil.SameFile(source, written)
		if inPlace {
			logger.Debug("source already in destination; recording without copy",
				logging.String("source", source))
		} else if err := e.copy(source, written); err != nil {
			failures = append(failures, FileFailure{Source: source, Destination: written, Err: err})
			logging.WarnWithContext(logger, "copy failed", "classify_copy_failed",
				logging.String("source", source),
				logging.String("destination", written),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the source exists and the archive has space"),
				logging.String(logging.FieldImpact, "file stays queued for the next run"))
			advance()
			continue
		}

		if err := commit(ctx, Commit{
			Destination: batch.Destination,
			BaseName:    name,
			Source:      source,
			Written:     written,
			InPlace:     inPlace,
		}); err != nil {
			return err
		}

		logger.Debug("file classified",
			logging.String("source", source),
			logging.String("destination", written))
		advance()
	}

	if len(failures) > 0 {
		return &BatchError{Failures: failures}
	}
	return nil
}

func (e *Engine) copy(src, dst string) error {
	if e.Verify {
		return fileutil.CopyFileVerified(src, dst)
	}
	return fileutil.CopyFile(src, dst)
}
