package archive

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"astrofiler/internal/classify"
	"astrofiler/internal/faults"
	"astrofiler/internal/frames"
	"astrofiler/internal/logging"
)

// commit records one copied file on frame and persists the catalog. If the
// catalog cannot be written, the frame and its catalog entry return to their
// previous state and the copied file is deleted unless it is the source
// itself or a file the catalog still lists.
func (s *State) commit(ctx context.Context, frame frames.Frame, c classify.Commit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.Get(frame.Kind(), frame.FrameID()); !ok {
		s.undoCopy(ctx, c)
		return faults.Wrap(faults.ErrNotFound, "archive", "commit", frame.FrameID(), errFrameGone)
	}

	snapshot := frame.Clone()
	frame.Base().MarkClassified(c.Source, filepath.Join(c.Destination, c.BaseName))
	frame.InsertInto(s.catalog)

	if err := s.persister.Save(s.catalog); err != nil {
		snapshot.InsertInto(s.catalog)
		*frame.Base() = *snapshot.Base()
		s.undoCopy(ctx, c)
		return faults.Wrap(faults.ErrPersistence, "archive", "commit", "persist catalog after "+c.BaseName, err)
	}
	return nil
}

// undoCopy removes the file written for c when nothing else owns it. Callers
// hold s.mu.
func (s *State) undoCopy(ctx context.Context, c classify.Commit) {
	if c.InPlace {
		return
	}
	if owner, ok := s.catalog.ClassifiedBy(c.Written); ok {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "uncommitted copy overwrote a catalogued file; keeping it", "rollback_kept_overwritten",
			logging.String("path", c.Written),
			logging.String("owner_frame_id", owner),
			logging.String("source", c.Source),
			logging.String(logging.FieldErrorHint, "give the sources distinct file names or separate patterns"),
			logging.String(logging.FieldImpact, "file content comes from the rolled back source"))
		return
	}
	s.discard(ctx, c.Written)
}

// discard removes a copied file that is not recorded in the catalog. Failure
// is logged only.
func (s *State) discard(ctx context.Context, path string) {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	logging.WarnWithContext(logging.WithContext(ctx, s.logger), "failed to remove uncommitted copy", "rollback_remove_failed",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "delete the file by hand"),
		logging.String(logging.FieldImpact, "archive directory holds a file the catalog does not list"))
}
