package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"astrofiler/internal/classify"
	"astrofiler/internal/config"
	"astrofiler/internal/equipment"
	"astrofiler/internal/faults"
	"astrofiler/internal/fileutil"
	"astrofiler/internal/frames"
	"astrofiler/internal/logging"
	"astrofiler/internal/progress"
)

// Service is the command surface over State.
type Service struct {
	state  *State
	engine *classify.Engine
	logger *slog.Logger
}

// NewService wires a classification engine to state.
func NewService(state *State, logger *slog.Logger) *Service {
	logger = logging.NewComponentLogger(logger, "archive")
	return &Service{
		state: state,
		engine: &classify.Engine{
			Verify: state.cfg.Classify.VerifyCopies,
			Logger: logger,
		},
		logger: logger,
	}
}

// ClassifyFrame copies every queued file of frame id into the directory its
// naming pattern resolves to.
func (s *Service) ClassifyFrame(ctx context.Context, id string, observer progress.Observer) error {
	release := s.state.lockFrame(id)
	defer release()

	var (
		frame frames.Frame
		dest  string
	)
	s.state.mu.Lock()
	frame, ok := s.state.catalog.Find(id)
	if ok {
		dest = frame.Destination(s.state.cfg.Paths.RootDir, s.state.cfg.Patterns, s.state.eq)
	}
	s.state.mu.Unlock()
	if !ok {
		return notFound("classify", id)
	}

	return s.run(ctx, frame, dest, observer)
}

// ClassifyIntoSession copies every queued file of frame id into an existing
// imaging-session folder. Bias frames do not support this.
func (s *Service) ClassifyIntoSession(ctx context.Context, id, session string, observer progress.Observer) error {
	session, err := config.ExpandPath(strings.TrimSpace(session))
	if err != nil {
		return faults.Wrap(faults.ErrValidation, "archive", "classify session", "resolve session folder", err)
	}
	if session == "" {
		return faults.Wrap(faults.ErrValidation, "archive", "classify session", "session folder is required", nil)
	}
	info, err := os.Stat(session)
	if err != nil {
		return faults.Wrap(faults.ErrValidation, "archive", "classify session", "session folder must exist", err)
	}
	if !info.IsDir() {
		return faults.Wrap(faults.ErrValidation, "archive", "classify session",
			fmt.Sprintf("%s is not a directory", session), nil)
	}

	release := s.state.lockFrame(id)
	defer release()

	var (
		frame frames.Frame
		dest  string
	)
	s.state.mu.Lock()
	frame, ok := s.state.catalog.Find(id)
	var sessionFrame frames.SessionFrame
	if ok {
		sessionFrame, ok = frame.(frames.SessionFrame)
		if ok {
			dest = sessionFrame.SessionDestination(session, s.state.cfg.Patterns, s.state.eq)
		}
	}
	s.state.mu.Unlock()
	if frame == nil {
		return notFound("classify session", id)
	}
	if sessionFrame == nil {
		return faults.Wrap(faults.ErrUnsupported, "archive", "classify session",
			fmt.Sprintf("%s frames cannot be classified into a session", frame.Kind()), nil)
	}

	return s.run(ctx, frame, dest, observer)
}

func (s *Service) run(ctx context.Context, frame frames.Frame, dest string, observer progress.Observer) error {
	ctx = faults.WithFrameID(ctx, frame.FrameID())
	ctx = faults.WithFrameKind(ctx, string(frame.Kind()))
	logger := logging.WithContext(ctx, s.logger)

	sources := frame.ToClassify()
	if len(sources) > 0 {
		if err := s.ensureSpace(dest); err != nil {
			return err
		}
	}

	tracker := progress.New(fmt.Sprintf("Classifying %s frames", frame.Kind()), len(sources), true)
	logger.Info("classification started",
		logging.String(logging.FieldEventType, "classify_start"),
		logging.String("destination", dest),
		logging.Int("file_count", len(sources)))

	start := time.Now()
	commit := func(ctx context.Context, c classify.Commit) error {
		return s.state.commit(ctx, frame, c)
	}
	err := s.engine.Run(ctx, classify.Batch{Destination: dest, Sources: sources}, commit, observer, tracker)

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "classify_complete"),
		logging.Int("processed", tracker.Step),
		logging.Int("classified", len(frame.Base().FramesClassified)),
		logging.Int("remaining", len(frame.Base().FramesToClassify)),
		logging.Duration("elapsed", time.Since(start)),
	}
	switch {
	case err == nil:
		logger.Info("classification finished", logging.Args(attrs...)...)
	case faults.IsFatal(err):
		logging.ErrorWithContext(logger, "classification aborted", "classify_aborted",
			append(attrs, logging.Error(err))...)
	default:
		logging.WarnWithContext(logger, "classification finished with failures", "classify_partial",
			append(attrs,
				logging.Error(err),
				logging.String(logging.FieldImpact, "failed files stay queued"))...)
	}
	return err
}

// ensureSpace checks classify.min_free_gib against the filesystem holding dest.
func (s *Service) ensureSpace(dest string) error {
	need := s.state.cfg.MinFreeBytes()
	if need == 0 {
		return nil
	}
	free, err := FreeSpace(dest)
	if err != nil {
		logging.WarnWithContext(s.logger, "free space check skipped", "free_space_unknown",
			logging.String("path", dest),
			logging.Error(err))
		return nil
	}
	if free < need {
		return faults.Wrap(faults.ErrEnvironment, "archive", "free space",
			fmt.Sprintf("%d bytes free under %s, %d required", free, dest, need), nil)
	}
	return nil
}

// FreeSpace reports free bytes on the filesystem that holds path, walking up
// to the nearest existing ancestor.
func FreeSpace(path string) (uint64, error) {
	current := filepath.Clean(path)
	for {
		if _, err := os.Stat(current); err == nil {
			return fileutil.FreeBytes(current)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return 0, fmt.Errorf("no existing ancestor for %s", path)
		}
		current = parent
	}
}

// AddFrame validates frame and adds it to the catalog.
func (s *Service) AddFrame(ctx context.Context, frame frames.Frame) error {
	if frame == nil {
		return faults.Wrap(faults.ErrValidation, "archive", "add frame", "frame is required", nil)
	}
	if err := frame.Base().Validate(); err != nil {
		return err
	}
	release := s.state.lockFrame(frame.FrameID())
	defer release()

	err := s.state.Write(func(c *frames.Catalog) error {
		if _, exists := c.Find(frame.FrameID()); exists {
			return faults.Wrap(faults.ErrValidation, "archive", "add frame",
				fmt.Sprintf("frame %s already exists", frame.FrameID()), nil)
		}
		frame.InsertInto(c)
		return nil
	})
	if err != nil {
		return err
	}
	logging.WithContext(faults.WithFrameID(ctx, frame.FrameID()), s.logger).Info("frame added",
		logging.String(logging.FieldEventType, "frame_added"),
		logging.String(logging.FieldFrameKind, string(frame.Kind())))
	return nil
}

// RemoveFrame deletes frame id from the catalog. Archived files are left in place.
func (s *Service) RemoveFrame(ctx context.Context, id string) error {
	release := s.state.lockFrame(id)
	defer release()

	err := s.state.Write(func(c *frames.Catalog) error {
		frame, ok := c.Find(id)
		if !ok {
			return notFound("remove frame", id)
		}
		frame.RemoveFrom(c)
		return nil
	})
	if err != nil {
		return err
	}
	logging.WithContext(faults.WithFrameID(ctx, id), s.logger).Info("frame removed",
		logging.String(logging.FieldEventType, "frame_removed"))
	return nil
}

// QueueFiles adds absolute source paths to the to-classify list of frame id.
// It returns how many were new.
func (s *Service) QueueFiles(ctx context.Context, id string, paths []string) (int, error) {
	release := s.state.lockFrame(id)
	defer release()

	added := 0
	err := s.state.Write(func(c *frames.Catalog) error {
		frame, ok := c.Find(id)
		if !ok {
			return notFound("queue files", id)
		}
		n, err := frame.Base().Enqueue(paths...)
		if err != nil {
			return err
		}
		added = n
		frame.InsertInto(c)
		return nil
	})
	if err != nil {
		return 0, err
	}
	logging.WithContext(faults.WithFrameID(ctx, id), s.logger).Info("files queued",
		logging.String(logging.FieldEventType, "files_queued"),
		logging.Int("offered", len(paths)),
		logging.Int("added", added))
	return added, nil
}

// Frame returns a copy of frame id.
func (s *Service) Frame(id string) (frames.Frame, error) {
	var (
		frame frames.Frame
		ok    bool
	)
	s.state.Read(func(c *frames.Catalog) {
		frame, ok = c.Find(id)
	})
	if !ok {
		return nil, notFound("get frame", id)
	}
	return frame, nil
}

// Frames returns copies of every frame.
func (s *Service) Frames() []frames.Frame {
	var all []frames.Frame
	s.state.Read(func(c *frames.Catalog) {
		all = c.All()
	})
	return all
}

// Snapshot returns a deep copy of the catalog for export.
func (s *Service) Snapshot() *frames.Catalog {
	var out *frames.Catalog
	s.state.Read(func(c *frames.Catalog) {
		out = c.Clone()
	})
	return out
}

// Equipment returns the resolver used for naming.
func (s *Service) Equipment() equipment.Resolver { return s.state.eq }

// Destination previews where ClassifyFrame would place frame id.
func (s *Service) Destination(id string) (string, error) {
	frame, err := s.Frame(id)
	if err != nil {
		return "", err
	}
	return frame.Destination(s.state.cfg.Paths.RootDir, s.state.cfg.Patterns, s.state.eq), nil
}

func notFound(operation, id string) error {
	return faults.Wrap(faults.ErrNotFound, "archive", operation, fmt.Sprintf("no frame with id %s", id), nil)
}
