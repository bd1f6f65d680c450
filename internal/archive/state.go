package archive

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"astrofiler/internal/config"
	"astrofiler/internal/equipment"
	"astrofiler/internal/faults"
	"astrofiler/internal/frames"
	"astrofiler/internal/logging"
)

// Persister writes the whole catalog somewhere durable.
type Persister interface {
	Save(c *frames.Catalog) error
}

// FilePersister saves the catalog as JSON at Path.
type FilePersister struct {
	Path string
}

func (p FilePersister) Save(c *frames.Catalog) error {
	return c.Save(p.Path)
}

// Option customizes State construction.
type Option func(*State)

// WithPersister replaces the default file persister.
func WithPersister(p Persister) Option {
	return func(s *State) {
		if p != nil {
			s.persister = p
		}
	}
}

// State is the shared catalog handle. Construct it with Open and release it
// with Close.
type State struct {
	mu        sync.Mutex
	catalog   *frames.Catalog
	cfg       *config.Config
	eq        equipment.Resolver
	persister Persister
	logger    *slog.Logger

	lockPath string
	lock     *flock.Flock

	frameLocksMu sync.Mutex
	frameLocks   map[string]*sync.Mutex
}

// Open acquires the catalog lock and loads the catalog. A catalog file that
// cannot be parsed is moved aside and replaced by an empty catalog.
func Open(cfg *config.Config, eq equipment.Resolver, logger *slog.Logger, opts ...Option) (*State, error) {
	if cfg == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "archive", "open", "config is required", nil)
	}
	if eq == nil {
		eq = equipment.NewDirectory()
	}
	logger = logging.NewComponentLogger(logger, "archive")

	catalogPath := cfg.Paths.CatalogPath
	if err := os.MkdirAll(filepath.Dir(catalogPath), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrEnvironment, "archive", "open", "create catalog directory", err)
	}

	s := &State{
		cfg:        cfg,
		eq:         eq,
		persister:  FilePersister{Path: catalogPath},
		logger:     logger,
		lockPath:   catalogPath + ".lock",
		frameLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.lock = flock.New(s.lockPath)
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrEnvironment, "archive", "open", "acquire catalog lock", err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrEnvironment, "archive", "open",
			fmt.Sprintf("catalog %s is in use by another astrofiler process", catalogPath), nil)
	}

	catalog, err := frames.LoadCatalog(catalogPath)
	if err != nil {
		backup := s.quarantine(catalogPath)
		logging.WarnWithContext(logger, "catalog could not be loaded; starting empty", "catalog_load_failed",
			logging.String("path", catalogPath),
			logging.String("backup", backup),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the backup file and restore frames manually"),
			logging.String(logging.FieldImpact, "previously catalogued frames are not visible"))
	}
	s.catalog = catalog

	logger.Debug("catalog loaded",
		logging.String("path", catalogPath),
		logging.Int("frame_count", catalog.Len()))
	return s, nil
}

// quarantine renames an unreadable catalog so the next save does not
// overwrite it. It returns the new name, or "" when nothing was moved.
func (s *State) quarantine(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	backup := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102T150405Z"))
	if err := os.Rename(path, backup); err != nil {
		logging.WarnWithContext(s.logger, "failed to move unreadable catalog aside", "catalog_quarantine_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the unreadable catalog will be overwritten on the next save"))
		return ""
	}
	return backup
}

// Close releases the catalog lock.
func (s *State) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("release catalog lock: %w", err)
	}
	return nil
}

// Config returns the configuration the state was opened with.
func (s *State) Config() *config.Config { return s.cfg }

// Equipment returns the equipment resolver used for path resolution.
func (s *State) Equipment() equipment.Resolver { return s.eq }

// Read runs fn with the catalog under the state lock. fn must not retain the
// catalog or mutate it.
func (s *State) Read(fn func(c *frames.Catalog)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.catalog)
}

// Write runs fn with the catalog under the state lock and persists the
// result. When fn or the write fails the catalog is restored.
func (s *State) Write(fn func(c *frames.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.catalog.Clone()
	if err := fn(s.catalog); err != nil {
		s.catalog = snapshot
		return err
	}
	if err := s.persister.Save(s.catalog); err != nil {
		s.catalog = snapshot
		return faults.Wrap(faults.ErrPersistence, "archive", "persist", "write catalog", err)
	}
	return nil
}

// lockFrame serializes work on one frame id. The returned func releases it.
func (s *State) lockFrame(id string) func() {
	s.frameLocksMu.Lock()
	m, ok := s.frameLocks[id]
	if !ok {
		m = &sync.Mutex{}
		s.frameLocks[id] = m
	}
	s.frameLocksMu.Unlock()

	m.Lock()
	return m.Unlock
}

var errFrameGone = errors.New("frame was removed from the catalog")
