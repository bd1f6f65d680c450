package testsupport

import (
	"path/filepath"
	"testing"

	"astrofiler/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RootDir = filepath.Join(base, "archive")
	cfgVal.Paths.CatalogPath = filepath.Join(base, "state", "catalog.json")
	cfgVal.Paths.EquipmentDB = filepath.Join(base, "state", "equipment.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Classify.MinFreeGiB = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPatterns overrides the naming patterns on the test config.
func WithPatterns(patterns config.Patterns) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Patterns = patterns
	}
}

// WithVerifiedCopies turns on checksum verification.
func WithVerifiedCopies() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classify.VerifyCopies = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.RootDir)
}
