package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"astrofiler/internal/archive"
	"astrofiler/internal/config"
	"astrofiler/internal/equipment"
	"astrofiler/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	logCloser  io.Closer
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger. Console output goes to the
// command's stderr; the JSON log file lives in paths.log_dir.
func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, closer, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
		c.logCloser = closer
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) close() error {
	if c.logCloser == nil {
		return nil
	}
	err := c.logCloser.Close()
	c.logCloser = nil
	return err
}

// withEquipment opens the equipment database for the duration of fn.
func (c *commandContext) withEquipment(cmd *cobra.Command, fn func(*equipment.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := equipment.Open(cmd.Context(), cfg.Paths.EquipmentDB)
	if err != nil {
		return fmt.Errorf("open equipment database: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// loadDirectory snapshots the equipment records used for naming.
func (c *commandContext) loadDirectory(cmd *cobra.Command) (*equipment.Directory, error) {
	var dir *equipment.Directory
	err := c.withEquipment(cmd, func(store *equipment.Store) error {
		var err error
		dir, err = store.Directory(cmd.Context())
		return err
	})
	return dir, err
}

// withArchive opens the catalog for the duration of fn. The catalog lock is
// held until fn returns.
func (c *commandContext) withArchive(cmd *cobra.Command, fn func(context.Context, *archive.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger(cmd)
	if err != nil {
		return err
	}
	dir, err := c.loadDirectory(cmd)
	if err != nil {
		return err
	}
	state, err := archive.Open(cfg, dir, logger)
	if err != nil {
		return err
	}
	defer state.Close()
	return fn(cmd.Context(), archive.NewService(state, logger))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
