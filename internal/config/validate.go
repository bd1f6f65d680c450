package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePatterns(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		return errors.New("paths.root_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		return errors.New("paths.catalog_path must be set")
	}
	if strings.HasPrefix(filepath.Clean(c.Paths.CatalogPath), filepath.Clean(c.Paths.RootDir)+string(filepath.Separator)) {
		return errors.New("paths.catalog_path must live outside paths.root_dir")
	}
	return nil
}

func (c *Config) validatePatterns() error {
	for key, value := range map[string]string{
		"patterns.light":         c.Patterns.Light,
		"patterns.dark":          c.Patterns.Dark,
		"patterns.bias":          c.Patterns.Bias,
		"patterns.flat":          c.Patterns.Flat,
		"patterns.light_session": c.Patterns.LightSession,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
		for _, segment := range strings.Split(value, "/") {
			if segment == ".." {
				return fmt.Errorf("%s must not contain '..' segments", key)
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
