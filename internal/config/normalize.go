package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePatterns()
	c.normalizeClassify()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(rootDirEnvironmentKey); ok && strings.TrimSpace(value) != "" {
		c.Paths.RootDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		c.Paths.RootDir = defaultRootDir
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if strings.TrimSpace(c.Paths.EquipmentDB) == "" {
		c.Paths.EquipmentDB = defaultEquipmentDB
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.RootDir, err = expandPath(strings.TrimSpace(c.Paths.RootDir)); err != nil {
		return fmt.Errorf("paths.root_dir: %w", err)
	}
	if c.Paths.CatalogPath, err = expandPath(strings.TrimSpace(c.Paths.CatalogPath)); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if c.Paths.EquipmentDB, err = expandPath(strings.TrimSpace(c.Paths.EquipmentDB)); err != nil {
		return fmt.Errorf("paths.equipment_db: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePatterns() {
	c.Patterns.Light = normalizePattern(c.Patterns.Light, defaultLightPattern)
	c.Patterns.Dark = normalizePattern(c.Patterns.Dark, defaultDarkPattern)
	c.Patterns.Bias = normalizePattern(c.Patterns.Bias, defaultBiasPattern)
	c.Patterns.Flat = normalizePattern(c.Patterns.Flat, defaultFlatPattern)
	c.Patterns.LightSession = normalizePattern(c.Patterns.LightSession, defaultLightSession)
}

// normalizePattern trims whitespace and backslashes so templates written on
// Windows resolve the same way.
func normalizePattern(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	value = strings.ReplaceAll(value, "\\", "/")
	return strings.Trim(value, "/")
}

func (c *Config) normalizeClassify() {
	if c.Classify.MinFreeGiB < 0 {
		c.Classify.MinFreeGiB = 0
	}
	c.Classify.ImportPattern = strings.TrimSpace(c.Classify.ImportPattern)
	if c.Classify.ImportPattern == "" {
		c.Classify.ImportPattern = defaultImportPattern
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
