package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/ocr"
	"github.com/roamly/roamly/pkg/types"
)

// Config is the static configuration read from config.yaml and the
// environment. Runtime storage settings override the storage fields.
type Config struct {
	StorageDriver string             `mapstructure:"storage_driver" yaml:"storage_driver"`
	MapLibraryDir string             `mapstructure:"map_library_dir" yaml:"map_library_dir"`
	WebDAV        types.WebDAVConfig `mapstructure:"webdav" yaml:"webdav"`
	DataDir       string             `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	WatchLibrary  bool               `mapstructure:"watch_library" yaml:"watch_library"`
	RescanCron    string             `mapstructure:"rescan_cron" yaml:"rescan_cron"`
	OCR           OCRConfig          `mapstructure:"ocr" yaml:"ocr"`
	Log           logger.Config      `mapstructure:"log" yaml:"log"`
}

// OCRConfig configures the tesseract recognizer.
type OCRConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Lang    string        `mapstructure:"lang" yaml:"lang"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Command string        `mapstructure:"command" yaml:"command"`
}

// DefaultConfig watches a local library and runs OCR with tesseract.
func DefaultConfig() Config {
	return Config{
		StorageDriver: types.DriverLocal,
		WebDAV:        types.WebDAVConfig{RootPath: "/"},
		WatchLibrary:  true,
		OCR: OCRConfig{
			Enabled: true,
			Lang:    ocr.DefaultLang,
			Timeout: ocr.DefaultTimeout,
			Command: ocr.DefaultCommand,
		},
		Log: *logger.DefaultConfig(),
	}
}

// Storage returns the storage part of the configuration.
func (c Config) Storage() types.StorageConfig {
	return types.StorageConfig{
		Driver:        c.StorageDriver,
		MapLibraryDir: c.MapLibraryDir,
		WebDAV:        c.WebDAV,
	}
}

// Validate checks the fields that can be checked without touching the
// library.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir is required")
	}
	switch c.StorageDriver {
	case "", types.DriverLocal, types.DriverWebDAV:
	default:
		return fmt.Errorf("%w: %q", types.ErrDriverUnknown, c.StorageDriver)
	}
	if c.RescanCron != "" {
		if _, err := cron.ParseStandard(c.RescanCron); err != nil {
			return fmt.Errorf("rescan_cron %q: %w", c.RescanCron, err)
		}
	}
	if c.OCR.Timeout < 0 {
		return errors.New("ocr.timeout must not be negative")
	}
	return c.Log.Validate()
}
