package types

import (
	"errors"
	"path"
	"strings"
)

// StorageConfig selects where map images live. It is persisted as
// runtime-settings.json and swapped at runtime.
type StorageConfig struct {
	Driver        string       `json:"storageDriver" yaml:"storage_driver" mapstructure:"storage_driver"`
	MapLibraryDir string       `json:"mapLibraryDir" yaml:"map_library_dir" mapstructure:"map_library_dir"`
	WebDAV        WebDAVConfig `json:"webdav" yaml:"webdav" mapstructure:"webdav"`
}

// WebDAVConfig holds the remote endpoint used when Driver is "webdav".
type WebDAVConfig struct {
	URL      string `json:"url" yaml:"url" mapstructure:"url"`
	Username string `json:"username" yaml:"username" mapstructure:"username"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	RootPath string `json:"rootPath" yaml:"root_path" mapstructure:"root_path"`
}

// Supported storage drivers.
const (
	DriverLocal  = "local"
	DriverWebDAV = "webdav"
)

// Config validation errors.
var (
	ErrDriverUnknown       = errors.New("unknown storage driver")
	ErrLibraryDirEmpty     = errors.New("map library directory must not be empty")
	ErrWebDAVNotConfigured = errors.New("webdav url is not configured")
	ErrRootMissing         = errors.New("map library directory does not exist")
	ErrRootNotDirectory    = errors.New("map library path is not a directory")
)

// Validate checks the shape of the configuration. It does not touch the
// filesystem or the network.
func (c StorageConfig) Validate() error {
	switch c.Driver {
	case DriverLocal:
		if strings.TrimSpace(c.MapLibraryDir) == "" {
			return ErrLibraryDirEmpty
		}
	case DriverWebDAV:
		if strings.TrimSpace(c.WebDAV.URL) == "" {
			return ErrWebDAVNotConfigured
		}
	default:
		return ErrDriverUnknown
	}
	return nil
}

// Source returns the driver name recorded on every map row.
func (c StorageConfig) Source() string {
	if c.Driver == DriverWebDAV {
		return DriverWebDAV
	}
	return DriverLocal
}

// ProjectKey identifies the library this configuration points at. Two
// configurations with the same key share one sidecar file.
func (c StorageConfig) ProjectKey() string {
	if c.Driver == DriverWebDAV {
		return "webdav:" + strings.TrimSpace(c.WebDAV.URL) + "|" + NormalizeRootPath(c.WebDAV.RootPath)
	}
	return "local:" + c.MapLibraryDir
}

// Root returns the library root: a local directory or a remote path.
func (c StorageConfig) Root() string {
	if c.Driver == DriverWebDAV {
		return NormalizeRootPath(c.WebDAV.RootPath)
	}
	return c.MapLibraryDir
}

// NormalizeRootPath cleans a remote root path so it always starts with a
// slash and never ends with one, except for the bare root.
func NormalizeRootPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
