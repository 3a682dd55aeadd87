// Package paths owns roamly's on-disk layout: where the configuration
// and data directories live and which files roamly keeps inside them.
//
// Both directories resolve through an ordered chain of candidates; the
// first non-empty one wins and is made absolute.
//
//	config: --config-dir > ROAMLY_CONFIG_DIR > <user config dir>/roamly
//	data:   --data-dir > ROAMLY_DATA_DIR > config.yaml data_dir > ./.roamly-data
package paths

import (
	"os"
	"path/filepath"
)

// AppName names the per-user configuration directory.
const AppName = "roamly"

// DefaultDataDirName is the working-directory fallback for the data
// directory.
const DefaultDataDirName = ".roamly-data"

// Environment overrides.
const (
	EnvConfigDir = "ROAMLY_CONFIG_DIR"
	EnvDataDir   = "ROAMLY_DATA_DIR"
)

// Files and directories under the configuration and data directories.
const (
	ConfigFileName   = "config.yaml"
	CatalogFileName  = "roamly.db"
	SettingsFileName = "runtime-settings.json"
	ProjectsDirName  = "projects"
)

// userConfigDir is swapped in tests.
var userConfigDir = os.UserConfigDir

// DefaultConfigDir is <user config dir>/roamly: $XDG_CONFIG_HOME or
// ~/.config on Linux, ~/Library/Application Support on macOS, %AppData%
// on Windows.
func DefaultConfigDir() (string, error) {
	base, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// ResolveConfigDir picks the configuration directory.
func ResolveConfigDir(flag string) (string, error) {
	if dir := firstSet(flag, os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory. configValue is the data_dir
// key of config.yaml, if any.
func ResolveDataDir(flag, configValue string) (string, error) {
	dir := firstSet(flag, os.Getenv(EnvDataDir), configValue)
	if dir == "" {
		dir = DefaultDataDirName
	}
	return filepath.Abs(dir)
}

func firstSet(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// ConfigFile returns the config.yaml path in configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// CatalogFile returns the catalog database path in dataDir.
func CatalogFile(dataDir string) string {
	return InDataDir(dataDir, CatalogFileName)
}

// SettingsFile returns the runtime settings path in dataDir.
func SettingsFile(dataDir string) string {
	return InDataDir(dataDir, SettingsFileName)
}

// ProjectCacheDir holds the local copies of every project sidecar.
func ProjectCacheDir(dataDir string) string {
	return InDataDir(dataDir, ProjectsDirName)
}

// InDataDir resolves p against dataDir. Absolute paths are returned
// unchanged and an empty dataDir means the working directory.
func InDataDir(dataDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, p)
}
