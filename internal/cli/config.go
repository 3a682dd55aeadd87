package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/roamly/roamly/internal/app"
	"github.com/roamly/roamly/internal/paths"
)

const (
	configFileType = "yaml"
	envPrefix      = "ROAMLY"
)

// newViper returns a viper instance seeded with the default configuration
// so that every key can be overridden from the environment, e.g.
// ROAMLY_STORAGE_DRIVER or ROAMLY_OCR_LANG.
func newViper() (*viper.Viper, error) {
	raw, err := yaml.Marshal(app.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("marshal default config: %w", err)
	}

	v := viper.New()
	v.SetConfigType(configFileType)
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("read default config: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// loadConfig reads config.yaml from configDir over the defaults. A missing
// config.yaml is not an error. The data directory follows the precedence
// --data-dir > ROAMLY_DATA_DIR > config.yaml > $(CWD)/.roamly-data. A
// relative log file name is placed under the data directory.
func loadConfig(configDir, dataDirFlag string) (app.Config, error) {
	v, err := newViper()
	if err != nil {
		return app.Config{}, err
	}

	path := paths.ConfigFile(configDir)
	switch _, err := os.Stat(path); {
	case err == nil:
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return app.Config{}, fmt.Errorf("read config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return app.Config{}, fmt.Errorf("stat config file: %w", err)
	}

	var cfg app.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return app.Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.DataDir, err = paths.ResolveDataDir(dataDirFlag, cfg.DataDir)
	if err != nil {
		return app.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	if f := cfg.Log.File.Filename; f != "" {
		cfg.Log.File.Filename = paths.InDataDir(cfg.DataDir, f)
	}
	return cfg, nil
}

// writeConfigIfMissing writes cfg as config.yaml unless the file exists.
// It reports whether the file was written.
func writeConfigIfMissing(path string, cfg app.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# roamly configuration. Every key can be overridden with a ROAMLY_ environment variable.\n")
	return true, os.WriteFile(path, append(header, data...), 0o644)
}
