package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"

	"panefm/internal/domain"
	"panefm/internal/fsop"
)

const (
	configDirName  = "panefm"
	configFileName = "config.json"
	logFileName    = "panefm.log"
	envPrefix      = "PANEFM"
)

func DefaultConfig() Config {
	return Config{
		LeftPath:         ".",
		RightPath:        ".",
		ShowHidden:       false,
		SortMode:         domain.SortByName,
		Theme:            "dark",
		KeyBindings:      map[string]string{},
		ConfirmTransfers: true,
		LogFile:          defaultLogFile(),
		LogLevel:         "info",
	}
}

func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

func defaultLogFile() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, configDirName, logFileName)
}

// NewViper returns a viper instance seeded with the defaults and reading
// PANEFM_* environment overrides.
func NewViper() *viper.Viper {
	defaults := DefaultConfig()
	v := viper.New()
	v.SetDefault(keyLeftPath, defaults.LeftPath)
	v.SetDefault(keyRightPath, defaults.RightPath)
	v.SetDefault(keyShowHidden, defaults.ShowHidden)
	v.SetDefault(keySortMode, string(defaults.SortMode))
	v.SetDefault(keyTheme, defaults.Theme)
	v.SetDefault(keyKeyBindings, defaults.KeyBindings)
	v.SetDefault(keyConfirmTransfers, defaults.ConfirmTransfers)
	v.SetDefault(keyLogFile, defaults.LogFile)
	v.SetDefault(keyLogLevel, defaults.LogLevel)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// ReadFile loads path into v. A missing file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Errorf("config read %s: %w", path, err)
	}
	return nil
}

func FromViper(v *viper.Viper) Config {
	defaults := DefaultConfig()
	cfg := Config{
		LeftPath:         v.GetString(keyLeftPath),
		RightPath:        v.GetString(keyRightPath),
		ShowHidden:       v.GetBool(keyShowHidden),
		SortMode:         domain.ParseSortMode(v.GetString(keySortMode), defaults.SortMode),
		Theme:            v.GetString(keyTheme),
		KeyBindings:      v.GetStringMapString(keyKeyBindings),
		ConfirmTransfers: v.GetBool(keyConfirmTransfers),
		LogFile:          v.GetString(keyLogFile),
		LogLevel:         v.GetString(keyLogLevel),
	}
	if cfg.LeftPath == "" {
		cfg.LeftPath = defaults.LeftPath
	}
	if cfg.RightPath == "" {
		cfg.RightPath = defaults.RightPath
	}
	if cfg.Theme == "" {
		cfg.Theme = defaults.Theme
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaults.LogFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.KeyBindings == nil {
		cfg.KeyBindings = map[string]string{}
	}
	return cfg
}

// Load reads the config file at path and returns the merged settings. On a
// read error the defaults are returned together with the error.
func Load(path string) (Config, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return DefaultConfig(), err
	}
	return FromViper(v), nil
}

// Save writes cfg to path through a temp file so a crash never leaves a
// truncated config behind.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	return fsop.AtomicWrite(path, data, 0o600)
}
