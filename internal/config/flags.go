package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"
)

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"left":        keyLeftPath,
	"right":       keyRightPath,
	"show-hidden": keyShowHidden,
	"theme":       keyTheme,
	"log-level":   keyLogLevel,
}

func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("left", "l", "", "Initial directory of the left pane")
	flags.StringP("right", "r", "", "Initial directory of the right pane")
	flags.Bool("show-hidden", false, "Show hidden files")
	flags.String("theme", "", "Color theme (dark or light)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
}

// BindFlags makes explicitly set flags take precedence over the config file.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
