package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/webdisplay/internal/config"
)

// loadConfig layers flag overrides, the environment and the config file.
// A missing default config file is not an error; an explicit one is.
func loadConfig(path string, overrides config.Values) (config.Lookup, error) {
	var file config.Lookup

	explicit := path != ""
	if !explicit {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(wd, config.ConfigFileName)
	}

	if _, err := os.Stat(path); err == nil || explicit {
		values, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		file = values
	}

	return config.Chain(overrides, config.Env(config.EnvPrefix), file), nil
}

func configCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print every setting that is defined by the environment or the
config file. Unlisted settings use their defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath, nil)
			if err != nil {
				return err
			}
			out := config.Dump(cfg)
			if out == "" {
				info("all settings use defaults")
				return nil
			}
			fmt.Print(out)
			return nil
		},
	}
}
