package config

import (
	"os"

	"github.com/pseudomuto/dbmetatool/pkg/consts"
	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(
	// Loads the file named by DBMETATOOL_CONFIG, or dbmetatool.yaml from the
	// working directory. Falls back to the defaults when neither exists so the
	// tool works without any configuration.
	func() (*Config, error) {
		path := os.Getenv(consts.ConfigEnvVar)
		if path == "" {
			path = consts.DefaultConfigFile
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return Default(), nil
		}

		return LoadConfigFile(path)
	},
))
