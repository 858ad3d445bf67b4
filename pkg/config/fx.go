package config

import (
	"os"

	"github.com/pseudomuto/sqlalign/pkg/consts"
	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(
	// Loads .sqlalign.yaml from the working directory when it exists. Returns a
	// nil config otherwise; every consumer treats nil as "use the defaults".
	func() (*Config, error) {
		if _, err := os.Stat(consts.DefaultConfigFile); os.IsNotExist(err) {
			return nil, nil
		}

		return LoadConfigFile(consts.DefaultConfigFile)
	},
))
