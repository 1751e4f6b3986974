package config

import (
	"os"

	domainConfig "github.com/filmlab/cinemate/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// App holds the path to the optional display settings file
type App struct {
	configPath string
}

// Flags returns CLI flags for application configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML file overriding the display settings",
			Sources:     cli.EnvVars("CINEMATE_CONFIG"),
			Destination: &a.configPath,
		},
	}
}

// Configure loads the display settings. Without a config file the
// built-in defaults apply; a file only needs to list the keys it
// overrides.
func (a *App) Configure() (*domainConfig.UIConfig, error) {
	cfg := domainConfig.DefaultUIConfig()
	if a.configPath == "" {
		return cfg, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(a.configPath)
	if err != nil {
		return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file",
			goerr.V(ConfigPathKey, a.configPath), goerr.V("cause", err.Error()))
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, a.configPath), goerr.V("cause", err.Error()))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed",
			goerr.V(ConfigPathKey, a.configPath))
	}

	return cfg, nil
}
