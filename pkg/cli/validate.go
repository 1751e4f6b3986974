package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/filmlab/cinemate/pkg/cli/config"
	"github.com/filmlab/cinemate/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var appCfg config.App
	var catalogCfg config.Catalog

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the data files and display settings without serving",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			uiCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "display settings validation failed")
			}
			logger.Info("Display settings validated",
				"batch_size", uiCfg.BatchSize,
				"genres", len(uiCfg.Genres),
			)

			store, sim, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "catalog validation failed")
			}

			logger.Info("Catalog validation passed",
				"movies", store.Len(),
				"similarity_rows", sim.Len(),
			)
			return nil
		},
	}
}
