package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/filmlab/cinemate/pkg/cli/config"
	httpctrl "github.com/filmlab/cinemate/pkg/controller/http"
	"github.com/filmlab/cinemate/pkg/service/assistant"
	"github.com/filmlab/cinemate/pkg/usecase"
	"github.com/filmlab/cinemate/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var appCfg config.App
	var catalogCfg config.Catalog
	var tmdbCfg config.TMDB
	var openaiCfg config.OpenAI

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CINEMATE_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, tmdbCfg.Flags()...)
	flags = append(flags, openaiCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uiCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load display settings")
			}

			store, sim, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog data")
			}
			logging.Default().Info("Catalog loaded", "movies", store.Len())

			ucOpts := []usecase.Option{
				usecase.WithUIConfig(uiCfg),
			}

			metadata, err := tmdbCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure metadata gateway")
			}
			if metadata != nil {
				ucOpts = append(ucOpts, usecase.WithMetadata(metadata))
				logging.Default().Info("TMDB enrichment enabled")
			} else {
				logging.Default().Info("TMDB API key not configured, serving catalog-only views")
			}

			llmClient, err := openaiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}
			if llmClient != nil {
				ucOpts = append(ucOpts, usecase.WithAssistant(assistant.New(llmClient, store)))
				logging.Default().Info("Chat assistant enabled")
			} else {
				logging.Default().Info("OpenAI API key not configured, chat assistant disabled")
			}

			uc := usecase.New(store, sim, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
