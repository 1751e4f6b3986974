package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// OpenAI holds configuration for the chat assistant LLM client
type OpenAI struct {
	apiKey string
	model  string
}

// Flags returns CLI flags for OpenAI configuration
func (o *OpenAI) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (the chat assistant is disabled when empty)",
			Sources:     cli.EnvVars("CINEMATE_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &o.apiKey,
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI model for the chat assistant",
			Value:       "gpt-4o-mini",
			Sources:     cli.EnvVars("CINEMATE_OPENAI_MODEL"),
			Destination: &o.model,
		},
	}
}

// LogAttrs returns log attributes for the OpenAI configuration
func (o *OpenAI) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("api_key_configured", o.apiKey != ""),
		slog.String("model", o.model),
	}
}

// Configure creates a new OpenAI LLM client from the configured flags.
// Returns nil if the API key is not configured (chat features will be
// disabled).
func (o *OpenAI) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if o.apiKey == "" {
		return nil, nil
	}

	client, err := openai.New(ctx, o.apiKey, openai.WithModel(o.model))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create OpenAI client")
	}

	return client, nil
}
