package config

import (
	"context"
	"fmt"
)

type fetcher interface {
	Fetch(context.Context, string) (string, error)
}

// NeedsFetcher reports whether any credential has to come from the parameter store.
func (c *Config) NeedsFetcher() bool {
	return c.Pollinations.APIKeyParam != "" || c.OpenAI.APIKeyParam != ""
}

// ResolveSecrets returns a copy of c with *_PARAM credentials fetched.
// Values already present in the environment win over parameter store values.
func (c *Config) ResolveSecrets(ctx context.Context, f fetcher) (*Config, error) {
	out := *c
	if out.Pollinations.APIKey == "" && out.Pollinations.APIKeyParam != "" {
		key, err := f.Fetch(ctx, out.Pollinations.APIKeyParam)
		if err != nil {
			return nil, fmt.Errorf("fetch pollinations key: %w", err)
		}
		out.Pollinations.APIKey = key
	}
	if out.OpenAI.APIKey == "" && out.OpenAI.APIKeyParam != "" {
		key, err := f.Fetch(ctx, out.OpenAI.APIKeyParam)
		if err != nil {
			return nil, fmt.Errorf("fetch openai key: %w", err)
		}
		out.OpenAI.APIKey = key
	}
	return &out, nil
}
