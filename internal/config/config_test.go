package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOOKALIKE_PROVIDER", "")
	t.Setenv("POLLINATIONS_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderPollinations, cfg.Provider)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "https://gen.pollinations.ai", cfg.Pollinations.BaseURL)
	assert.Equal(t, "flux", cfg.Model())
	assert.Empty(t, cfg.Pollinations.APIKey)
	assert.NotEmpty(t, cfg.HTTP.StaticRoot)
}

func TestLoad_OpenAI(t *testing.T) {
	t.Setenv("LOOKALIKE_PROVIDER", "openai")
	t.Setenv("OPENAI_IMAGE_MODEL", "gpt-test")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-test", cfg.Model())
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("LOOKALIKE_PROVIDER", "stability")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "abc")
	assert.Equal(t, 5, getEnvInt("X_INT", 5))
	t.Setenv("X_BOOL", "Yes")
	assert.True(t, getEnvBool("X_BOOL", false))
	t.Setenv("X_BOOL", "off")
	assert.False(t, getEnvBool("X_BOOL", true))
	t.Setenv("X_STR", "  ")
	assert.Equal(t, "def", getEnvString("X_STR", "def"))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "<missing>", maskSecret(""))
	assert.Equal(t, "***", maskSecret("abc"))
	assert.Equal(t, "sk***yz", maskSecret("sk-abcxyz"))
}

type mapFetcher map[string]string

func (m mapFetcher) Fetch(_ context.Context, path string) (string, error) {
	v, ok := m[path]
	if !ok {
		return "", errors.New("not found: " + path)
	}
	return v, nil
}

func TestResolveSecrets(t *testing.T) {
	cfg := &Config{
		Pollinations: PollinationsConfig{APIKeyParam: "/p"},
		OpenAI:       OpenAIConfig{APIKey: "env-key", APIKeyParam: "/o"},
	}
	assert.True(t, cfg.NeedsFetcher())

	resolved, err := cfg.ResolveSecrets(context.Background(), mapFetcher{"/p": "poll-key", "/o": "ssm-key"})
	require.NoError(t, err)
	assert.Equal(t, "poll-key", resolved.Pollinations.APIKey)
	assert.Equal(t, "env-key", resolved.OpenAI.APIKey)
	assert.Empty(t, cfg.Pollinations.APIKey, "original config must not change")

	_, err = (&Config{OpenAI: OpenAIConfig{APIKeyParam: "/missing"}}).ResolveSecrets(context.Background(), mapFetcher{})
	assert.Error(t, err)
}

func TestLoad_LambdaLogging(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Logging.Lambda)

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "lookalike")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.Logging.Lambda)
}
