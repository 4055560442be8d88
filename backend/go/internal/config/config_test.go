package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("app:\n  name: saber\n"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "Saber", cfg.Bot.DisplayName)
	assert.Equal(t, "/aprender ", cfg.Bot.LearnPrefix)
	assert.Equal(t, 10, cfg.Knowledge.MaxKeywords)
	assert.Equal(t, 500, cfg.Knowledge.MaxValueLength)
	assert.InDelta(t, 0.6, cfg.Knowledge.CacheMinOverlap, 1e-9)
	assert.True(t, cfg.Knowledge.Trusted())
	assert.Equal(t, "mongo", cfg.Storage.Driver)
	assert.Equal(t, "messages.inbound", cfg.Transport.InboundTopic)
	assert.Equal(t, 10, cfg.Transport.Reconnect.MaxAttempts)
	assert.Equal(t, 24*time.Hour, Duration(cfg.Transport.DedupeTTL))
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SABER_TEST_KEY", "secret-key")
	cfg, err := Parse([]byte("llm:\n  provider: openai\n  apiKey: ${SABER_TEST_KEY}\n"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "secret-key", cfg.LLM.APIKey)
}

func TestParse_TrustLearningCommandsCanBeDisabled(t *testing.T) {
	cfg, err := Parse([]byte("knowledge:\n  trustLearningCommands: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Knowledge.Trusted())
}

func TestParse_RejectsInvalidValues(t *testing.T) {
	_, err := Parse([]byte("storage:\n  driver: cassandra\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("transport:\n  dedupeTTL: forever\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("knowledge:\n  cacheMinOverlap: 1.5\n"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \":9999\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Address)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
