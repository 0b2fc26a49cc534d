package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/az-ai-labs/ko-lang-nlp/pos"
	"github.com/az-ai-labs/ko-lang-nlp/tokenizer"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kotok.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 1, cfg.Tokenizer.Workers)
	assert.Equal(t, 4096, cfg.Tokenizer.CacheSize)
	assert.Equal(t, 1<<20, cfg.Tokenizer.MaxInputBytes)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)

	p, err := cfg.Profile.Build()
	require.NoError(t, err)
	assert.Equal(t, tokenizer.DefaultProfile(), p)
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := writeYAML(t, `
log:
  level: debug
  format: json
tokenizer:
  workers: 4
  cache_size: 0
profile:
  ha_verb: 0.5
  preferred_patterns: ["Noun+Josa"]
server:
  addr: "127.0.0.1:9090"
  read_timeout: "5s"
`)
	t.Setenv("KOTOK_TOKENIZER_WORKERS", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8, cfg.Tokenizer.Workers, "env overrides yaml")
	assert.Equal(t, 0, cfg.Tokenizer.CacheSize)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)

	p, err := cfg.Profile.Build()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p.HaVerb, 1e-12)
	assert.Equal(t, [][]pos.Tag{{pos.Noun, pos.Josa}}, p.PreferredPatterns)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero workers", map[string]string{"KOTOK_TOKENIZER_WORKERS": "0"}},
		{"negative cache", map[string]string{"KOTOK_TOKENIZER_CACHE_SIZE": "-1"}},
		{"bad level", map[string]string{"KOTOK_LOG_LEVEL": "loud"}},
		{"bad format", map[string]string{"KOTOK_LOG_FORMAT": "xml"}},
		{"bad pattern", map[string]string{"KOTOK_PROFILE_PREFERRED_PATTERNS": "Noun+Bogus"}},
		{"zero top n", map[string]string{"KOTOK_TOKENIZER_MAX_TOP_N": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("k", "v").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "v", line["k"])
}
