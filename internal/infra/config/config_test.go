package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	keys := []string{
		"PORT",
		"SEARCH_RATE_LIMIT",
		"SEARCH_TOP_K",
		"SESSION_CACHE_SIZE",
		"ANSWER_MAX_TOKENS",
	}
	for _, key := range keys {
		_ = os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "9020", cfg.Port)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Equal(t, 2, cfg.DBMinConns)
	assert.Equal(t, 20.0, cfg.SearchRateLimit)
	assert.Equal(t, 10, cfg.SearchTopK)
	assert.Equal(t, 256, cfg.SessionCacheSize)
	assert.Equal(t, 768, cfg.AnswerMaxTokens)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SEARCH_RATE_LIMIT", "5.5")
	t.Setenv("SEARCH_TOP_K", "25")
	t.Setenv("GENERATION_MODEL", "gemma3:12b")

	cfg := Load()

	assert.Equal(t, 5.5, cfg.SearchRateLimit)
	assert.Equal(t, 25, cfg.SearchTopK)
	assert.Equal(t, "gemma3:12b", cfg.GenerationModel)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("SEARCH_TOP_K", "not-a-number")

	cfg := Load()
	assert.Equal(t, 10, cfg.SearchTopK)
}

func TestLoad_PasswordFromSecretFile(t *testing.T) {
	_ = os.Unsetenv("DB_PASSWORD")
	path := filepath.Join(t.TempDir(), "db_password")
	require.NoError(t, os.WriteFile(path, []byte("s3cret\n"), 0o600))
	t.Setenv("DB_PASSWORD_FILE", path)

	cfg := Load()
	assert.Equal(t, "s3cret", cfg.DBPassword, "file content is trimmed")
}

func TestLoad_PasswordEnvWinsOverFile(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("DB_PASSWORD_FILE", "/nonexistent")

	cfg := Load()
	assert.Equal(t, "from-env", cfg.DBPassword)
}
