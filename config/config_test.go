package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	for _, key := range []string{"ADMIN_ID", "FILMS_FILE", "REDIS_DB", "SESSION_TTL", "HTTP_TIMEOUT", "MIRROR_TIMEOUT", "GITHUB_BRANCH", "GITHUB_REPO", "GITHUB_TOKEN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, int64(0), cfg.AdminID)
	require.Equal(t, "films.json", cfg.FilmsFile)
	require.Equal(t, "main", cfg.GitHubBranch)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 30*time.Second, cfg.MirrorTimeout)
	require.False(t, cfg.GitHubMirrorEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("ADMIN_ID", "123456")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("GITHUB_REPO", "owner/films")
	t.Setenv("GITHUB_TOKEN", "ghp")
	t.Setenv("RESOLVER_API_BASE", "https://api.example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, int64(123456), cfg.AdminID)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.True(t, cfg.GitHubMirrorEnabled())
	require.Equal(t, "https://api.example.com", cfg.ResolverAPIBase)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "ADMIN_ID", value: "admin"},
		{key: "REDIS_DB", value: "one"},
		{key: "SESSION_TTL", value: "soon"},
		{key: "HTTP_TIMEOUT", value: "-5s"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.ErrorContains(t, err, tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	require.Error(t, (&Config{}).Validate())
	require.Error(t, (&Config{TelegramToken: "t", GitHubRepo: "owner/films"}).Validate())
	require.NoError(t, (&Config{TelegramToken: "t"}).Validate())
}
