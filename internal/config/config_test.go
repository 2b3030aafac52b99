package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL": "sqlite:file::memory:",
		"SECRET_KEY":   "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "HS256", cfg.Auth.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenExpiry)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL":                "postgres://u:p@localhost:5432/db",
		"SECRET_KEY":                  "s3cret",
		"ALGORITHM":                   "hs512",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "5",
		"CORS_ALLOWED_ORIGINS":        "https://a.example, https://b.example ,",
		"PORT":                        "9000",
	}))
	require.NoError(t, err)

	assert.Equal(t, "HS512", cfg.Auth.Algorithm)
	assert.Equal(t, 5*time.Minute, cfg.Auth.TokenExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "9000", cfg.Port)
}

func TestFromLookupRejectsBadInput(t *testing.T) {
	base := map[string]string{"DATABASE_URL": "sqlite:x.db", "SECRET_KEY": "k"}

	cases := map[string]map[string]string{
		"missing database url": {"SECRET_KEY": "k"},
		"missing secret":       {"DATABASE_URL": "sqlite:x.db"},
		"asymmetric algorithm": {"ALGORITHM": "RS256"},
		"non numeric expiry":   {"ACCESS_TOKEN_EXPIRE_MINUTES": "soon"},
		"zero expiry":          {"ACCESS_TOKEN_EXPIRE_MINUTES": "0"},
	}
	for name, extra := range cases {
		t.Run(name, func(t *testing.T) {
			env := map[string]string{}
			if name != "missing database url" && name != "missing secret" {
				for k, v := range base {
					env[k] = v
				}
			}
			for k, v := range extra {
				env[k] = v
			}
			_, err := FromLookup(lookupFrom(env))
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=sqlite:from-file.db\nSECRET_KEY=file-secret\n"), 0o600))

	t.Setenv("DATABASE_URL", "")
	t.Setenv("SECRET_KEY", "")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("SECRET_KEY")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite:from-file.db", cfg.Database.URL)
	assert.Equal(t, "file-secret", cfg.Auth.SecretKey)
}
