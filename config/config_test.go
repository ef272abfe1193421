package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMergesFileEnvAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"APP_PORT": "9000",
		"DB_DRIVER": "sqlite",
		"PAGE_SIZE": 5,
		"MEDIA_URL": "/uploads"
	}`), 0o600))
	t.Setenv("PAGE_SIZE", "7")
	t.Setenv("ADMIN_USERNAMES", "root, Admin ,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	c, err := read(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, 7, c.PageSize, "environment wins over the file")
	assert.Equal(t, "/uploads/", c.MediaURL)
	assert.Equal(t, 20, c.FeedCacheSeconds)
	assert.Equal(t, "/auth/login/", c.LoginURL)
	assert.Equal(t, []string{"root", "Admin"}, c.AdminUsernames)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
}

func TestReadWithoutFile(t *testing.T) {
	c, err := read(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, 10, c.PageSize)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Empty(t, c.AdminUsernames)
}

func TestReadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	_, err := read(path)
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	c := AppConfig{AdminUsernames: []string{"root", "Admin"}}
	assert.True(t, c.IsAdmin("root"))
	assert.True(t, c.IsAdmin(" admin "))
	assert.False(t, c.IsAdmin("alice"))
	assert.False(t, c.IsAdmin(""))
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialector(AppConfig{DBDriver: driver, DBName: "yatube"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}
	_, err := Dialector(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}
