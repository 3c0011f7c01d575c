package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithDatabaseFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/invoicebox")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 24, cfg.Session.TTLHours)
	assert.Equal(t, "dynamic", cfg.Export.PDFLayout)
	assert.Equal(t, "postgres://localhost:5432/invoicebox", cfg.Database.URL)
}

func TestLoad_MissingDatabaseURLFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestLoad_FileValuesAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[http]
port = 9090

[database]
url = "postgres://filehost:5432/invoicebox"

[company]
name = "HITS Hub Innovative Software Company"
address = "Kano, Nigeria"
phone = "+2348065395103"

[export]
pdf_layout = "fixed"
archive_bucket = "invoice-exports"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://envhost:5432/invoicebox")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, "postgres://envhost:5432/invoicebox", cfg.Database.URL)
	assert.Equal(t, "HITS Hub Innovative Software Company", cfg.Company.Name)
	assert.Equal(t, "fixed", cfg.Export.PDFLayout)
	assert.Equal(t, "invoice-exports", cfg.Export.ArchiveBucket)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/invoicebox")

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}
