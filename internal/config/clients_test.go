package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeClient(t *testing.T, base, client, cfgJSON string) string {
	t.Helper()
	dir := filepath.Join(base, client)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(cfgJSON), 0o644))
	return dir
}

func TestClients(t *testing.T) {
	base := t.TempDir()
	writeClient(t, base, "HGS", `{}`)
	writeClient(t, base, "ABC", `{}`)
	// Directory without config.json is not a client.
	require.NoError(t, os.MkdirAll(filepath.Join(base, "scratch"), 0o755))

	store := NewClientStore(base)
	clients, err := store.Clients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC", "HGS"}, clients)
}

func TestSettingsExplicitPath(t *testing.T) {
	base := t.TempDir()
	dir := writeClient(t, base, "HGS", `{}`)

	kmz := filepath.Join(dir, "routes.kmz")
	require.NoError(t, os.WriteFile(kmz, []byte("zip"), 0o644))
	writeClient(t, base, "HGS", `{"kmz_path": "`+kmz+`", "report_prefix": "Houston"}`)

	store := NewClientStore(base)
	settings, err := store.Settings("HGS")
	require.NoError(t, err)
	assert.Equal(t, kmz, settings.ArchivePath)
	assert.Equal(t, "Houston", settings.ReportPrefix)
}

func TestSettingsDiscoversKMZ(t *testing.T) {
	base := t.TempDir()
	dir := writeClient(t, base, "HGS", `{}`)

	kmzDir := filepath.Join(dir, kmzSubdir)
	require.NoError(t, os.MkdirAll(kmzDir, 0o755))
	kmz := filepath.Join(kmzDir, "system.KMZ")
	require.NoError(t, os.WriteFile(kmz, []byte("zip"), 0o644))

	store := NewClientStore(base)
	settings, err := store.Settings("HGS")
	require.NoError(t, err)
	assert.Equal(t, kmz, settings.ArchivePath)
	assert.Equal(t, "HGS", settings.ReportPrefix)
}

func TestSettingsDiscoversShapefileFallback(t *testing.T) {
	base := t.TempDir()
	dir := writeClient(t, base, "HGS", `{}`)

	shpDir := filepath.Join(dir, shpSubdir)
	require.NoError(t, os.MkdirAll(shpDir, 0o755))
	shpPath := filepath.Join(shpDir, "system.shp")
	require.NoError(t, os.WriteFile(shpPath, []byte("shp"), 0o644))

	store := NewClientStore(base)
	settings, err := store.Settings("HGS")
	require.NoError(t, err)
	assert.Equal(t, shpPath, settings.ArchivePath)
}

func TestSettingsNoArchive(t *testing.T) {
	base := t.TempDir()
	writeClient(t, base, "HGS", `{}`)

	store := NewClientStore(base)
	_, err := store.Settings("HGS")
	assert.Error(t, err)
}

func TestSettingsMissingClient(t *testing.T) {
	store := NewClientStore(t.TempDir())
	_, err := store.Settings("NOPE")
	assert.Error(t, err)
}
