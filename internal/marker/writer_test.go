package marker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arch-aerial/patrol-cli/internal/model"
)

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	err = w.Write(model.Assignment{
		OriginalName: "IMG_01.jpg",
		FinalName:    "Rojo_Toro_HGS_IMG_01.jpg",
		Route:        "Rojo_Toro",
		Location:     model.Coordinate{Lat: 30.005, Lon: -100.0001},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, Subfolder, "Rojo_Toro_HGS_IMG_01.kml"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "<name>Rojo_Toro_HGS_IMG_01</name>")
	assert.Contains(t, content, "Rojo_Toro_HGS_IMG_01.jpg")
	assert.Contains(t, content, "-100.0001,30.005")
	assert.Contains(t, content, "http://www.opengis.net/kml/2.2")
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	markerPath := filepath.Join(dir, Subfolder, "Rojo_Toro_HGS_IMG_01.kml")
	require.NoError(t, os.WriteFile(markerPath, []byte("stale"), 0o644))

	err = w.Write(model.Assignment{
		FinalName: "Rojo_Toro_HGS_IMG_01.jpg",
		Route:     "Rojo_Toro",
		Location:  model.Coordinate{Lat: 30.005, Lon: -100.0001},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(markerPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}
