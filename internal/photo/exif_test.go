package photo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImage(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"IMG_01.jpg", true},
		{"IMG_01.JPG", true},
		{"IMG_01.jpeg", true},
		{"IMG_01.JPEG", true},
		{"IMG_01.png", false},
		{"IMG_01.jpg.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsImage(tt.name), tt.name)
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.JPEG", "notes.txt", "c.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755))

	names, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.JPEG", "b.jpg"}, names)
}

func TestReadUnlocatable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_01.jpg")
	// Not a real JPEG: the EXIF decode fails and the record comes back with
	// no location rather than an error.
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	rec := Read(path)
	assert.Equal(t, "IMG_01.jpg", rec.Name)
	assert.Nil(t, rec.Location)
	assert.Nil(t, rec.CapturedAt)
}

func TestReadMissingFile(t *testing.T) {
	rec := Read(filepath.Join(t.TempDir(), "absent.jpg"))
	assert.Nil(t, rec.Location)
}
