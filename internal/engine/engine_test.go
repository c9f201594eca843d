package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arch-aerial/patrol-cli/internal/ledger"
	"github.com/arch-aerial/patrol-cli/internal/marker"
	"github.com/arch-aerial/patrol-cli/internal/model"
)

// Two parallel north-south routes ~11m apart; their corridors overlap in the
// strip between them.
const testRoutes = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <name>Rojo Toro</name>
      <LineString><coordinates>-100.000,30.000,0 -100.000,30.010,0</coordinates></LineString>
    </Placemark>
    <Placemark>
      <name>Rojo Banco</name>
      <LineString><coordinates>-100.0001,30.000,0 -100.0001,30.010,0</coordinates></LineString>
    </Placemark>
  </Document>
</kml>`

// stubReader resolves coordinates by filename, standing in for EXIF decode.
func stubReader(coords map[string]model.Coordinate) func(string) model.PhotoRecord {
	return func(path string) model.PhotoRecord {
		name := filepath.Base(path)
		rec := model.PhotoRecord{Name: name}
		if c, ok := coords[name]; ok {
			loc := c
			rec.Location = &loc
		}
		return rec
	}
}

func setupRun(t *testing.T) (dir, archive string) {
	t.Helper()
	dir = t.TempDir()
	archive = filepath.Join(t.TempDir(), "routes.kml")
	require.NoError(t, os.WriteFile(archive, []byte(testRoutes), 0o644))
	for _, name := range []string{"IMG_01.jpg", "IMG_02.jpg", "IMG_03.jpg", "IMG_04.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("photo-"+name), 0o644))
	}
	return dir, archive
}

// testCoords places IMG_01 inside only Rojo Toro, IMG_02 between the two
// lines (inside both), IMG_03 far away, and leaves IMG_04 unlocatable.
var testCoords = map[string]model.Coordinate{
	"IMG_01.jpg": {Lat: 30.005, Lon: -99.99995},
	"IMG_02.jpg": {Lat: 30.005, Lon: -100.00005},
	"IMG_03.jpg": {Lat: 30.005, Lon: -99.9},
}

// photoNames lists filenames with the given extensions, skipping the ledger
// database and subfolders.
func photoNames(t *testing.T, dir string, exts ...string) []string {
	t.Helper()
	if len(exts) == 0 {
		exts = []string{".jpg"}
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, ext := range exts {
			if filepath.Ext(e.Name()) == ext {
				names = append(names, e.Name())
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

func TestRun(t *testing.T) {
	dir, archive := setupRun(t)

	var progress []float64
	var statuses []string
	e := New(dir, "HGS", archive,
		WithPhotoReader(stubReader(testCoords)),
		WithHooks(Hooks{
			Progress: func(v float64) { progress = append(progress, v) },
			Status:   func(s string) { statuses = append(statuses, s) },
		}),
	)

	summary, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Photos)
	assert.Equal(t, 2, summary.Tagged)
	assert.Equal(t, 1, summary.Unmatched)
	assert.Equal(t, 1, summary.Unlocatable)
	assert.Equal(t, 0, summary.Failed)

	assert.Equal(t, []string{
		"IMG_03.jpg",
		"IMG_04.jpg",
		"Rojo_Banco_HGS_IMG_02.jpg",
		"Rojo_Toro_HGS_IMG_01.jpg",
		"Rojo_Toro_HGS_IMG_02.jpg",
	}, photoNames(t, dir))

	// Unmatched photo is byte-identical.
	data, err := os.ReadFile(filepath.Join(dir, "IMG_03.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "photo-IMG_03.jpg", string(data))

	// Backup holds every original.
	assert.Equal(t,
		[]string{"IMG_01.jpg", "IMG_02.jpg", "IMG_03.jpg", "IMG_04.jpg"},
		photoNames(t, filepath.Join(dir, BackupFolder)),
	)

	// One marker per assignment.
	assert.Equal(t, []string{
		"Rojo_Banco_HGS_IMG_02.kml",
		"Rojo_Toro_HGS_IMG_01.kml",
		"Rojo_Toro_HGS_IMG_02.kml",
	}, photoNames(t, filepath.Join(dir, marker.Subfolder), ".kml"))

	// Progress ends at 1.0 and never goes backwards.
	require.NotEmpty(t, progress)
	assert.Equal(t, 1.0, progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}
	assert.Contains(t, statuses, "Backing up photos...")
	assert.Contains(t, statuses, "Done")
}

func TestRunIdempotent(t *testing.T) {
	dir, archive := setupRun(t)

	led, err := ledger.Open(dir)
	require.NoError(t, err)
	defer led.Close()
	require.NoError(t, led.Migrate(context.Background()))

	coords := map[string]model.Coordinate{}
	for k, v := range testCoords {
		coords[k] = v
	}
	// The renamed files keep their embedded coordinates.
	coords["Rojo_Toro_HGS_IMG_01.jpg"] = testCoords["IMG_01.jpg"]
	coords["Rojo_Toro_HGS_IMG_02.jpg"] = testCoords["IMG_02.jpg"]
	coords["Rojo_Banco_HGS_IMG_02.jpg"] = testCoords["IMG_02.jpg"]

	run := func() *model.RunSummary {
		e := New(dir, "HGS", archive,
			WithPhotoReader(stubReader(coords)),
			WithLedger(led),
		)
		s, err := e.Run(context.Background())
		require.NoError(t, err)
		return s
	}

	run()
	after1 := photoNames(t, dir)

	run()
	after2 := photoNames(t, dir)
	assert.Equal(t, after1, after2, "second run must not re-tag")

	tagged, err := led.WasTagged(context.Background(), "Rojo_Toro_HGS_IMG_01.jpg")
	require.NoError(t, err)
	assert.True(t, tagged)

	runs, err := led.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunMissingArchive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "IMG_01.jpg"), []byte("x"), 0o644))

	e := New(dir, "HGS", filepath.Join(dir, "missing.kmz"),
		WithPhotoReader(stubReader(nil)))
	_, err := e.Run(context.Background())
	assert.Error(t, err)
}

func TestRunNoSegments(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(t.TempDir(), "routes.kml")
	empty := `<kml xmlns="http://www.opengis.net/kml/2.2"><Document></Document></kml>`
	require.NoError(t, os.WriteFile(archive, []byte(empty), 0o644))

	e := New(dir, "HGS", archive, WithPhotoReader(stubReader(nil)))
	_, err := e.Run(context.Background())
	assert.Error(t, err)
}
