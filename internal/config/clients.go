package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Route archive discovery folders inside a client directory.
const (
	kmzSubdir = "Pipeline Systems - KMZ"
	shpSubdir = "Pipeline Systems - SHP"
)

// ClientSettings are the per-client values the classification run needs.
type ClientSettings struct {
	Client       string
	ArchivePath  string // KMZ, KML, or shapefile route definition
	ReportPrefix string
}

// ClientStore resolves per-client settings from a clients directory laid out
// as <dir>/<CLIENT>/config.json.
type ClientStore struct {
	dir string
}

// NewClientStore returns a store over the given clients directory.
func NewClientStore(dir string) *ClientStore {
	return &ClientStore{dir: dir}
}

// Clients lists the client identifiers that have a config.json.
func (s *ClientStore) Clients() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, eris.Wrapf(err, "config: list clients in %s", s.dir)
	}
	var clients []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.dir, e.Name(), "config.json")); err == nil {
			clients = append(clients, e.Name())
		}
	}
	sort.Strings(clients)
	return clients, nil
}

// Settings loads a client's config.json and resolves its route archive path.
// An explicit kmz_path wins; otherwise the first archive found under the
// client's discovery folders is used. A client with no resolvable archive is
// a fatal precondition for a classification run, reported as an error here.
func (s *ClientStore) Settings(client string) (*ClientSettings, error) {
	clientDir := filepath.Join(s.dir, client)
	cfgPath := filepath.Join(clientDir, "config.json")

	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrapf(err, "config: read client config %s", cfgPath)
	}

	settings := &ClientSettings{
		Client:       client,
		ArchivePath:  v.GetString("kmz_path"),
		ReportPrefix: v.GetString("report_prefix"),
	}
	if settings.ReportPrefix == "" {
		settings.ReportPrefix = client
	}

	if settings.ArchivePath == "" {
		settings.ArchivePath = discoverArchive(clientDir)
	}
	if settings.ArchivePath == "" {
		return nil, eris.Errorf("config: no route archive for client %s", client)
	}
	if _, err := os.Stat(settings.ArchivePath); err != nil {
		return nil, eris.Wrapf(err, "config: route archive for client %s", client)
	}
	return settings, nil
}

// discoverArchive returns the first .kmz under the KMZ folder, else the first
// .shp under the SHP folder, else empty.
func discoverArchive(clientDir string) string {
	if p := firstWithExt(filepath.Join(clientDir, kmzSubdir), ".kmz"); p != "" {
		return p
	}
	return firstWithExt(filepath.Join(clientDir, shpSubdir), ".shp")
}

func firstWithExt(dir, ext string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}
