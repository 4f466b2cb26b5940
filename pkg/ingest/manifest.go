package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Manifest lists the dataset files loaded at startup:
//
//	sources:
//	  - path: contacts.csv
//	    format: csv
//	  - path: exports/crm.jsonl
//
// Relative paths resolve against the manifest's own directory. The format
// field is optional; missing formats are detected from the extension.
type Manifest struct {
	Sources []Source `yaml:"sources"`
}

// Source is one dataset file entry in a manifest.
type Source struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// ReadManifest parses a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Sources) == 0 {
		return nil, fmt.Errorf("manifest %s lists no sources", path)
	}
	for i, src := range m.Sources {
		if src.Path == "" {
			return nil, fmt.Errorf("manifest %s: source %d has no path", path, i+1)
		}
	}
	return &m, nil
}

// Load ingests every source in the manifest through the loader, resolving
// relative paths against baseDir. Stats aggregate across all sources; the
// first file error stops the run.
func (m *Manifest) Load(baseDir string, l *Loader) (Stats, error) {
	var total Stats
	for _, src := range m.Sources {
		format, err := ParseFormat(src.Format)
		if err != nil {
			return total, fmt.Errorf("source %s: %w", src.Path, err)
		}
		path := src.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		log.Debugf("Loading source %s (%s)", path, format)
		stats, err := l.LoadFile(path, format)
		total.Lines += stats.Lines
		total.Loaded += stats.Loaded
		total.Skipped += stats.Skipped
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
