package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadManifest(t *testing.T) {
	path := writeFile(t, "sources.yml", `
sources:
  - path: contacts.csv
    format: csv
  - path: exports/crm.jsonl
`)
	m, err := ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Sources, 2)
	assert.Equal(t, "contacts.csv", m.Sources[0].Path)
	assert.Equal(t, "csv", m.Sources[0].Format)
	assert.Equal(t, "exports/crm.jsonl", m.Sources[1].Path)
	assert.Empty(t, m.Sources[1].Format)
}

func TestReadManifestErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := ReadManifest(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("NotYAML", func(t *testing.T) {
		_, err := ReadManifest(writeFile(t, "bad.yml", "sources: ["))
		assert.Error(t, err)
	})

	t.Run("NoSources", func(t *testing.T) {
		_, err := ReadManifest(writeFile(t, "empty.yml", "sources: []"))
		assert.ErrorContains(t, err, "no sources")
	})

	t.Run("SourceWithoutPath", func(t *testing.T) {
		_, err := ReadManifest(writeFile(t, "nopath.yml", "sources:\n  - format: csv\n"))
		assert.ErrorContains(t, err, "has no path")
	})
}

func TestManifestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contacts.csv"),
		[]byte("id,name,address\n1,Jane Doe,12 Oak St\n2,John Roe,9 Elm Rd\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crm.jsonl"),
		[]byte(`{"name": "Mae West", "address": "1 Main St"}`+"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sources.yml"), []byte(`
sources:
  - path: contacts.csv
    format: csv
  - path: crm.jsonl
`), 0644))

	m, err := ReadManifest(filepath.Join(dir, "sources.yml"))
	require.NoError(t, err)

	loader, idx := newTestLoader(t)
	stats, err := m.Load(dir, loader)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Lines)
	assert.Equal(t, 3, stats.Loaded)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 3, idx.Size())
}

func TestManifestLoadStopsOnMissingSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contacts.csv"),
		[]byte("id,name,address\n1,Jane Doe,12 Oak St\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sources.yml"), []byte(`
sources:
  - path: contacts.csv
  - path: missing.csv
`), 0644))

	m, err := ReadManifest(filepath.Join(dir, "sources.yml"))
	require.NoError(t, err)

	loader, idx := newTestLoader(t)
	stats, err := m.Load(dir, loader)
	assert.Error(t, err)
	// the first file landed before the failure
	assert.Equal(t, 1, stats.Loaded)
	assert.Equal(t, 1, idx.Size())
}

func TestManifestLoadRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sources.yml"), []byte(`
sources:
  - path: contacts.csv
    format: parquet
`), 0644))

	m, err := ReadManifest(filepath.Join(dir, "sources.yml"))
	require.NoError(t, err)

	loader, _ := newTestLoader(t)
	_, err = m.Load(dir, loader)
	assert.ErrorContains(t, err, "unrecognized format")
}
