package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/ingest"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFullNames(t *testing.T) {
	cs := newCommandSet("insert", "delete", "load", "topk", "fuzzy", "stats", "help", "quit")
	for _, name := range []string{"insert", "delete", "load", "topk", "fuzzy", "stats", "help", "quit"} {
		got, err := cs.resolve(name)
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
}

func TestResolveAbbreviations(t *testing.T) {
	cs := newCommandSet("insert", "delete", "load", "topk", "fuzzy", "stats", "help", "quit")
	for abbr, want := range map[string]string{
		"i": "insert", "d": "delete", "l": "load", "t": "topk",
		"f": "fuzzy", "s": "stats", "h": "help", "q": "quit",
		"qu": "quit", "stat": "stats",
	} {
		got, err := cs.resolve(abbr)
		require.NoError(t, err, "abbr %q", abbr)
		assert.Equal(t, want, got, "abbr %q", abbr)
	}
}

func TestResolveExactWinsOverPrefix(t *testing.T) {
	cs := newCommandSet("stat", "stats")
	got, err := cs.resolve("stat")
	require.NoError(t, err)
	assert.Equal(t, "stat", got)
}

func TestResolveUnknown(t *testing.T) {
	cs := newCommandSet("insert", "quit")
	_, err := cs.resolve("frobnicate")
	assert.ErrorContains(t, err, "unknown command")
}

func TestResolveAmbiguous(t *testing.T) {
	cs := newCommandSet("insert", "inspect")
	_, err := cs.resolve("ins")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
	assert.Contains(t, err.Error(), "insert, inspect")
}

func newTestHandler(t *testing.T) (*InputHandler, *suggest.Index) {
	t.Helper()
	idx, err := suggest.New(suggest.DefaultCacheSize)
	require.NoError(t, err)
	clock := &ingest.Clock{}
	return NewInputHandler(idx, ingest.NewLoader(idx, clock), clock, config.DefaultConfig()), idx
}

func TestRunCommandQuit(t *testing.T) {
	h, _ := newTestHandler(t)
	assert.True(t, h.runCommand("quit"))
	assert.True(t, h.runCommand("q"))
	assert.False(t, h.runCommand("nonsense"), "unknown commands only log")
}

func TestRunCommandInsertDelete(t *testing.T) {
	h, idx := newTestHandler(t)

	assert.False(t, h.runCommand("insert Jane Doe, 12 Oak St"))
	assert.Equal(t, 1, idx.Size())

	got, err := idx.Autocomplete("jane", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Jane Doe, 12 Oak St", got[0].Text)

	assert.False(t, h.runCommand("delete Jane Doe, 12 Oak St"))
	assert.Equal(t, 0, idx.Size())

	// bad input only logs, never exits the loop
	assert.False(t, h.runCommand("insert"))
	assert.False(t, h.runCommand("insert    "))
	assert.Equal(t, 0, idx.Size())
}

func TestRunCommandTopK(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, 5, h.suggestLimit)

	h.runCommand("topk 9")
	assert.Equal(t, 9, h.suggestLimit)

	h.runCommand("topk zero")
	h.runCommand("topk -4")
	assert.Equal(t, 9, h.suggestLimit, "bad values leave the limit alone")
}

func TestRunCommandFuzzyToggle(t *testing.T) {
	h, _ := newTestHandler(t)
	require.True(t, h.fuzzyFallback)

	h.runCommand("fuzzy off")
	assert.False(t, h.fuzzyFallback)

	h.runCommand("fuzzy on")
	assert.True(t, h.fuzzyFallback)

	h.runCommand("fuzzy sideways")
	assert.True(t, h.fuzzyFallback)
}

func TestRunCommandLoad(t *testing.T) {
	h, idx := newTestHandler(t)
	path := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("id,name,address\n1,Jane Doe,12 Oak St\n"), 0644))

	assert.False(t, h.runCommand("load "+path))
	assert.Equal(t, 1, idx.Size())

	assert.False(t, h.runCommand("load"), "missing path only logs")
	assert.False(t, h.runCommand("load "+path+" parquet"), "bad format only logs")
	assert.Equal(t, 1, idx.Size())
}
