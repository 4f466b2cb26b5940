package suggest

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// DefaultCacheSize is the per-node ranked cache capacity used when no
// explicit size is configured.
const DefaultCacheSize = 10

var (
	// ErrCacheSize rejects a non-positive per-node cache size at construction.
	ErrCacheSize = errors.New("suggest: cache size must be positive")
	// ErrLimit rejects a non-positive result limit on a query call.
	ErrLimit = errors.New("suggest: result limit must be positive")
	// ErrEmptyKey rejects an insert whose text normalizes to nothing.
	ErrEmptyKey = errors.New("suggest: key is empty after normalization")
)

// Suggestion is one ranked completion returned by queries. ID is the stable
// store id; Frequency and Recency are point-in-time copies of the record.
type Suggestion struct {
	ID        int
	Text      string
	Frequency int
	Recency   uint64
}

// Index is the concurrent prefix-suggestion index: an append-only suggestion
// store plus a character trie whose nodes carry bounded ranked caches.
// All methods are safe for concurrent use.
type Index struct {
	store     *store
	root      *node
	cacheSize int
	nodes     atomic.Int64
}

// New creates an empty index whose per-node caches hold up to cacheSize ids.
func New(cacheSize int) (*Index, error) {
	if cacheSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrCacheSize, cacheSize)
	}
	ix := &Index{
		store:     newStore(),
		root:      newNode(),
		cacheSize: cacheSize,
	}
	ix.nodes.Store(1)
	return ix, nil
}

// Insert records one occurrence of text at logical time ts and returns the
// suggestion id. Re-inserting the same text (under normalization) increments
// the existing record's frequency, replaces its recency and re-scores it in
// every cache along the trie path.
func (ix *Index) Insert(text string, ts uint64) (int, error) {
	key := Normalize(text)
	if key == "" {
		return 0, ErrEmptyKey
	}
	id := ix.store.upsert(key, text, ts)
	ix.insertPath(key, id)
	return id, nil
}

// Delete undoes one occurrence of text, tombstoning the record once its
// frequency reaches zero. Returns false for an unknown key.
//
// The trie is deliberately not walked: node caches keep the dead id until a
// future insert overwrites it, and every reader filters on liveness first.
// That staleness is the documented trade for O(1) deletes.
func (ix *Index) Delete(text string) bool {
	key := Normalize(text)
	if key == "" {
		return false
	}
	return ix.store.remove(key)
}

// Size reports the number of live suggestions.
func (ix *Index) Size() int {
	return ix.store.size()
}

// Stats returns counters describing the index.
func (ix *Index) Stats() map[string]int {
	return map[string]int{
		"live":         ix.store.size(),
		"slots":        ix.store.slots(),
		"nodes":        int(ix.nodes.Load()),
		"maxFrequency": ix.store.maxFrequency(),
	}
}
