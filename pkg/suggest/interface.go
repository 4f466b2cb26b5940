// Package suggest is the core, providing the suggestion store, the per-node
// locked trie and the ranked retrievals behind autocomplete and fuzzy lookups.
package suggest

// Suggester is the index surface the CLI and server shells consume.
type Suggester interface {
	// Insert records one occurrence of text at logical time ts and returns
	// the stable suggestion id.
	Insert(text string, ts uint64) (int, error)

	// Delete decrements the frequency for text, tombstoning on zero.
	// Returns false when the key is unknown.
	Delete(text string) bool

	// Autocomplete returns up to topK live suggestions under prefix,
	// best ranked first.
	Autocomplete(prefix string, topK int) ([]Suggestion, error)

	// FuzzySuggest returns up to topK live suggestions by edit distance,
	// for callers falling back after an empty Autocomplete.
	FuzzySuggest(prefix string, topK int) ([]Suggestion, error)

	// Size reports the live suggestion count.
	Size() int

	// Stats returns counters describing the index.
	Stats() map[string]int
}
