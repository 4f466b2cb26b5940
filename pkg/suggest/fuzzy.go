package suggest

import "sort"

// FuzzySuggest is the fallback for queries whose prefix matches no trie
// path. It scores every live record by Levenshtein distance between the
// normalized query and the record's normalized key, truncated to
// len(query)+2 bytes so much longer keys are not penalized for their tail.
// Results are ordered by ascending distance, ties in store order.
//
// This is a linear scan over the store and is intended for small corpora;
// callers should reach for Autocomplete first.
func (ix *Index) FuzzySuggest(prefix string, topK int) ([]Suggestion, error) {
	if topK < 1 {
		return nil, ErrLimit
	}
	query := Normalize(prefix)
	entries := ix.store.liveEntries()
	if len(entries) == 0 {
		return nil, nil
	}

	type scored struct {
		id   int
		dist int
	}
	limit := len(query) + 2
	ranked := make([]scored, 0, len(entries))
	for _, e := range entries {
		key := Normalize(e.text)
		if len(key) > limit {
			key = key[:limit]
		}
		ranked = append(ranked, scored{id: e.id, dist: levenshtein(query, key)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].id < ranked[j].id
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	ids := make([]int, len(ranked))
	for i, s := range ranked {
		ids[i] = s.id
	}
	return ix.store.resolve(ids), nil
}

// levenshtein computes byte-wise edit distance with a single rolling row.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cur := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			row[j] = min(row[j-1]+1, row[j]+1, prev+cost)
			prev = cur
		}
	}
	return row[len(b)]
}
