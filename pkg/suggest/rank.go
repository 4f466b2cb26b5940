package suggest

import "sort"

// rankKey is a point-in-time copy of the fields that totally order two
// suggestions. Copying the fields out keeps comparisons off the store lock
// while a sort is running.
//
// The composite comparison replaces the usual pack-frequency-into-high-bits
// trick: large frequencies cannot overflow into the recency field here.
type rankKey struct {
	freq int
	ts   uint64
	text string
	id   int
}

// before reports whether a outranks b: higher frequency always wins, recency
// breaks frequency ties, then display text ascending, then id ascending.
// Every cache and every fallback sort uses this order, which is what makes
// query results deterministic.
func (a rankKey) before(b rankKey) bool {
	if a.freq != b.freq {
		return a.freq > b.freq
	}
	if a.ts != b.ts {
		return a.ts > b.ts
	}
	if a.text != b.text {
		return a.text < b.text
	}
	return a.id < b.id
}

// rankSnapshot fetches the ranking fields for ids under one shared lock.
// Unknown ids map to the zero key, which sorts last.
func (s *store) rankSnapshot(ids []int) map[int]rankKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make(map[int]rankKey, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(s.records) {
			continue
		}
		rec := s.records[id]
		keys[id] = rankKey{freq: rec.freq, ts: rec.ts, text: rec.text, id: id}
	}
	return keys
}

// sortByRank orders ids best-first against a single snapshot of the store.
func (s *store) sortByRank(ids []int) {
	keys := s.rankSnapshot(ids)
	sort.Slice(ids, func(i, j int) bool {
		return keys[ids[i]].before(keys[ids[j]])
	})
}

// mergeCache folds id into a node's ranked cache: ensure it is present once,
// re-sort (repeat inserts change the score of an id already cached), then cap
// at max entries. This runs at every node along the insert path; paying the
// path-length cost here is what keeps query-time cache reads O(max).
func (s *store) mergeCache(cache []int, id, max int) []int {
	present := false
	for _, x := range cache {
		if x == id {
			present = true
			break
		}
	}
	if !present {
		cache = append(cache, id)
	}
	s.sortByRank(cache)
	if len(cache) > max {
		cache = cache[:max]
	}
	return cache
}
