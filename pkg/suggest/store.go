package suggest

import "sync"

// record is one slot in the suggestion store. An empty text marks a tombstone;
// the slot itself is never removed or reused because trie nodes and caches
// hold raw ids into the store.
type record struct {
	text string
	freq int
	ts   uint64
}

// liveEntry is a point-in-time copy of a live record, used by the fuzzy scan
// so distances are computed outside the store lock.
type liveEntry struct {
	id   int
	text string
}

// store is the append-only suggestion table plus the normalized-key dedup map.
// A single exclusive section guards every mutation; reads take the shared
// lock, so any number of readers proceed in parallel.
type store struct {
	mu      sync.RWMutex
	records []record
	byKey   map[string]int
	live    int
	maxFreq int
}

func newStore() *store {
	return &store{byKey: make(map[string]int)}
}

// upsert registers one occurrence of the normalized key. A known key gets its
// frequency bumped and recency replaced in place; a new key is appended with
// frequency 1, keeping the first-seen display text. Returns the record id.
func (s *store) upsert(key, display string, ts uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byKey[key]; ok {
		rec := &s.records[id]
		rec.freq++
		rec.ts = ts
		if rec.freq > s.maxFreq {
			s.maxFreq = rec.freq
		}
		return id
	}
	id := len(s.records)
	s.records = append(s.records, record{text: display, freq: 1, ts: ts})
	s.byKey[key] = id
	s.live++
	if s.maxFreq < 1 {
		s.maxFreq = 1
	}
	return id
}

// remove undoes one occurrence of the normalized key. With more occurrences
// left it decrements the frequency and resets recency to the zero sentinel;
// on the last occurrence it tombstones the record and drops the key mapping.
// The id stays addressable either way, so stale cache entries resolve to a
// dead record instead of dangling.
func (s *store) remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return false
	}
	rec := &s.records[id]
	if rec.freq > 1 {
		rec.freq--
		rec.ts = 0
		return true
	}
	rec.freq = 0
	rec.text = ""
	delete(s.byKey, key)
	s.live--
	return true
}

// isLive reports whether id names a non-tombstoned record.
func (s *store) isLive(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return id >= 0 && id < len(s.records) && s.records[id].text != ""
}

// resolve copies out the records for ids in the given order, dropping
// anything tombstoned since the ids were gathered.
func (s *store) resolve(ids []int) []Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Suggestion, 0, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(s.records) {
			continue
		}
		rec := s.records[id]
		if rec.text == "" {
			continue
		}
		out = append(out, Suggestion{
			ID:        id,
			Text:      rec.text,
			Frequency: rec.freq,
			Recency:   rec.ts,
		})
	}
	return out
}

// liveEntries snapshots every live record in store order (ascending id).
func (s *store) liveEntries() []liveEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]liveEntry, 0, s.live)
	for id, rec := range s.records {
		if rec.text != "" {
			out = append(out, liveEntry{id: id, text: rec.text})
		}
	}
	return out
}

func (s *store) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

func (s *store) slots() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *store) maxFrequency() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxFreq
}
