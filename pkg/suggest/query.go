package suggest

import "sort"

// gatherFactor bounds the breadth-first fallback: the walk stops once
// topK*gatherFactor live candidates have been collected.
const gatherFactor = 5

// Autocomplete returns up to topK live suggestions whose normalized text
// starts with prefix, best first. An empty prefix is legal and resolves at
// the root, so it yields the global top suggestions. A prefix that matches
// no path returns an empty result, not an error.
func (ix *Index) Autocomplete(prefix string, topK int) ([]Suggestion, error) {
	if topK < 1 {
		return nil, ErrLimit
	}
	n := ix.findNode(Normalize(prefix))
	if n == nil {
		return nil, nil
	}
	ids := ix.gather(n, topK)
	return ix.store.resolve(ids), nil
}

// gather picks result ids at node n. The fast path scans n's ranked cache
// and keeps the first topK live ids; the cache is already in rank order.
// When deletions have thinned the cache below topK the slow path walks the
// subtree instead, collecting live terminal ids breadth-first until
// topK*gatherFactor candidates are in hand, then ranks them. The walk's
// result replaces the cache scan rather than extending it, so a candidate
// present in both is never returned twice. Children are visited in byte
// order, so which candidates make the budget is deterministic.
func (ix *Index) gather(n *node, topK int) []int {
	n.mu.RLock()
	fromCache := make([]int, 0, topK)
	for _, id := range n.cache {
		if ix.store.isLive(id) {
			fromCache = append(fromCache, id)
			if len(fromCache) == topK {
				break
			}
		}
	}
	n.mu.RUnlock()
	if len(fromCache) == topK {
		return fromCache
	}

	budget := topK * gatherFactor
	found := make([]int, 0, budget)
	seen := make(map[int]struct{}, budget)
	queue := []*node{n}
	for len(queue) > 0 && len(found) < budget {
		cur := queue[0]
		queue = queue[1:]
		cur.mu.RLock()
		if cur.end {
			for _, id := range cur.terms {
				if _, dup := seen[id]; dup || !ix.store.isLive(id) {
					continue
				}
				seen[id] = struct{}{}
				found = append(found, id)
			}
		}
		keys := make([]byte, 0, len(cur.children))
		for c := range cur.children {
			keys = append(keys, c)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, c := range keys {
			queue = append(queue, cur.children[c])
		}
		cur.mu.RUnlock()
	}

	ix.store.sortByRank(found)
	if len(found) > topK {
		found = found[:topK]
	}
	return found
}
