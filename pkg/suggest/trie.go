package suggest

import "sync"

// node is one normalized-character prefix in the trie. Each node carries its
// own lock and exclusively owns its children map; insert and query hold at
// most one node lock at a time, so writers in disjoint subtrees never
// contend and readers never block each other.
//
// cache holds the node's ranked subtree top-K, best first. It is an
// accelerator, not a source of truth: entries may be stale or tombstoned at
// any time and readers must check liveness before trusting one.
type node struct {
	mu       sync.RWMutex
	children map[byte]*node
	end      bool
	terms    []int
	cache    []int
}

func newNode() *node {
	return &node{children: make(map[byte]*node)}
}

// insertPath extends the trie along key and folds id into the cache of every
// node on the path, terminal included, so each ancestor prefix reflects the
// new or re-scored suggestion. Nodes are created lazily and never deleted;
// trie growth is bounded only by the caller's input.
func (ix *Index) insertPath(key string, id int) {
	cur := ix.root
	for i := 0; i < len(key); i++ {
		c := key[i]
		cur.mu.Lock()
		next, ok := cur.children[c]
		if !ok {
			next = newNode()
			cur.children[c] = next
			ix.nodes.Add(1)
		}
		cur.cache = ix.store.mergeCache(cur.cache, id, ix.cacheSize)
		cur.mu.Unlock()
		cur = next
	}

	cur.mu.Lock()
	cur.end = true
	present := false
	for _, t := range cur.terms {
		if t == id {
			present = true
			break
		}
	}
	if !present {
		cur.terms = append(cur.terms, id)
	}
	cur.cache = ix.store.mergeCache(cur.cache, id, ix.cacheSize)
	cur.mu.Unlock()
}

// findNode walks key one character at a time, taking each node's shared lock
// only around the child lookup. Returns nil on the first missing child.
// A walk racing a concurrent insert may miss a prefix created moments
// earlier; per-node atomicity is all this structure promises.
func (ix *Index) findNode(key string) *node {
	cur := ix.root
	for i := 0; i < len(key); i++ {
		c := key[i]
		cur.mu.RLock()
		next := cur.children[c]
		cur.mu.RUnlock()
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}
