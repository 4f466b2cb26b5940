package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// commandSet resolves colon-command names, accepting any unambiguous
// abbreviation, so ":q" quits and ":st" shows stats.
type commandSet struct {
	trie *patricia.Trie
}

func newCommandSet(names ...string) *commandSet {
	trie := patricia.NewTrie()
	for _, name := range names {
		trie.Insert(patricia.Prefix(name), name)
	}
	return &commandSet{trie: trie}
}

// resolve expands a possibly abbreviated command name. An exact spelling
// wins even if it also prefixes a longer command.
func (cs *commandSet) resolve(name string) (string, error) {
	if item := cs.trie.Get(patricia.Prefix(name)); item != nil {
		return item.(string), nil
	}

	var matches []string
	cs.trie.VisitSubtree(patricia.Prefix(name), func(p patricia.Prefix, item patricia.Item) error {
		matches = append(matches, item.(string))
		return nil
	})

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown command %q, try :help", name)
	case 1:
		return matches[0], nil
	}
	sort.Strings(matches)
	return "", fmt.Errorf("ambiguous command %q: %s", name, strings.Join(matches, ", "))
}
