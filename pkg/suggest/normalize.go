package suggest

import "strings"

// Normalize canonicalizes raw text into the comparison key used for both
// deduplication and trie indexing: ASCII only, letters lowercased, digits kept,
// whitespace runs collapsed to a single space, punctuation restricted to
// ", . - & /", everything else dropped, result trimmed. The same function is
// applied to insertion keys and query prefixes, which is what makes matching
// case- and whitespace-insensitive.
//
// Normalize is idempotent: every byte it emits passes through unchanged on a
// second application.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pendingSpace := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		var out byte
		switch {
		case c >= 0x80:
			// non-ASCII bytes are dropped, no unicode folding here
			continue
		case c >= 'A' && c <= 'Z':
			out = c + ('a' - 'A')
		case c >= 'a' && c <= 'z':
			out = c
		case c >= '0' && c <= '9':
			out = c
		case c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r':
			pendingSpace = true
			continue
		case c == ',' || c == '.' || c == '-' || c == '&' || c == '/':
			out = c
		default:
			continue
		}
		// flushing the space lazily collapses runs and trims both ends
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteByte(out)
	}
	return b.String()
}
