package suggest

import "testing"

func TestLevenshtein(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "abc", 3},
		{"same", "same", 0},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"jane", "jane doe", 4},
		{"cat", "cut", 1},
		{"abc", "cba", 2},
	}

	for _, tc := range testCases {
		if got := levenshtein(tc.a, tc.b); got != tc.expected {
			t.Errorf("levenshtein(%q, %q): expected %d, got %d", tc.a, tc.b, tc.expected, got)
		}
		// distance is symmetric
		if got := levenshtein(tc.b, tc.a); got != tc.expected {
			t.Errorf("levenshtein(%q, %q): expected %d, got %d", tc.b, tc.a, tc.expected, got)
		}
	}
}

func TestFuzzySuggestOrdersByDistance(t *testing.T) {
	ix, _ := New(DefaultCacheSize)
	ix.Insert("jane doe", 1)
	ix.Insert("june roe", 2)
	ix.Insert("completely different", 3)

	got, err := ix.FuzzySuggest("jane do", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0].Text != "jane doe" {
		t.Errorf("closest: expected 'jane doe', got %q", got[0].Text)
	}
	if got[1].Text != "june roe" {
		t.Errorf("second: expected 'june roe', got %q", got[1].Text)
	}
}

// candidate keys are compared over their first len(query)+2 bytes only, so
// a long key with a matching head is not punished for its tail
func TestFuzzySuggestTruncatesKeys(t *testing.T) {
	ix, _ := New(DefaultCacheSize)
	ix.Insert("abcd with a very long tail after it", 1)
	ix.Insert("zzzz", 2)

	got, err := ix.FuzzySuggest("abcd", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	// truncated to 6 bytes: "abcd w" is distance 2 from "abcd",
	// the full key would have been distance 31
	if got[0].Text != "abcd with a very long tail after it" {
		t.Errorf("expected long key first, got %q", got[0].Text)
	}
}

// equal distances fall back to store order
func TestFuzzySuggestTiesInStoreOrder(t *testing.T) {
	ix, _ := New(DefaultCacheSize)
	first, _ := ix.Insert("cat", 1)
	ix.Insert("cot", 100)
	ix.Insert("cut", 50)

	got, err := ix.FuzzySuggest("czt", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0].ID != first {
		t.Errorf("tie break: expected id %d first, got %d", first, got[0].ID)
	}
	if got[0].Text != "cat" || got[1].Text != "cot" || got[2].Text != "cut" {
		t.Errorf("store order: expected [cat cot cut], got [%s %s %s]",
			got[0].Text, got[1].Text, got[2].Text)
	}
}

func TestFuzzySuggestEmptyStore(t *testing.T) {
	ix, _ := New(DefaultCacheSize)
	got, err := ix.FuzzySuggest("anything", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("empty store returned %v", got)
	}
}

func TestFuzzySuggestLimit(t *testing.T) {
	ix, _ := New(DefaultCacheSize)
	for i, w := range []string{"aaa", "aab", "aac", "aad"} {
		ix.Insert(w, uint64(i+1))
	}

	got, err := ix.FuzzySuggest("aa", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected limit 2, got %d results", len(got))
	}
}
