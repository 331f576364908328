// SPDX-License-Identifier: GPL-2.0-only

package rmf

import "testing"

func TestFindBestMatchFindsRepeatedPattern(t *testing.T) {
	data := []byte("the quick brown fox jumps over the quick brown fox")
	m := NewMatcher(data, DefaultConfig())
	m.InsertRange(0, len("the quick brown fox jumps over "))

	pos := len("the quick brown fox jumps over ")
	match, ok := m.FindBestMatch(pos, len(data)-pos)
	if !ok {
		t.Fatalf("expected a match at pos %d", pos)
	}
	if match.Dist != pos {
		t.Fatalf("got dist %d, want %d (the earlier repeat starts at 0)", match.Dist, pos)
	}
	wantLen := len("the quick brown fox")
	if match.Len != wantLen {
		t.Fatalf("got len %d, want %d", match.Len, wantLen)
	}
}

func TestFindBestMatchNoRepeat(t *testing.T) {
	data := []byte("abcdefghij")
	m := NewMatcher(data, DefaultConfig())
	m.InsertRange(0, len(data))

	if _, ok := m.FindBestMatch(9, 1); ok {
		t.Fatalf("expected no match with maxLen below MinMatchLen")
	}
}

func TestFindMatchesAscendingLength(t *testing.T) {
	data := []byte("aXaaXaaaXaaaaX")
	m := NewMatcher(data, DefaultConfig())
	m.InsertRange(0, len(data))

	matches := m.FindMatches(9, len(data)-9, nil)
	for i := 1; i < len(matches); i++ {
		if matches[i].Len <= matches[i-1].Len {
			t.Fatalf("matches not strictly ascending in length: %v", matches)
		}
	}
}

func TestBuildMatchesInsertRange(t *testing.T) {
	data := []byte("the quick brown fox jumps over the quick brown fox jumps again")

	inserted := NewMatcher(data, DefaultConfig())
	inserted.InsertRange(0, len(data))

	built := NewMatcher(data, DefaultConfig())
	built.Build(0, len(data))

	for pos := 0; pos < len(data)-1; pos++ {
		wantMatch, wantOK := inserted.FindBestMatch(pos, len(data)-pos)
		gotMatch, gotOK := built.FindBestMatch(pos, len(data)-pos)
		if wantOK != gotOK || wantMatch != gotMatch {
			t.Fatalf("pos %d: InsertRange gave (%v,%v), Build gave (%v,%v)", pos, wantMatch, wantOK, gotMatch, gotOK)
		}
	}
}

func TestDivideAndConquerMatchesLinear(t *testing.T) {
	data := []byte("she sells sea shells by the sea shore, the shells she sells are seashells for sure")

	linear := NewMatcher(data, Config{MaxChainLength: 8, NiceLength: 32})
	linear.Build(0, len(data))

	dc := NewMatcher(data, Config{MaxChainLength: 8, NiceLength: 32, DivideAndConquer: true})
	dc.Build(0, len(data))

	for pos := 0; pos < len(data)-1; pos++ {
		wantMatches := linear.FindMatches(pos, len(data)-pos, nil)
		gotMatches := dc.FindMatches(pos, len(data)-pos, nil)
		if len(wantMatches) != len(gotMatches) {
			t.Fatalf("pos %d: linear found %v, divide-and-conquer found %v", pos, wantMatches, gotMatches)
		}
		for i := range wantMatches {
			if wantMatches[i] != gotMatches[i] {
				t.Fatalf("pos %d: linear found %v, divide-and-conquer found %v", pos, wantMatches, gotMatches)
			}
		}
	}
}

func TestBuildMaxDepthTruncatesChain(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = 'a'
	}

	m := NewMatcher(data, Config{MaxChainLength: 32, NiceLength: 64, MaxDepth: 2})
	m.Build(0, len(data))

	// Every position hashes to the same bucket ("aa"); with MaxDepth 2
	// the chain is cut at every even position, so each odd position
	// keeps exactly one live link (to the position before it). The query
	// position 61 is odd, so it should still find a match.
	pos := len(data) - 3
	match, ok := m.FindBestMatch(pos, 2)
	if !ok {
		t.Fatalf("expected a match even with a truncated chain")
	}
	if match.Dist < 1 {
		t.Fatalf("got non-positive distance %d", match.Dist)
	}
}

func TestResetClearsChains(t *testing.T) {
	data := []byte("aaaaaaaaaa")
	m := NewMatcher(data, DefaultConfig())
	m.InsertRange(0, len(data))
	if _, ok := m.FindBestMatch(5, 5); !ok {
		t.Fatalf("expected a match before reset")
	}

	m.Reset(data)
	if _, ok := m.FindBestMatch(5, 5); ok {
		t.Fatalf("expected no match immediately after reset with nothing inserted")
	}
}
