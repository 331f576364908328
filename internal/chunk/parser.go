// SPDX-License-Identifier: GPL-2.0-only

package chunk

import (
	"github.com/woozymasta/fastlzma2/internal/lzma2model"
	"github.com/woozymasta/fastlzma2/internal/rangecoder"
	"github.com/woozymasta/fastlzma2/internal/rmf"
)

// ParserConfig tunes the lazy parser's match/literal tradeoff.
type ParserConfig struct {
	// NiceLen stops searching for a longer match once one at least
	// this long is found.
	NiceLen int
	// LazyLookahead enables lazy matching: any value above 0 makes the
	// parser price a deferred match one position ahead before committing
	// to the one found at the current position (0 disables it).
	LazyLookahead int
}

// DefaultParserConfig returns the parser's baseline tradeoff, matching
// rmf.DefaultConfig's NiceLength.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{NiceLen: 64, LazyLookahead: 1}
}

// repCandidate finds the longest match at pos using one of model's
// four cached rep distances, returning -1 as the index if none apply.
func repCandidate(win []byte, pos, end uint32, rep [4]uint32) (idx int, length uint32) {
	best := -1
	var bestLen uint32
	for i, r := range rep {
		dist := r + 1
		if dist > pos {
			continue
		}
		l := matchLenAt(win, pos-dist, pos, end-pos)
		if l >= lzma2model.MatchMinLen && l > bestLen {
			best, bestLen = i, l
		}
	}
	return best, bestLen
}

func matchLenAt(win []byte, a, b, limit uint32) uint32 {
	var n uint32
	for n < limit && win[a+n] == win[b+n] {
		n++
	}
	return n
}

// candidate is one priced parse choice at the current position: len==0
// means "code a plain literal", anything else a match/rep/short-rep of
// that length and distance.
type candidate struct {
	len, dist uint32
	price     uint32
}

// bestCandidateAt prices every choice available at pos (literal,
// rep-match, normal match, short rep) against finder's already-built,
// read-only match index and returns the cheapest.
func bestCandidateAt(m *lzma2model.Model, finder *rmf.Matcher, win []byte, pos, end uint32, scratch []rmf.Match) candidate {
	maxLen := int(end - pos)
	best := candidate{price: priceLiteral(m, win, pos)}

	if repIdx, repLen := repCandidate(win, pos, end, m.Rep); repLen >= lzma2model.MatchMinLen {
		if p := priceMatch(m, pos, repLen, m.Rep[repIdx]+1); p < best.price {
			best = candidate{len: repLen, dist: m.Rep[repIdx] + 1, price: p}
		}
	}

	if matches := finder.FindMatches(int(pos), maxLen, scratch); len(matches) > 0 {
		mtc := matches[len(matches)-1]
		normLen, normDist := uint32(mtc.Len), uint32(mtc.Dist)
		if normLen >= lzma2model.MatchMinLen {
			if p := priceMatch(m, pos, normLen, normDist); p < best.price {
				best = candidate{len: normLen, dist: normDist, price: p}
			}
		}
	}

	if shortRepAvailable(win, pos, end, m.Rep[0]) {
		if p := priceMatch(m, pos, 1, m.Rep[0]+1); p < best.price {
			best = candidate{len: 1, dist: m.Rep[0] + 1, price: p}
		}
	}

	return best
}

// ParseAndEncode parses win[start:end] into LZMA operations and
// range-codes them through m, picking at each position whichever of a
// literal, rep-match, normal match, or short rep (a length-1 match
// against rep[0]) has the lowest modeled bit price, per the price
// tables in internal/lzma2model. A one-step price-based lookahead
// defers a short non-nice match when pricing a literal now followed by
// a longer match at the next position comes out cheaper per byte.
//
// finder must already be built (via Build or Insert/InsertRange) over
// every position ParseAndEncode will query, including positions at and
// beyond end — FindMatches never returns a candidate at or past the
// query position, so a finder built over a whole shared block is safe
// to query read-only from multiple concurrently running slices.
// ParseAndEncode itself never mutates finder.
func ParseAndEncode(m *lzma2model.Model, finder *rmf.Matcher, win []byte, start, end uint32, cfg ParserConfig) []byte {
	sink := &rangecoder.SliceSink{Data: make([]byte, 0, (end-start)/2+64)}
	e := rangecoder.NewEncoder(sink)

	var scratch [8]rmf.Match
	pos := start
	for pos < end {
		best := bestCandidateAt(m, finder, win, pos, end, scratch[:0])

		if best.len >= lzma2model.MatchMinLen && int(best.len) < cfg.NiceLen && cfg.LazyLookahead > 0 && pos+1 < end {
			litPrice := priceLiteral(m, win, pos)
			next := bestCandidateAt(m, finder, win, pos+1, end, scratch[:0])
			if next.len > best.len {
				deferredPrice := uint64(litPrice) + uint64(next.price)
				deferredLen := uint64(1 + next.len)
				// Compare per-byte cost via cross multiplication:
				// deferredPrice/deferredLen < best.price/best.len.
				if deferredPrice*uint64(best.len) < uint64(best.price)*deferredLen {
					best = candidate{price: litPrice}
				}
			}
		}

		if best.len == 0 {
			encodeLiteral(e, m, win, pos)
			pos++
			continue
		}

		encodeMatch(e, m, pos, best.len, best.dist)
		pos += best.len
	}

	e.Flush()
	return sink.Data
}
