// SPDX-License-Identifier: GPL-2.0-only

package chunk

import (
	"github.com/woozymasta/fastlzma2/internal/lzma2model"
)

// priceLiteral returns the bit-cost (in the range coder's probPrices
// units) of coding win[pos] as a literal, without mutating m. It mirrors
// encodeLiteral's branching exactly, substituting BitPrice/LiteralPrice
// for the actual EncodeBit/EncodeLiteral calls.
func priceLiteral(m *lzma2model.Model, win []byte, pos uint32) uint32 {
	posState := m.PosState(pos)
	isMatchIdx := m.IsMatchIdx(posState)
	price := lzma2model.BitPrice(m.IsMatch[isMatchIdx], 0)

	var prevByte, matchByte byte
	if pos > 0 {
		prevByte = win[pos-1]
	}
	afterMatch := m.State.IsAfterMatch()
	if afterMatch {
		dist := m.Rep[0] + 1
		if dist <= pos {
			matchByte = win[pos-dist]
		}
	}
	price += m.LiteralPrice(pos, prevByte, win[pos], matchByte, afterMatch)
	return price
}

// priceMatch returns the bit-cost of coding a length/distance pair at
// pos as whichever of a new match, a rep-match, or a short rep dist
// already equals, mirroring encodeMatch's branching without emitting
// any bits or touching m.State/m.Rep.
func priceMatch(m *lzma2model.Model, pos, length, dist uint32) uint32 {
	posState := m.PosState(pos)
	isMatchIdx := m.IsMatchIdx(posState)
	price := lzma2model.BitPrice(m.IsMatch[isMatchIdx], 1)

	repIdx := -1
	for i, r := range m.Rep {
		if r+1 == dist {
			repIdx = i
			break
		}
	}

	if repIdx < 0 {
		price += lzma2model.BitPrice(m.IsRep[m.State], 0)
		price += m.LenCoder.Price(length-lzma2model.MatchMinLen, posState)
		lenState := lzma2model.LenToPosState(length - lzma2model.MatchMinLen)
		price += m.DistCoder.Price(dist-1, lenState)
		return price
	}

	price += lzma2model.BitPrice(m.IsRep[m.State], 1)
	if repIdx == 0 {
		price += lzma2model.BitPrice(m.IsRepG0[m.State], 0)
		if length == 1 {
			price += lzma2model.BitPrice(m.IsRepG0Long[isMatchIdx], 0)
			return price
		}
		price += lzma2model.BitPrice(m.IsRepG0Long[isMatchIdx], 1)
	} else {
		price += lzma2model.BitPrice(m.IsRepG0[m.State], 1)
		switch repIdx {
		case 1:
			price += lzma2model.BitPrice(m.IsRepG1[m.State], 0)
		case 2:
			price += lzma2model.BitPrice(m.IsRepG1[m.State], 1)
			price += lzma2model.BitPrice(m.IsRepG2[m.State], 0)
		default:
			price += lzma2model.BitPrice(m.IsRepG1[m.State], 1)
			price += lzma2model.BitPrice(m.IsRepG2[m.State], 1)
		}
	}
	price += m.RepLenCoder.Price(length-lzma2model.MatchMinLen, posState)
	return price
}

// shortRepAvailable reports whether the byte at pos equals the byte at
// rep0's distance, making a length-1 short rep a legal (if not
// necessarily cheapest) encoding of win[pos].
func shortRepAvailable(win []byte, pos, end, rep0 uint32) bool {
	dist := rep0 + 1
	if dist > pos || pos >= end {
		return false
	}
	return win[pos] == win[pos-dist]
}
