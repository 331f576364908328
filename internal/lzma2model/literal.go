// SPDX-License-Identifier: GPL-2.0-only

package lzma2model

import "github.com/woozymasta/fastlzma2/internal/rangecoder"

// literalProbsPerState is the width of one literal context's probability
// slice: a plain 8-level bit tree (indices 1..255) shares its low half
// with the matched-byte tree, whose high half occupies indices 256..767
// (0x100..0x2FF).
const literalProbsPerState = 0x300

// literalState computes which of the (1<<(lc+lp)) literal contexts
// applies at a given dictionary position, given the previous output
// byte.
func literalState(position uint32, prevByte byte, lc, lp uint) uint32 {
	posMask := uint32(1)<<lp - 1
	return ((position & posMask) << lc) | (uint32(prevByte) >> (8 - lc))
}

// literalProbs slices out the probability context for literalState
// state.
func (m *Model) literalProbs(state uint32) []rangecoder.Prob {
	off := state * literalProbsPerState
	return m.Literal[off : off+literalProbsPerState]
}

// EncodeLiteral codes the next output byte b. matchByte is the byte at
// the current match distance's rep0 offset, consulted only when the
// state says the previous op was a match/rep (matched-byte coding).
func (m *Model) EncodeLiteral(e *rangecoder.Encoder, position uint32, prevByte, b, matchByte byte) {
	probs := m.literalProbs(literalState(position, prevByte, uint(m.LC), uint(m.LP)))

	if !m.State.IsAfterMatch() {
		encodeLiteralPlain(e, probs, b)
		m.State = m.State.AfterLiteral()
		return
	}

	encodeLiteralMatched(e, probs, b, matchByte)
	m.State = m.State.AfterLiteral()
}

// DecodeLiteral is the decoder counterpart of EncodeLiteral.
func (m *Model) DecodeLiteral(d *rangecoder.Decoder, position uint32, prevByte, matchByte byte) (byte, error) {
	probs := m.literalProbs(literalState(position, prevByte, uint(m.LC), uint(m.LP)))

	var b byte
	var err error
	if !m.State.IsAfterMatch() {
		b, err = decodeLiteralPlain(d, probs)
	} else {
		b, err = decodeLiteralMatched(d, probs, matchByte)
	}
	if err != nil {
		return 0, err
	}
	m.State = m.State.AfterLiteral()
	return b, nil
}

// LiteralPrice returns the coding price of byte b without mutating
// state, for use by the optimal parser's cost estimation.
func (m *Model) LiteralPrice(position uint32, prevByte, b, matchByte byte, afterMatch bool) uint32 {
	probs := m.literalProbs(literalState(position, prevByte, uint(m.LC), uint(m.LP)))
	if !afterMatch {
		return literalPlainPrice(probs, b)
	}
	return literalMatchedPrice(probs, b, matchByte)
}

func encodeLiteralPlain(e *rangecoder.Encoder, probs []rangecoder.Prob, b byte) {
	m := uint32(1)
	for i := 7; i >= 0; i-- {
		bit := (uint32(b) >> uint(i)) & 1
		e.EncodeBit(&probs[m], bit)
		m = (m << 1) | bit
	}
}

func decodeLiteralPlain(d *rangecoder.Decoder, probs []rangecoder.Prob) (byte, error) {
	m := uint32(1)
	for m < 0x100 {
		bit, err := d.DecodeBit(&probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | bit
	}
	return byte(m - 0x100), nil
}

func literalPlainPrice(probs []rangecoder.Prob, b byte) uint32 {
	price := uint32(0)
	m := uint32(1)
	for i := 7; i >= 0; i-- {
		bit := (uint32(b) >> uint(i)) & 1
		price += BitPrice(probs[m], bit)
		m = (m << 1) | bit
	}
	return price
}

// encodeLiteralMatched codes b against the probabilities conditioned by
// matchByte: as long as the bits coded so far equal matchByte's bits,
// the tree node is offset into the 0x100/0x200 "still in sync" half;
// once a coded bit diverges, the remaining bits fall back to the plain
// 0..255 half shared with encodeLiteralPlain/decodeLiteralPlain.
func encodeLiteralMatched(e *rangecoder.Encoder, probs []rangecoder.Prob, b, matchByte byte) {
	m := uint32(1)
	inSync := true
	for i := 7; i >= 0; i-- {
		bit := (uint32(b) >> uint(i)) & 1
		if inSync {
			matchBit := (uint32(matchByte) >> uint(i)) & 1
			idx := ((1 + matchBit) << 8) + m
			e.EncodeBit(&probs[idx], bit)
			m = (m << 1) | bit
			if bit != matchBit {
				inSync = false
			}
			continue
		}
		e.EncodeBit(&probs[m], bit)
		m = (m << 1) | bit
	}
}

func decodeLiteralMatched(d *rangecoder.Decoder, probs []rangecoder.Prob, matchByte byte) (byte, error) {
	m := uint32(1)
	inSync := true
	for i := 7; i >= 0 && m < 0x100; i-- {
		if inSync {
			matchBit := (uint32(matchByte) >> uint(i)) & 1
			idx := ((1 + matchBit) << 8) + m
			bit, err := d.DecodeBit(&probs[idx])
			if err != nil {
				return 0, err
			}
			m = (m << 1) | bit
			if bit != matchBit {
				inSync = false
			}
			continue
		}
		bit, err := d.DecodeBit(&probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | bit
	}
	return byte(m - 0x100), nil
}

func literalMatchedPrice(probs []rangecoder.Prob, b, matchByte byte) uint32 {
	price := uint32(0)
	m := uint32(1)
	inSync := true
	for i := 7; i >= 0; i-- {
		bit := (uint32(b) >> uint(i)) & 1
		if inSync {
			matchBit := (uint32(matchByte) >> uint(i)) & 1
			idx := ((1 + matchBit) << 8) + m
			price += BitPrice(probs[idx], bit)
			m = (m << 1) | bit
			if bit != matchBit {
				inSync = false
			}
			continue
		}
		price += BitPrice(probs[m], bit)
		m = (m << 1) | bit
	}
	return price
}
