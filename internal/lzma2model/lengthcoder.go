// SPDX-License-Identifier: GPL-2.0-only

package lzma2model

import "github.com/woozymasta/fastlzma2/internal/rangecoder"

const (
	// MatchMinLen is the shortest length a normal/rep match can encode
	// (spec §3: "length ≥ 2").
	MatchMinLen = 2

	numLowLenBits  = 3
	numMidLenBits  = 3
	numHighLenBits = 8

	lowLenSymbols  = 1 << numLowLenBits
	midLenSymbols  = 1 << numMidLenBits
	highLenSymbols = 1 << numHighLenBits

	// NumLenSymbols is how many distinct (length - MatchMinLen) values
	// the length coder can represent.
	NumLenSymbols = lowLenSymbols + midLenSymbols + highLenSymbols

	// MaxMatchLen is the longest match length codable (spec: "capped at
	// an implementation constant (≥ 273)").
	MaxMatchLen = MatchMinLen + NumLenSymbols - 1
)

// LenCoder codes a match length (already offset by MatchMinLen) using a
// two-level choice between a cheap low range, a mid range, and an
// expensive high range, each a bit tree conditioned on posState for the
// low/mid ranges.
type LenCoder struct {
	Choice  rangecoder.Prob
	Choice2 rangecoder.Prob
	Low     [][lowLenSymbols]rangecoder.Prob
	Mid     [][midLenSymbols]rangecoder.Prob
	High    [highLenSymbols]rangecoder.Prob
}

// NewLenCoder allocates a length coder whose Low/Mid contexts are indexed
// by a posState mask of numPosStates entries (1<<pb).
func NewLenCoder(numPosStates int) *LenCoder {
	c := &LenCoder{
		Low: make([][lowLenSymbols]rangecoder.Prob, numPosStates),
		Mid: make([][midLenSymbols]rangecoder.Prob, numPosStates),
	}
	c.Reset()
	return c
}

// Reset reinitializes every probability to its neutral value.
func (c *LenCoder) Reset() {
	c.Choice = rangecoder.ProbInit
	c.Choice2 = rangecoder.ProbInit
	for i := range c.Low {
		rangecoder.ResetProbs(c.Low[i][:])
	}
	for i := range c.Mid {
		rangecoder.ResetProbs(c.Mid[i][:])
	}
	rangecoder.ResetProbs(c.High[:])
}

// Encode codes length (already offset by MatchMinLen, i.e. 0-based).
func (c *LenCoder) Encode(e *rangecoder.Encoder, length uint32, posState uint32) {
	if length < lowLenSymbols {
		e.EncodeBit(&c.Choice, 0)
		bitTreeEncode(e, c.Low[posState][:], numLowLenBits, length)
		return
	}
	e.EncodeBit(&c.Choice, 1)
	length -= lowLenSymbols
	if length < midLenSymbols {
		e.EncodeBit(&c.Choice2, 0)
		bitTreeEncode(e, c.Mid[posState][:], numMidLenBits, length)
		return
	}
	e.EncodeBit(&c.Choice2, 1)
	bitTreeEncode(e, c.High[:], numHighLenBits, length-midLenSymbols)
}

// Decode returns the 0-based length symbol (caller adds MatchMinLen).
func (c *LenCoder) Decode(d *rangecoder.Decoder, posState uint32) (uint32, error) {
	bit, err := d.DecodeBit(&c.Choice)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		return bitTreeDecode(d, c.Low[posState][:], numLowLenBits)
	}
	bit2, err := d.DecodeBit(&c.Choice2)
	if err != nil {
		return 0, err
	}
	if bit2 == 0 {
		v, err := bitTreeDecode(d, c.Mid[posState][:], numMidLenBits)
		if err != nil {
			return 0, err
		}
		return v + lowLenSymbols, nil
	}
	v, err := bitTreeDecode(d, c.High[:], numHighLenBits)
	if err != nil {
		return 0, err
	}
	return v + lowLenSymbols + midLenSymbols, nil
}

// Price returns the coding price of the 0-based length symbol.
func (c *LenCoder) Price(length uint32, posState uint32) uint32 {
	if length < lowLenSymbols {
		return BitPrice(c.Choice, 0) + bitTreePrice(c.Low[posState][:], numLowLenBits, length)
	}
	price := BitPrice(c.Choice, 1)
	length -= lowLenSymbols
	if length < midLenSymbols {
		return price + BitPrice(c.Choice2, 0) + bitTreePrice(c.Mid[posState][:], numMidLenBits, length)
	}
	return price + BitPrice(c.Choice2, 1) + bitTreePrice(c.High[:], numHighLenBits, length-midLenSymbols)
}
