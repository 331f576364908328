// SPDX-License-Identifier: GPL-2.0-only

package lzma2model

import "github.com/woozymasta/fastlzma2/internal/rangecoder"

// bitTreeEncode codes symbol (numBits wide) most-significant-bit first
// through a balanced binary tree of probabilities rooted at probs[1].
func bitTreeEncode(e *rangecoder.Encoder, probs []rangecoder.Prob, numBits int, symbol uint32) {
	m := uint32(1)
	for i := numBits - 1; i >= 0; i-- {
		bit := (symbol >> uint(i)) & 1
		e.EncodeBit(&probs[m], bit)
		m = (m << 1) | bit
	}
}

func bitTreeDecode(d *rangecoder.Decoder, probs []rangecoder.Prob, numBits int) (uint32, error) {
	m := uint32(1)
	for i := 0; i < numBits; i++ {
		bit, err := d.DecodeBit(&probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | bit
	}
	return m - (1 << uint(numBits)), nil
}

func bitTreePrice(probs []rangecoder.Prob, numBits int, symbol uint32) uint32 {
	price := uint32(0)
	m := uint32(1)
	for i := numBits - 1; i >= 0; i-- {
		bit := (symbol >> uint(i)) & 1
		price += BitPrice(probs[m], bit)
		m = (m << 1) | bit
	}
	return price
}

// bitTreeReverseEncode is the bit-tree variant used for values where the
// least-significant bit is coded first (distance alignment/footer bits).
func bitTreeReverseEncode(e *rangecoder.Encoder, probs []rangecoder.Prob, numBits int, symbol uint32) {
	m := uint32(1)
	sym := symbol
	for i := 0; i < numBits; i++ {
		bit := sym & 1
		sym >>= 1
		e.EncodeBit(&probs[m], bit)
		m = (m << 1) | bit
	}
}

func bitTreeReverseDecode(d *rangecoder.Decoder, probs []rangecoder.Prob, numBits int) (uint32, error) {
	m := uint32(1)
	var sym uint32
	for i := 0; i < numBits; i++ {
		bit, err := d.DecodeBit(&probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | bit
		sym |= bit << uint(i)
	}
	return sym, nil
}

func bitTreeReversePrice(probs []rangecoder.Prob, numBits int, symbol uint32) uint32 {
	price := uint32(0)
	m := uint32(1)
	sym := symbol
	for i := 0; i < numBits; i++ {
		bit := sym & 1
		sym >>= 1
		price += BitPrice(probs[m], bit)
		m = (m << 1) | bit
	}
	return price
}
