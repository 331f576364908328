// SPDX-License-Identifier: GPL-2.0-only

package lzma2model

import "github.com/woozymasta/fastlzma2/internal/rangecoder"

// Price tables approximate -log2(p) in a fixed-point scale, built once at
// package init following the standard LZMA construction: square the
// probability kNumBitPriceShiftBits times, tracking how many times the
// running value needed renormalizing back under 2^16 — that count is a
// fixed-point estimate of bit length, hence of -log2.
const (
	numMoveReducingBits  = 4
	numBitPriceShiftBits = 4
	priceTableSize       = rangecoder.BitModelTotal >> numMoveReducingBits
)

var probPrices [priceTableSize]uint32

func init() {
	for i := uint32(1 << (numMoveReducingBits - 1)); i < rangecoder.BitModelTotal; i += 1 << numMoveReducingBits {
		w := i
		bitCount := uint32(0)
		for j := 0; j < numBitPriceShiftBits; j++ {
			w = w * w
			bitCount <<= 1
			for w >= 1<<16 {
				w >>= 1
				bitCount++
			}
		}
		probPrices[i>>numMoveReducingBits] = (11 << numBitPriceShiftBits) - 15 - bitCount
	}
}

// BitPrice returns the approximate price, in 1/16-bit units, of coding bit
// against probability p.
func BitPrice(p rangecoder.Prob, bit uint32) uint32 {
	v := uint32(p)
	if bit != 0 {
		v = rangecoder.BitModelTotal - v
	}
	return probPrices[v>>numMoveReducingBits]
}

// DirectBitsPrice returns the price of n direct (unmodeled, 50/50) bits.
func DirectBitsPrice(n int) uint32 {
	return uint32(n) << numBitPriceShiftBits
}
