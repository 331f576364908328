// SPDX-License-Identifier: GPL-2.0-only

package lzma2model

import (
	"math/bits"

	"github.com/woozymasta/fastlzma2/internal/rangecoder"
)

const (
	numPosSlotBits = 6

	// NumLenToPosStates is the number of length buckets (capped at 4)
	// that select an independent posSlot probability context.
	NumLenToPosStates = 4

	// NumAlignBits is the width of the low, direct-coded alignment bits
	// shared by every distance slot beyond EndPosModelIndex.
	NumAlignBits = 4

	// StartPosModelIndex is the first posSlot whose footer bits are
	// still coded through probability trees rather than direct bits.
	StartPosModelIndex = 4

	// EndPosModelIndex is the first posSlot whose footer is coded as
	// direct bits plus a 4-bit modeled alignment suffix.
	EndPosModelIndex = 14

	// NumFullDistances is the number of distances below which the
	// posSlot/footer split still uses modeled (non-direct) bits only.
	NumFullDistances = 1 << (EndPosModelIndex >> 1)
)

// PosSlot maps a zero-based distance to its 6-bit slot: for dist<4 the
// slot equals the distance; otherwise it is twice the index of the
// highest set bit, plus the bit below it.
func PosSlot(dist uint32) uint32 {
	if dist < 4 {
		return dist
	}
	n := uint32(bits.Len32(dist)) - 1
	return (n << 1) | ((dist >> (n - 1)) & 1)
}

// LenToPosState buckets a 0-based length into one of NumLenToPosStates
// contexts used to select the posSlot probability tree.
func LenToPosState(length uint32) uint32 {
	if length < NumLenToPosStates {
		return length
	}
	return NumLenToPosStates - 1
}

// footerBits returns how many low bits of the distance remain to be
// coded once the slot itself has been coded.
func footerBits(slot uint32) int {
	return int(slot>>1) - 1
}

// DistCoder codes match distances as a 6-bit slot (context-selected by
// the bucketed match length) followed by slot-dependent footer bits:
// modeled bit-tree footers for small slots, direct bits plus a shared
// 4-bit modeled alignment suffix for large ones.
//
// The real LZMA SDK packs the mid-range footer probabilities
// (slots StartPosModelIndex..EndPosModelIndex-1) into one overlapping
// flat array addressed via a pointer-offset trick. This instead gives
// each such slot its own independent reverse-tree array; it costs a
// little memory for no behavioral difference since only self-consistency
// between this package's own encoder and decoder is required.
type DistCoder struct {
	PosSlot    [NumLenToPosStates][1 << numPosSlotBits]rangecoder.Prob
	SpecPos    [][]rangecoder.Prob
	AlignProbs [1 << NumAlignBits]rangecoder.Prob
}

// NewDistCoder allocates a distance coder with its SpecPos footer trees
// sized for every modeled slot between StartPosModelIndex and
// EndPosModelIndex.
func NewDistCoder() *DistCoder {
	c := &DistCoder{
		SpecPos: make([][]rangecoder.Prob, EndPosModelIndex-StartPosModelIndex),
	}
	for slot := StartPosModelIndex; slot < EndPosModelIndex; slot++ {
		c.SpecPos[slot-StartPosModelIndex] = rangecoder.NewProbs(1 << uint(footerBits(uint32(slot))))
	}
	c.Reset()
	return c
}

// Reset reinitializes every probability to its neutral value.
func (c *DistCoder) Reset() {
	for i := range c.PosSlot {
		rangecoder.ResetProbs(c.PosSlot[i][:])
	}
	for i := range c.SpecPos {
		rangecoder.ResetProbs(c.SpecPos[i])
	}
	rangecoder.ResetProbs(c.AlignProbs[:])
}

// Encode codes a zero-based distance given the bucketed length state.
func (c *DistCoder) Encode(e *rangecoder.Encoder, dist uint32, lenState uint32) {
	slot := PosSlot(dist)
	bitTreeEncode(e, c.PosSlot[lenState][:], numPosSlotBits, slot)

	if slot < StartPosModelIndex {
		return
	}

	fb := footerBits(slot)
	base := (2 | (slot & 1)) << uint(fb)
	footer := dist - base

	if slot < EndPosModelIndex {
		bitTreeReverseEncode(e, c.SpecPos[slot-StartPosModelIndex], fb, footer)
		return
	}

	e.EncodeDirectBits(footer>>NumAlignBits, fb-NumAlignBits)
	bitTreeReverseEncode(e, c.AlignProbs[:], NumAlignBits, footer&((1<<NumAlignBits)-1))
}

// Decode returns a zero-based distance given the bucketed length state.
func (c *DistCoder) Decode(d *rangecoder.Decoder, lenState uint32) (uint32, error) {
	slot, err := bitTreeDecode(d, c.PosSlot[lenState][:], numPosSlotBits)
	if err != nil {
		return 0, err
	}
	if slot < StartPosModelIndex {
		return slot, nil
	}

	fb := footerBits(slot)
	base := (2 | (slot & 1)) << uint(fb)

	if slot < EndPosModelIndex {
		footer, err := bitTreeReverseDecode(d, c.SpecPos[slot-StartPosModelIndex], fb)
		if err != nil {
			return 0, err
		}
		return base + footer, nil
	}

	direct, err := d.DecodeDirectBits(fb - NumAlignBits)
	if err != nil {
		return 0, err
	}
	align, err := bitTreeReverseDecode(d, c.AlignProbs[:], NumAlignBits)
	if err != nil {
		return 0, err
	}
	return base + (direct << NumAlignBits) + align, nil
}

// Price returns the coding price of a zero-based distance.
func (c *DistCoder) Price(dist uint32, lenState uint32) uint32 {
	slot := PosSlot(dist)
	price := bitTreePrice(c.PosSlot[lenState][:], numPosSlotBits, slot)

	if slot < StartPosModelIndex {
		return price
	}

	fb := footerBits(slot)
	base := (2 | (slot & 1)) << uint(fb)
	footer := dist - base

	if slot < EndPosModelIndex {
		return price + bitTreeReversePrice(c.SpecPos[slot-StartPosModelIndex], fb, footer)
	}

	price += DirectBitsPrice(fb - NumAlignBits)
	price += bitTreeReversePrice(c.AlignProbs[:], NumAlignBits, footer&((1<<NumAlignBits)-1))
	return price
}
