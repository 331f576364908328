// SPDX-License-Identifier: GPL-2.0-only

package lzma2model

import "github.com/woozymasta/fastlzma2/internal/rangecoder"

// NumPosBitsMax bounds pb, the number of low position bits folded into
// the isMatch/isRepG0Long context (spec §4.2: lc+lp ≤ 4, pb ≤ 4).
const NumPosBitsMax = 4

// Model is the full LZMA probability model for one chunk's worth of
// coding: the 12-state machine, the four rep distances, and every
// probability table the literal/length/distance coders consult. It
// carries no notion of a dictionary or chunk framing — callers drive it
// one symbol at a time.
type Model struct {
	LC, LP, PB int

	State State
	Rep   [4]uint32

	IsMatch     []rangecoder.Prob
	IsRep       [NumStates]rangecoder.Prob
	IsRepG0     [NumStates]rangecoder.Prob
	IsRepG1     [NumStates]rangecoder.Prob
	IsRepG2     [NumStates]rangecoder.Prob
	IsRepG0Long []rangecoder.Prob

	Literal []rangecoder.Prob

	LenCoder    *LenCoder
	RepLenCoder *LenCoder
	DistCoder   *DistCoder
}

// NewModel allocates a model for the given lc/lp/pb literal-context and
// position-bit parameters.
func NewModel(lc, lp, pb int) *Model {
	numPosStates := 1 << uint(pb)
	m := &Model{
		LC: lc, LP: lp, PB: pb,
		IsMatch:     make([]rangecoder.Prob, NumStates*numPosStates),
		IsRepG0Long: make([]rangecoder.Prob, NumStates*numPosStates),
		Literal:     make([]rangecoder.Prob, (1<<uint(lc+lp))*literalProbsPerState),
		LenCoder:    NewLenCoder(numPosStates),
		RepLenCoder: NewLenCoder(numPosStates),
		DistCoder:   NewDistCoder(),
	}
	m.Reset()
	return m
}

// numPosStates returns 1<<pb, the posState mask width.
func (m *Model) numPosStates() int { return 1 << uint(m.PB) }

// Reset reinitializes every probability table, the state machine, and
// the rep-distance cache. This is the LZMA2 "reset state + new props"
// chunk-control path.
func (m *Model) Reset() {
	m.State = 0
	m.Rep = [4]uint32{}
	m.ResetProbs()
}

// ResetProbs reinitializes every probability without touching state or
// rep distances. This is the LZMA2 "reset state only" chunk-control
// path, used when properties are unchanged but a new dictionary reset
// boundary requires a fresh model.
func (m *Model) ResetProbs() {
	rangecoder.ResetProbs(m.IsMatch)
	rangecoder.ResetProbs(m.IsRep[:])
	rangecoder.ResetProbs(m.IsRepG0[:])
	rangecoder.ResetProbs(m.IsRepG1[:])
	rangecoder.ResetProbs(m.IsRepG2[:])
	rangecoder.ResetProbs(m.IsRepG0Long)
	rangecoder.ResetProbs(m.Literal)
	m.LenCoder.Reset()
	m.RepLenCoder.Reset()
	m.DistCoder.Reset()
}

// ResetState reinitializes the state machine and rep distances but
// leaves every probability table untouched. LZMA2's "no reset" chunk
// control path uses neither this nor ResetProbs; every resetting chunk
// calls this, and it also runs after an uncompressed chunk.
func (m *Model) ResetState() {
	m.State = 0
	m.Rep = [4]uint32{}
}

// SetLcLpPb reconfigures lc/lp/pb, reallocating any table whose size
// depends on them. Called when a chunk header carries new properties.
func (m *Model) SetLcLpPb(lc, lp, pb int) {
	if pb != m.PB {
		numPosStates := 1 << uint(pb)
		m.IsMatch = make([]rangecoder.Prob, NumStates*numPosStates)
		m.IsRepG0Long = make([]rangecoder.Prob, NumStates*numPosStates)
		m.LenCoder = NewLenCoder(numPosStates)
		m.RepLenCoder = NewLenCoder(numPosStates)
	}
	if lc != m.LC || lp != m.LP {
		m.Literal = make([]rangecoder.Prob, (1<<uint(lc+lp))*literalProbsPerState)
	}
	m.LC, m.LP, m.PB = lc, lp, pb
}

// PosState extracts the low pb bits of a dictionary position.
func (m *Model) PosState(position uint32) uint32 {
	return position & (uint32(m.numPosStates()) - 1)
}

// IsMatchIdx returns the IsMatch/IsRepG0Long flat-array index for the
// current state and posState.
func (m *Model) IsMatchIdx(posState uint32) int {
	return int(m.State)*m.numPosStates() + int(posState)
}
