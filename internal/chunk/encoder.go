// SPDX-License-Identifier: GPL-2.0-only

package chunk

import (
	"github.com/woozymasta/fastlzma2/internal/lzma2model"
	"github.com/woozymasta/fastlzma2/internal/rangecoder"
)

// encodeLiteral codes win[pos] as a literal. win must already hold at
// least pos+1 bytes.
func encodeLiteral(e *rangecoder.Encoder, m *lzma2model.Model, win []byte, pos uint32) {
	posState := m.PosState(pos)
	isMatchIdx := m.IsMatchIdx(posState)
	e.EncodeBit(&m.IsMatch[isMatchIdx], 0)

	var prevByte, matchByte byte
	if pos > 0 {
		prevByte = win[pos-1]
	}
	if m.State.IsAfterMatch() {
		dist := m.Rep[0] + 1
		if dist <= pos {
			matchByte = win[pos-dist]
		}
	}
	m.EncodeLiteral(e, pos, prevByte, win[pos], matchByte)
}

// encodeMatch codes a length/distance pair at pos as one of the four
// rep-matches or (for length 1) a short rep when dist already equals
// that rep distance, and as a new match otherwise; it makes no price
// comparison. dist is the raw backward distance (1 means the immediately
// preceding byte).
func encodeMatch(e *rangecoder.Encoder, m *lzma2model.Model, pos uint32, length, dist uint32) {
	posState := m.PosState(pos)
	isMatchIdx := m.IsMatchIdx(posState)
	e.EncodeBit(&m.IsMatch[isMatchIdx], 1)

	repIdx := -1
	for i, r := range m.Rep {
		if r+1 == dist {
			repIdx = i
			break
		}
	}

	if repIdx < 0 {
		e.EncodeBit(&m.IsRep[m.State], 0)
		m.LenCoder.Encode(e, length-lzma2model.MatchMinLen, posState)
		lenState := lzma2model.LenToPosState(length - lzma2model.MatchMinLen)
		m.DistCoder.Encode(e, dist-1, lenState)
		m.Rep[3], m.Rep[2], m.Rep[1], m.Rep[0] = m.Rep[2], m.Rep[1], m.Rep[0], dist-1
		m.State = m.State.AfterMatch()
		return
	}

	e.EncodeBit(&m.IsRep[m.State], 1)
	if repIdx == 0 {
		e.EncodeBit(&m.IsRepG0[m.State], 0)
		if length == 1 {
			e.EncodeBit(&m.IsRepG0Long[isMatchIdx], 0)
			m.State = m.State.AfterShortRep()
			return
		}
		e.EncodeBit(&m.IsRepG0Long[isMatchIdx], 1)
	} else {
		e.EncodeBit(&m.IsRepG0[m.State], 1)
		switch repIdx {
		case 1:
			e.EncodeBit(&m.IsRepG1[m.State], 0)
		case 2:
			e.EncodeBit(&m.IsRepG1[m.State], 1)
			e.EncodeBit(&m.IsRepG2[m.State], 0)
		default:
			e.EncodeBit(&m.IsRepG1[m.State], 1)
			e.EncodeBit(&m.IsRepG2[m.State], 1)
		}
		d := m.Rep[repIdx]
		for i := repIdx; i > 0; i-- {
			m.Rep[i] = m.Rep[i-1]
		}
		m.Rep[0] = d
	}

	m.RepLenCoder.Encode(e, length-lzma2model.MatchMinLen, posState)
	m.State = m.State.AfterRep()
}

// EncodeChunkBody codes win[pos:pos+unpackedSize] as one LZMA chunk's
// worth of symbols (literals/matches produced by ops) into a range
// coder, returning the compressed bytes. The caller is responsible for
// splitting the op stream so it never crosses a chunk's
// MaxUnpackedSize/MaxPackedSize limits.
func EncodeChunkBody(m *lzma2model.Model, win []byte, start uint32, ops []Op) []byte {
	sink := &rangecoder.SliceSink{Data: make([]byte, 0, 4096)}
	e := rangecoder.NewEncoder(sink)

	pos := start
	for _, op := range ops {
		if op.Len <= 1 && op.Dist == 0 {
			encodeLiteral(e, m, win, pos)
			pos++
			continue
		}
		encodeMatch(e, m, pos, op.Len, op.Dist)
		pos += op.Len
	}
	e.Flush()
	return sink.Data
}

// Op is one parser decision: a single literal byte (Len<=1, Dist==0) or
// a length/distance match.
type Op struct {
	Len  uint32
	Dist uint32
}
