// SPDX-License-Identifier: GPL-2.0-only

package chunk

import (
	"errors"

	"github.com/woozymasta/fastlzma2/internal/lzma2model"
	"github.com/woozymasta/fastlzma2/internal/rangecoder"
)

// ErrDistanceTooFar reports a decoded match distance that reaches
// before the start of the window, which can only mean stream
// corruption (a genuine encoder never emits such a distance).
var ErrDistanceTooFar = errors.New("chunk: match distance exceeds window")

// decodeSymbol decodes exactly one LZMA operation (a literal, a new
// match, one of the four rep-matches, or a short rep) from rc into win,
// updating model's state and rep-distance cache.
func decodeSymbol(rc *rangecoder.Decoder, m *lzma2model.Model, win Window) error {
	posState := m.PosState(win.Pos())
	isMatchIdx := m.IsMatchIdx(posState)

	isMatch, err := rc.DecodeBit(&m.IsMatch[isMatchIdx])
	if err != nil {
		return err
	}

	prevByte := byte(0)
	if win.Pos() > 0 {
		prevByte = win.ByteAt(1)
	}

	if isMatch == 0 {
		matchByte := byte(0)
		if m.State.IsAfterMatch() {
			dist := m.Rep[0] + 1
			if dist > win.Pos() {
				return ErrDistanceTooFar
			}
			matchByte = win.ByteAt(dist)
		}
		b, err := m.DecodeLiteral(rc, win.Pos(), prevByte, matchByte)
		if err != nil {
			return err
		}
		win.PutByte(b)
		return nil
	}

	isRep, err := rc.DecodeBit(&m.IsRep[m.State])
	if err != nil {
		return err
	}

	var length uint32
	if isRep == 0 {
		l, err := m.LenCoder.Decode(rc, posState)
		if err != nil {
			return err
		}
		length = l + lzma2model.MatchMinLen

		lenState := lzma2model.LenToPosState(l)
		dist, err := m.DistCoder.Decode(rc, lenState)
		if err != nil {
			return err
		}
		if dist == 0xFFFFFFFF {
			return errEndMarker
		}

		m.Rep[3], m.Rep[2], m.Rep[1], m.Rep[0] = m.Rep[2], m.Rep[1], m.Rep[0], dist
		m.State = m.State.AfterMatch()
	} else {
		isRepG0, err := rc.DecodeBit(&m.IsRepG0[m.State])
		if err != nil {
			return err
		}
		if isRepG0 == 0 {
			isRepG0Long, err := rc.DecodeBit(&m.IsRepG0Long[isMatchIdx])
			if err != nil {
				return err
			}
			if isRepG0Long == 0 {
				dist := m.Rep[0] + 1
				if dist > win.Pos() {
					return ErrDistanceTooFar
				}
				win.PutByte(win.ByteAt(dist))
				m.State = m.State.AfterShortRep()
				return nil
			}
		} else {
			var idx int
			isRepG1, err := rc.DecodeBit(&m.IsRepG1[m.State])
			if err != nil {
				return err
			}
			if isRepG1 == 0 {
				idx = 1
			} else {
				isRepG2, err := rc.DecodeBit(&m.IsRepG2[m.State])
				if err != nil {
					return err
				}
				if isRepG2 == 0 {
					idx = 2
				} else {
					idx = 3
				}
			}
			dist := m.Rep[idx]
			for i := idx; i > 0; i-- {
				m.Rep[i] = m.Rep[i-1]
			}
			m.Rep[0] = dist
		}

		l, err := m.RepLenCoder.Decode(rc, posState)
		if err != nil {
			return err
		}
		length = l + lzma2model.MatchMinLen
		m.State = m.State.AfterRep()
	}

	dist := m.Rep[0] + 1
	if dist > win.Pos() {
		return ErrDistanceTooFar
	}
	for i := uint32(0); i < length; i++ {
		win.PutByte(win.ByteAt(dist))
	}
	return nil
}

var errEndMarker = errors.New("chunk: unexpected LZMA end-of-stream marker inside a chunk body")
