// SPDX-License-Identifier: GPL-2.0-only

package chunk

import (
	"errors"
	"fmt"

	"github.com/woozymasta/fastlzma2/internal/lzma2model"
	"github.com/woozymasta/fastlzma2/internal/rangecoder"
)

// ErrCorrupted reports a chunk stream that fails a structural check:
// an out-of-range properties byte, a chunk exceeding its declared
// bounds, or a range-coder desync.
var ErrCorrupted = errors.New("chunk: corrupted stream")

// Window is the output dictionary a chunk decoder writes into and reads
// match back-references from. Implementations own the actual ring
// buffer or flat history array; the decoder only ever asks for the
// current write position and byte lookback.
type Window interface {
	// Pos returns the number of bytes written so far.
	Pos() uint32
	// ByteAt returns the byte written distance bytes ago (distance=1
	// means the most recently written byte).
	ByteAt(distance uint32) byte
	// PutByte appends b to the window.
	PutByte(b byte)
}

type decState int

const (
	decHeader decState = iota
	decData
	decFinished
	decError
)

// Decoder is a suspendable LZMA2 chunk decoder: feed it compressed
// bytes via FeedHeader, which parses the chunk header incrementally (so a
// header split across two reads is fine), then decode the chunk body with
// DecodeCompressed or DecodeUncompressed once a full chunk is buffered.
// Header parsing is genuinely incremental; a chunk's body must arrive in
// one Decode call
// since fully suspending mid-range-decode would require persisting the
// decoder's bit-level cursor, and no caller in this module needs that —
// chunks are capped at MaxPackedSize and are always buffered whole by
// the block/stream layer before their body is decoded.
type Decoder struct {
	st decState

	hdrBuf  [headerLenLZMA + propsLen]byte
	hdrLen  int
	hdrWant int

	cur Header

	win Window

	err error
}

// NewDecoder creates a chunk decoder that writes decoded bytes into
// win. The probability model lives outside the decoder (it is shared
// across chunks within a frame) and is passed explicitly to
// DecodeUncompressed/DecodeCompressed; callers apply Header.Reset via
// ApplyReset once a header has been parsed.
func NewDecoder(win Window) *Decoder {
	return &Decoder{st: decHeader, win: win, hdrWant: 1}
}

// Err returns the error that moved the decoder into its terminal error
// state, if any.
func (d *Decoder) Err() error { return d.err }

// Done reports whether the decoder has consumed the LZMA2 end-of-stream
// marker.
func (d *Decoder) Done() bool { return d.st == decFinished }

func (d *Decoder) fail(err error) error {
	d.st = decError
	d.err = err
	return err
}

// FeedHeader appends header bytes (as many as are available) and
// reports whether a full header is now parsed into d.Header(). It
// returns the number of bytes consumed from src.
func (d *Decoder) FeedHeader(src []byte) (consumed int, ready bool, err error) {
	if d.st == decError {
		return 0, false, d.err
	}
	if d.st != decHeader {
		return 0, false, fmt.Errorf("chunk: FeedHeader called out of sequence")
	}

	for consumed < len(src) && d.hdrLen < d.hdrWant {
		d.hdrBuf[d.hdrLen] = src[consumed]
		d.hdrLen++
		consumed++

		if d.hdrLen == 1 {
			end, compressed := PeekKind(d.hdrBuf[0])
			switch {
			case end:
				d.cur = Header{EndOfStream: true}
				d.st = decFinished
				return consumed, true, nil
			case compressed:
				d.hdrWant = headerLenLZMA
			default:
				d.hdrWant = headerLenUncompressed
			}
		}

		if d.hdrLen == headerLenLZMA && d.hdrWant == headerLenLZMA {
			reset := fieldToReset((d.hdrBuf[0] >> ctrlResetShift) & ctrlResetMask)
			if reset >= ResetStateNewProps {
				d.hdrWant = headerLenLZMA + propsLen
			}
		}

		if d.hdrLen == d.hdrWant {
			h, perr := d.parseHeader()
			if perr != nil {
				return consumed, false, d.fail(perr)
			}
			d.cur = h
			d.st = decData
			return consumed, true, nil
		}
	}
	return consumed, false, nil
}

func (d *Decoder) parseHeader() (Header, error) {
	ctrl := d.hdrBuf[0]
	_, compressed := PeekKind(ctrl)

	if !compressed {
		size := int(getBE16(d.hdrBuf[1:3])) + 1
		reset := ResetStateNewPropsDict
		if ctrl == ctrlUncompressedCont {
			reset = ResetNone
		}
		return Header{Compressed: false, Reset: reset, UnpackedSize: size}, nil
	}

	reset := fieldToReset((ctrl >> ctrlResetShift) & ctrlResetMask)
	unpacked := (int(ctrl&ctrlUnpackedHighMask) << 16) | int(getBE16(d.hdrBuf[1:3]))
	unpacked++
	packed := int(getBE16(d.hdrBuf[3:5])) + 1

	h := Header{
		Compressed:   true,
		Reset:        reset,
		UnpackedSize: unpacked,
		PackedSize:   packed,
	}
	if reset >= ResetStateNewProps {
		lc, lp, pb, err := DecodeProps(d.hdrBuf[5])
		if err != nil {
			return Header{}, err
		}
		h.LC, h.LP, h.PB = lc, lp, pb
	}
	return h, nil
}

// Header returns the most recently parsed chunk header.
func (d *Decoder) Header() Header { return d.cur }

// ApplyReset applies h.Reset to model, allocating/reconfiguring its
// tables if new properties were carried. dictReset reports whether the
// caller must also discard its dictionary history before decoding this
// chunk's body.
func ApplyReset(model *lzma2model.Model, h Header) (dictReset bool) {
	switch h.Reset {
	case ResetNone:
	case ResetState:
		model.ResetProbs()
		model.ResetState()
	case ResetStateNewProps:
		model.SetLcLpPb(h.LC, h.LP, h.PB)
		model.ResetProbs()
		model.ResetState()
	case ResetStateNewPropsDict:
		model.SetLcLpPb(h.LC, h.LP, h.PB)
		model.ResetProbs()
		model.ResetState()
		dictReset = true
	}
	return dictReset
}

// DecodeUncompressed copies an uncompressed chunk's payload (exactly
// d.Header().UnpackedSize bytes, already the whole body per this
// decoder's whole-body-per-chunk contract) into the window.
func (d *Decoder) DecodeUncompressed(model *lzma2model.Model, body []byte) error {
	if d.st != decData || d.cur.Compressed {
		return d.fail(fmt.Errorf("chunk: DecodeUncompressed called out of sequence"))
	}
	if len(body) != d.cur.UnpackedSize {
		return d.fail(fmt.Errorf("%w: uncompressed chunk body length %d != declared %d", ErrCorrupted, len(body), d.cur.UnpackedSize))
	}
	for _, b := range body {
		d.win.PutByte(b)
	}
	// An uncompressed chunk always leaves the LZMA state reset for the
	// next compressed chunk, matching the wire format's own invariant.
	model.ResetState()
	d.st = decHeader
	d.hdrLen, d.hdrWant = 0, 1
	return nil
}

// DecodeCompressed decodes an entire compressed chunk body (exactly
// d.Header().PackedSize bytes) through model into the window.
func (d *Decoder) DecodeCompressed(model *lzma2model.Model, body []byte) error {
	if d.st != decData || !d.cur.Compressed {
		return d.fail(fmt.Errorf("chunk: DecodeCompressed called out of sequence"))
	}
	if len(body) != d.cur.PackedSize {
		return d.fail(fmt.Errorf("%w: compressed chunk body length %d != declared %d", ErrCorrupted, len(body), d.cur.PackedSize))
	}

	src := &rangecoder.SliceSource{Data: body}
	rc, err := rangecoder.Init(src)
	if err != nil {
		return d.fail(fmt.Errorf("%w: %v", ErrCorrupted, err))
	}

	start := d.win.Pos()
	target := start + uint32(d.cur.UnpackedSize)
	for d.win.Pos() < target {
		if err := decodeSymbol(rc, model, d.win); err != nil {
			return d.fail(fmt.Errorf("%w: %v", ErrCorrupted, err))
		}
	}
	if !rc.IsFinished() {
		return d.fail(fmt.Errorf("%w: range coder did not finish cleanly", ErrCorrupted))
	}

	d.st = decHeader
	d.hdrLen, d.hdrWant = 0, 1
	return nil
}
