// SPDX-License-Identifier: GPL-2.0-only

package rangecoder

import "errors"

// ErrCorrupted is returned when the decoder observes a range-coder
// invariant violation (code >= range at a boundary, or the byte source
// runs dry before the declared chunk length is reached).
var ErrCorrupted = errors.New("rangecoder: corrupted stream")

// ByteSource supplies the decoder's input one byte at a time.
type ByteSource interface {
	// ReadByte returns ok=false when no further input is currently
	// available; the decoder treats that as ErrCorrupted, so a whole
	// chunk body has to be available before decoding starts.
	ReadByte() (b byte, ok bool)
}

// Decoder is the inverse of Encoder: it consumes range-coded bits from a
// ByteSource given at least LZMA_REQUIRED_INPUT_MAX bytes of lookahead.
type Decoder struct {
	in   ByteSource
	code uint32
	rng  uint32
}

// RequiredInputMax is the maximum number of bytes the decoder may need to
// buffer ahead of its current position to guarantee forward progress
// (spec §4.5 LZMA_REQUIRED_INPUT_MAX).
const RequiredInputMax = 20

// Init primes the decoder from the mandatory 5-byte window (first byte
// must be the encoder's dummy leading zero; the next four form the
// initial code register, big-endian).
func Init(in ByteSource) (*Decoder, error) {
	d := &Decoder{in: in, rng: 0xFFFFFFFF}
	b, ok := in.ReadByte()
	if !ok {
		return nil, ErrCorrupted
	}
	if b != 0 {
		return nil, ErrCorrupted
	}
	for i := 0; i < 4; i++ {
		c, ok := in.ReadByte()
		if !ok {
			return nil, ErrCorrupted
		}
		d.code = d.code<<8 | uint32(c)
	}
	return d, nil
}

// Reset reinitializes the registers in place without allocating, used when
// a chunk keeps its probability model but starts a fresh range-coded
// payload region (state-reset / keep-state chunk continuations each begin
// a new 5-byte window).
func (d *Decoder) Reset(in ByteSource) error {
	nd, err := Init(in)
	if err != nil {
		return err
	}
	*d = *nd
	return nil
}

func (d *Decoder) normalize() error {
	if d.rng < topValue {
		b, ok := d.in.ReadByte()
		if !ok {
			return ErrCorrupted
		}
		d.rng <<= 8
		d.code = d.code<<8 | uint32(b)
	}
	return nil
}

// DecodeBit inversely consumes one range-coded bit against p.
func (d *Decoder) DecodeBit(p *Prob) (uint32, error) {
	bound := (d.rng >> numBitModelTotalBits) * uint32(*p)
	var bit uint32
	if d.code < bound {
		d.rng = bound
		bit = 0
	} else {
		d.code -= bound
		d.rng -= bound
		bit = 1
	}
	p.update(bit)
	if err := d.normalize(); err != nil {
		return 0, err
	}
	return bit, nil
}

// DecodeDirectBits is the inverse of Encoder.EncodeDirectBits.
func (d *Decoder) DecodeDirectBits(numBits int) (uint32, error) {
	var res uint32
	for i := 0; i < numBits; i++ {
		d.rng >>= 1
		d.code -= d.rng
		bit := uint32(1)
		if int32(d.code) < 0 {
			d.code += d.rng
			bit = 0
		}
		if err := d.normalize(); err != nil {
			return 0, err
		}
		res = (res << 1) | bit
	}
	return res, nil
}

// IsFinished reports whether the decoder has reached a state consistent
// with end-of-payload (code drained to zero); used to validate an
// explicit end marker.
func (d *Decoder) IsFinished() bool {
	return d.code == 0
}
