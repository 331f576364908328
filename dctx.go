// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

import (
	"github.com/cespare/xxhash/v2"

	"github.com/woozymasta/fastlzma2/internal/chunk"
	"github.com/woozymasta/fastlzma2/internal/lzma2model"
)

// DCtx decompresses one or more frames produced by CCtx. A single DCtx
// is not safe for concurrent use, mirroring CCtx; parallelism on the
// decode side comes from running independent DCtx values over
// independent frames, not from decoding one frame's chunks
// concurrently — chunk i's dictionary depends on chunk i-1's output.
type DCtx struct {
	opts DCtxOptions
}

// NewDCtx creates a decompression context. A nil opts uses
// DefaultDCtxOptions.
func NewDCtx(opts *DCtxOptions) *DCtx {
	if opts == nil {
		opts = DefaultDCtxOptions()
	}
	return &DCtx{opts: *opts}
}

// SetParameter updates a single decompression option after construction.
func (d *DCtx) SetParameter(verifyChecksum bool) {
	d.opts.VerifyChecksum = verifyChecksum
}

// DecompressDCtx decompresses a complete frame in src into dst, which
// must be exactly large enough to hold the decompressed payload (the
// caller typically learns that size up front via FindDecompressedSize,
// matching spec §4.2's contract that decompression never resizes the
// destination). It returns the number of bytes written.
func (d *DCtx) DecompressDCtx(dst, src []byte) (int, error) {
	n, _, err := decodeFrame(dst, src, d.opts)
	return n, err
}

// Decompress is the package-level convenience wrapper around a
// one-shot DCtx, mirroring Compress.
func Decompress(dst, src []byte) (int, error) {
	return NewDCtx(nil).DecompressDCtx(dst, src)
}

// decodeFrame runs the whole frame decode loop shared by the one-shot
// and streaming entry points: properties byte, then every chunk header
// and body in sequence written into a single continuously growing
// window (block boundaries on the encode side are invisible here — the
// overlap bytes baked into each block's dictionary by the encoder make
// a linear decode of the concatenated chunk stream produce the same
// bytes a sequential encoder would have produced). consumed reports how
// many bytes of src were read, including the trailing hash when it is
// verified; with VerifyChecksum off the trailer is neither read nor
// counted.
func decodeFrame(dst, src []byte, opts DCtxOptions) (written, consumed int, err error) {
	if len(src) < 1 {
		return 0, 0, newCodecError(ErrorSrcSizeWrong, ErrEmptyInput, "empty frame")
	}

	dictSizeLog, perr := decodeFrameProperties(src[0])
	if perr != nil {
		return 0, 0, perr
	}
	if dictSizeLog > opts.MaxDictionarySizeLog {
		return 0, 0, newCodecError(ErrorParameterOutOfBound, ErrParameterOutOfBound, "frame dictionary size exceeds MaxDictionarySizeLog")
	}

	win := &outWindow{dst: dst}
	pos := 1

	var digest *xxhash.Digest
	if opts.VerifyChecksum {
		digest = xxhash.New()
	}

	model := lzma2model.NewModel(0, 0, 2)
	cd := chunk.NewDecoder(win)

	for {
		n, ready, herr := cd.FeedHeader(src[pos:])
		pos += n
		if herr != nil {
			return 0, 0, newCodecError(ErrorCorruptionDetected, ErrCorruptFrame, herr.Error())
		}
		if !ready {
			return 0, 0, newCodecError(ErrorSrcSizeWrong, ErrInputOverrun, "truncated chunk header")
		}
		if cd.Done() {
			break
		}

		h := cd.Header()
		bodyLen := h.UnpackedSize
		if h.Compressed {
			bodyLen = h.PackedSize
		}
		if pos+bodyLen > len(src) {
			return 0, 0, newCodecError(ErrorSrcSizeWrong, ErrInputOverrun, "truncated chunk body")
		}
		body := src[pos : pos+bodyLen]
		pos += bodyLen

		if int(win.Pos())+h.UnpackedSize > len(dst) {
			return 0, 0, newCodecError(ErrorDstSizeTooSmall, ErrOutputOverrun, "")
		}

		before := win.Pos()
		chunk.ApplyReset(model, h)
		if h.Compressed {
			if err := cd.DecodeCompressed(model, body); err != nil {
				return 0, 0, newCodecError(ErrorCorruptionDetected, ErrCorruptFrame, err.Error())
			}
		} else {
			if err := cd.DecodeUncompressed(model, body); err != nil {
				return 0, 0, newCodecError(ErrorCorruptionDetected, ErrCorruptFrame, err.Error())
			}
		}
		if digest != nil {
			_, _ = digest.Write(dst[before:win.Pos()])
		}
	}

	written = int(win.Pos())

	if digest != nil {
		if pos+hashTrailerLen > len(src) {
			return 0, 0, newCodecError(ErrorSrcSizeWrong, ErrInputOverrun, "missing hash trailer")
		}
		if !verifyHashTrailer(digest, src[pos:pos+hashTrailerLen]) {
			return 0, 0, newCodecError(ErrorChecksumWrong, ErrChecksumMismatch, "trailer mismatch")
		}
		pos += hashTrailerLen
	}

	return written, pos, nil
}

// outWindow implements chunk.Window directly over a caller-supplied
// destination slice, so one-shot decode never copies the payload a
// second time after the range coder produces it.
type outWindow struct {
	dst []byte
	n   uint32
}

func (w *outWindow) Pos() uint32 { return w.n }

func (w *outWindow) ByteAt(distance uint32) byte {
	return w.dst[w.n-distance]
}

func (w *outWindow) PutByte(b byte) {
	w.dst[w.n] = b
	w.n++
}
