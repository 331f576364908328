// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

import (
	"github.com/cespare/xxhash/v2"

	"github.com/woozymasta/fastlzma2/internal/chunk"
	"github.com/woozymasta/fastlzma2/internal/lzma2model"
)

// DStream is the push-model counterpart to CStream: DecompressStream is
// fed arbitrarily-sized slices of compressed input and produces
// decompressed output as soon as a full chunk is available, buffering
// partial chunk bytes across calls. Unlike compression, decoding one
// frame is inherently sequential (chunk i's dictionary depends on
// chunk i-1's output), so DStream has no worker pool of its own.
type DStream struct {
	opts DCtxOptions

	propsRead   bool
	dictSizeLog int

	win    *growWindow
	model  *lzma2model.Model
	cd     *chunk.Decoder
	digest *xxhash.Digest

	// in buffers compressed bytes not yet consumed by header or body
	// parsing.
	in []byte

	// delivered is how many bytes of win.buf have already been copied
	// into a caller's OutBuffer. win.buf itself is never truncated,
	// since later chunks may still reference any earlier byte as match
	// context within the frame's dictionary.
	delivered int

	done bool
}

// InitDStream begins a new decompression stream. A nil opts uses
// DefaultDCtxOptions.
func InitDStream(opts *DCtxOptions) *DStream {
	if opts == nil {
		opts = DefaultDCtxOptions()
	}
	win := &growWindow{}
	s := &DStream{
		opts:  *opts,
		win:   win,
		model: lzma2model.NewModel(0, 0, 2),
		cd:    chunk.NewDecoder(win),
	}
	if s.opts.VerifyChecksum {
		s.digest = xxhash.New()
	}
	return s
}

// DecompressStream consumes as much of in as needed to make progress
// and writes decoded bytes into out, in order, until either in is
// exhausted, out is full, or the frame's end-of-stream marker (and
// trailer, if present) has been consumed. It returns done=true once the
// frame is fully decoded; call it again with fresh input for a
// subsequent frame sharing the same DStream only after constructing a
// new one, since a frame's dictionary and hash state are not reusable
// across frames.
func (s *DStream) DecompressStream(out *OutBuffer, in *InBuffer) (done bool, err error) {
	if s.done {
		return true, nil
	}

	s.in = append(s.in, in.Remaining()...)
	in.Pos = len(in.Src)

	for {
		if !s.propsRead {
			if len(s.in) < 1 {
				return false, nil
			}
			dictSizeLog, perr := decodeFrameProperties(s.in[0])
			if perr != nil {
				return false, perr
			}
			if dictSizeLog > s.opts.MaxDictionarySizeLog {
				return false, newCodecError(ErrorParameterOutOfBound, ErrParameterOutOfBound, "frame dictionary size exceeds MaxDictionarySizeLog")
			}
			s.dictSizeLog = dictSizeLog
			s.in = s.in[1:]
			s.propsRead = true
		}

		if s.cd.Done() {
			break
		}

		if s.cd.Header() == (chunk.Header{}) {
			n, ready, herr := s.cd.FeedHeader(s.in)
			s.in = s.in[n:]
			if herr != nil {
				return false, newCodecError(ErrorCorruptionDetected, ErrCorruptFrame, herr.Error())
			}
			if !ready {
				s.delivered += out.write(s.win.buf[s.delivered:])
				return false, nil
			}
			if s.cd.Done() {
				break
			}
		}

		h := s.cd.Header()
		bodyLen := h.UnpackedSize
		if h.Compressed {
			bodyLen = h.PackedSize
		}
		if len(s.in) < bodyLen {
			s.delivered += out.write(s.win.buf[s.delivered:])
			return false, nil
		}
		body := s.in[:bodyLen]
		s.in = s.in[bodyLen:]

		before := s.win.Pos()
		chunk.ApplyReset(s.model, h)
		if h.Compressed {
			if derr := s.cd.DecodeCompressed(s.model, body); derr != nil {
				return false, newCodecError(ErrorCorruptionDetected, ErrCorruptFrame, derr.Error())
			}
		} else {
			if derr := s.cd.DecodeUncompressed(s.model, body); derr != nil {
				return false, newCodecError(ErrorCorruptionDetected, ErrCorruptFrame, derr.Error())
			}
		}
		if s.digest != nil {
			_, _ = s.digest.Write(s.win.buf[before:s.win.Pos()])
		}

		s.cd = chunk.NewDecoder(s.win)
	}

	if s.digest != nil {
		if len(s.in) < hashTrailerLen {
			s.delivered += out.write(s.win.buf[s.delivered:])
			return false, nil
		}
		if !verifyHashTrailer(s.digest, s.in[:hashTrailerLen]) {
			return false, newCodecError(ErrorChecksumWrong, ErrChecksumMismatch, "trailer mismatch")
		}
		s.in = s.in[hashTrailerLen:]
		// The trailer is consumed once; later calls only deliver output.
		s.digest = nil
	}

	s.delivered += out.write(s.win.buf[s.delivered:])
	if s.delivered < len(s.win.buf) {
		return false, nil
	}
	s.done = true
	return true, nil
}

// growWindow is a chunk.Window backed by an append-only slice, used by
// the streaming decoder where (unlike the one-shot path) the total
// decompressed size usually isn't known up front.
type growWindow struct {
	buf []byte
}

func (w *growWindow) Pos() uint32 { return uint32(len(w.buf)) }

func (w *growWindow) ByteAt(distance uint32) byte {
	return w.buf[uint32(len(w.buf))-distance]
}

func (w *growWindow) PutByte(b byte) { w.buf = append(w.buf, b) }
