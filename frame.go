// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/woozymasta/fastlzma2/internal/chunk"
)

const (
	// minDictSizeLog/maxDictSizeLog bound the properties-byte encoded
	// dictionary size class (spec §6: "valid range 0..19" added to the
	// implicit log2(D)-11 base, i.e. D from 2^11 to 2^30).
	minDictSizeLog = 11
	maxDictSizeLog = 30

	frameTerminator = 0x00

	// hashTrailerLen is the XXH64 trailer's on-wire size.
	hashTrailerLen = 8
)

// encodeFrameProperties packs a dictionary-size log2 into the frame's
// leading properties byte.
func encodeFrameProperties(dictSizeLog int) (byte, error) {
	if dictSizeLog < minDictSizeLog || dictSizeLog > maxDictSizeLog {
		return 0, newCodecError(ErrorParameterOutOfBound, ErrParameterOutOfBound, "dictionarySizeLog")
	}
	return byte(dictSizeLog - minDictSizeLog), nil
}

// decodeFrameProperties unpacks the frame's leading properties byte
// into a dictionary-size log2.
func decodeFrameProperties(b byte) (dictSizeLog int, err error) {
	if int(b) > maxDictSizeLog-minDictSizeLog {
		return 0, newCodecError(ErrorCorruptionDetected, ErrCorruptFrame, "properties byte out of range")
	}
	return minDictSizeLog + int(b), nil
}

// appendHashTrailer appends digest's little-endian XXH64 sum to dst.
func appendHashTrailer(dst []byte, digest uint64) []byte {
	var b [hashTrailerLen]byte
	binary.LittleEndian.PutUint64(b[:], digest)
	return append(dst, b[:]...)
}

// verifyHashTrailer reports whether trailer (exactly hashTrailerLen
// bytes) matches the running digest h accumulated over the
// decompressed payload.
func verifyHashTrailer(h *xxhash.Digest, trailer []byte) bool {
	if len(trailer) != hashTrailerLen {
		return false
	}
	return binary.LittleEndian.Uint64(trailer) == h.Sum64()
}

// FindDecompressedSize parses a frame's properties byte and every
// chunk header (without range-decoding any payload) to sum declared
// unpacked sizes. It returns ok=false on any structural error or if
// the frame ends before a terminator chunk.
func FindDecompressedSize(frame []byte) (size uint64, ok bool) {
	if len(frame) < 2 {
		return 0, false
	}
	if _, err := decodeFrameProperties(frame[0]); err != nil {
		return 0, false
	}

	pos := 1
	d := chunk.NewDecoder(nil)
	for {
		consumed, ready, err := d.FeedHeader(frame[pos:])
		pos += consumed
		if err != nil {
			return 0, false
		}
		if !ready {
			return 0, false
		}
		if d.Done() {
			return size, true
		}
		h := d.Header()
		size += uint64(h.UnpackedSize)

		bodyLen := h.UnpackedSize
		if h.Compressed {
			bodyLen = h.PackedSize
		}
		if pos+bodyLen > len(frame) {
			return 0, false
		}
		pos += bodyLen

		// Reset the decoder's header-parse state for the next chunk;
		// DecodeCompressed/DecodeUncompressed normally do this, but FindDecompressedSize
		// never calls them since it only needs declared sizes.
		d = chunk.NewDecoder(nil)
	}
}
