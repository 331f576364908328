// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

import "github.com/woozymasta/fastlzma2/internal/chunk"

// uncompressedChunkHeaderLen is the on-wire header size of an
// uncompressed chunk (control byte + 2-byte size field), duplicated
// here as an untyped constant since it is part of the wire contract
// CompressBound reasons about, not an internal chunk-package detail.
const uncompressedChunkHeaderLen = 3

// CompressBound returns an upper bound, in bytes, on the compressed
// size of an input of length srcSize: worst case every byte becomes a
// literal inside an uncompressed chunk, plus one header per
// MaxUncompressedChunkSize-sized slice, the frame's properties byte,
// the terminator, and room for an XXH64 trailer.
func CompressBound(srcSize int) int {
	if srcSize <= 0 {
		return 1 + 1 + hashTrailerLen
	}

	numChunks := (srcSize + chunk.MaxUncompressedChunkSize - 1) / chunk.MaxUncompressedChunkSize
	return 1 + srcSize + numChunks*uncompressedChunkHeaderLen + 1 + hashTrailerLen
}
