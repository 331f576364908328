// SPDX-License-Identifier: GPL-2.0-only

/*
Package fastlzma2 implements a block-parallel LZMA2 codec: a radix
match finder and adaptive range coder underneath standard LZMA2 chunk
framing. Input is cut into dictionary-sized blocks joined by an overlap
region and compressed one block after another; within a block, worker
slices are compressed in parallel over one shared match index. Decoding
reproduces a single continuous dictionary.

# Compress

Options may be nil (the struct-tag defaults: level 6 with a search
depth of 254). Level 1-12 selects a preset from
the compression-level table:

	out := make([]byte, fastlzma2.CompressBound(len(data)))
	n, err := fastlzma2.Compress(out, data)
	n, err := fastlzma2.CompressLevel(out, data, 9)

For destinations of unknown size, or to pipe output directly to a
writer, use the callback form:

	err := fastlzma2.CompressToFn(fastlzma2.NewCCtx(nil, nil), data, func(p []byte) error {
		_, err := w.Write(p)
		return err
	})

# Decompress

The destination must be exactly the decompressed size, typically learned
from FindDecompressedSize before allocating it:

	size, ok := fastlzma2.FindDecompressedSize(frame)
	out := make([]byte, size)
	n, err := fastlzma2.Decompress(out, frame)

# Streaming

CStream/DStream implement the push-model API for callers that produce or
consume data in chunks rather than holding a whole buffer at once.
*/
package fastlzma2
