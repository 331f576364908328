// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

import (
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/fastlzma2/internal/chunk"
	"github.com/woozymasta/fastlzma2/internal/lzma2model"
	"github.com/woozymasta/fastlzma2/internal/rmf"
)

// encodeBlock compresses one dictionary-sized block (overlap bytes from
// the previous block already prepended to win, blockOff marking where
// the new block's own bytes begin) into a sequence of LZMA2 chunks.
//
// Per spec, the parallelism axis here is *within* this one block: a
// single RMF index is built once over the whole of win (overlap plus
// new bytes), then win[blockOff:] is cut into contiguous worker slices
// that query that same index read-only and concurrently. No slice's
// FindMatches call can return a candidate inside another slice's still-
// unparsed bytes (FindMatches only ever returns candidates strictly
// before the query position), so slices never need to coordinate with
// each other once the index is built.
func encodeBlock(win []byte, blockOff int, opts CCtxOptions) []byte {
	// ChainLog scales how many extra chain links HighCompression is
	// willing to walk past SearchDepth's base budget; both only matter
	// when a normal match search runs. StrategyFast still searches every
	// position; it only turns off the parser's lazy lookahead below.
	depth := 0
	if opts.HighCompression {
		depth = opts.ChainLog / 4
		if depth < 1 {
			depth = 1
		}
	}
	finder := rmf.NewMatcher(win, rmf.Config{
		MaxChainLength:   opts.SearchDepth,
		NiceLength:       opts.FastLength,
		Depth:            depth,
		DivideAndConquer: opts.DivideAndConquer,
	})
	// Build indexes the whole block in one two-pass sweep before any
	// slice starts parsing, including the bytes each later slice will
	// itself parse — FindMatches rejects any candidate at or past its
	// query position regardless, so this costs nothing in correctness
	// and turns finder into a read-only structure every slice below can
	// safely share.
	finder.Build(0, len(win))

	parserCfg := chunk.ParserConfig{NiceLen: opts.FastLength, LazyLookahead: 1}
	if opts.Strategy == StrategyFast {
		parserCfg.LazyLookahead = 0
	}

	workers := opts.NbThreads
	if workers < 1 {
		workers = 1
	}
	slices := sliceBlock(blockOff, len(win), workers)
	if len(slices) == 0 {
		return nil
	}

	results := make([][]byte, len(slices))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, sl := range slices {
		i, sl := i, sl
		// needDictReset requests an explicit dictionary discard on the
		// very first slice of the very first top-level block, but only
		// takes effect if that slice's own first chunk ends up
		// uncompressed — the wire format gives compressed chunks no
		// dictionary-reset bit at all (see internal/chunk.resetToField),
		// so a compressed first chunk relies on the decoder's window
		// already being correctly seeded (empty for block 0) rather
		// than on any header flag.
		needDictReset := blockOff == 0 && i == 0
		g.Go(func() error {
			model := lzma2model.NewModel(opts.LiteralCtxBits, opts.LiteralPosBits, opts.PosBits)
			results[i] = encodeSlice(model, finder, win, sl.Start, sl.End, parserCfg, opts, needDictReset)
			return nil
		})
	}
	_ = g.Wait()

	var out []byte
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// blockSlice is one worker's contiguous share of a block's own new bytes
// (win[Start:End), always within [blockOff, len(win))).
type blockSlice struct {
	Start, End int
}

// sliceBlock partitions [lo, hi) into up to workers contiguous,
// roughly-equal pieces. Every LZMA2 chunk inside a piece still respects
// chunk.MaxUnpackedSize on its own (enforced by encodeSlice), so slice
// boundaries need not align to chunk boundaries for correctness.
func sliceBlock(lo, hi, workers int) []blockSlice {
	if workers < 1 {
		workers = 1
	}
	total := hi - lo
	if total <= 0 {
		return nil
	}
	if workers > total {
		workers = total
	}
	size := (total + workers - 1) / workers

	var slices []blockSlice
	for start := lo; start < hi; start += size {
		end := start + size
		if end > hi {
			end = hi
		}
		slices = append(slices, blockSlice{Start: start, End: end})
	}
	return slices
}

// encodeSlice runs the chunk-parsing loop over win[start:end], emitting
// a self-contained run of LZMA2 chunk headers + bodies. Every slice
// carries its own Model (so slices coded concurrently never share
// mutable probability state) and therefore always needs its own
// ResetStateNewProps on its first compressed chunk, unlike a single
// whole-block model which would only need that once.
func encodeSlice(model *lzma2model.Model, finder *rmf.Matcher, win []byte, start, end int, parserCfg chunk.ParserConfig, opts CCtxOptions, needDictReset bool) []byte {
	var out []byte
	needProps := true
	pos := start
	for pos < end {
		unpackedLen := end - pos
		if unpackedLen > chunk.MaxUnpackedSize {
			unpackedLen = chunk.MaxUnpackedSize
		}
		chunkEnd := pos + unpackedLen

		if needProps {
			// The decoder starts a ResetStateNewProps chunk from fresh
			// probabilities and state, so the encoder does the same.
			model.ResetProbs()
			model.ResetState()
		}
		body := chunk.ParseAndEncode(model, finder, win, uint32(pos), uint32(chunkEnd), parserCfg)

		// A compressed header is up to 3 bytes longer than a raw one, so
		// the raw form is kept whenever it is no larger.
		if len(body)+3 > unpackedLen || len(body) > chunk.MaxPackedSize {
			// Raw chunks carry at most MaxUncompressedChunkSize bytes each.
			for p := pos; p < chunkEnd; {
				n := chunkEnd - p
				if n > chunk.MaxUncompressedChunkSize {
					n = chunk.MaxUncompressedChunkSize
				}
				h := chunk.Header{Compressed: false, Reset: chunk.ResetNone, UnpackedSize: n}
				if needDictReset {
					h.Reset = chunk.ResetStateNewPropsDict
				}
				hdr := make([]byte, h.HeaderLen())
				chunk.EncodeHeader(hdr, h)
				out = append(out, hdr...)
				out = append(out, win[p:p+n]...)
				needDictReset = false
				p += n
			}
			model.ResetState()
			// The discarded body changed the encoder's probabilities,
			// so the next compressed chunk starts over with new props.
			needProps = true
			pos = chunkEnd
			continue
		}

		reset := chunk.ResetNone
		if needProps {
			reset = chunk.ResetStateNewProps
		}
		h := chunk.Header{
			Compressed: true, Reset: reset,
			UnpackedSize: unpackedLen, PackedSize: len(body),
			LC: opts.LiteralCtxBits, LP: opts.LiteralPosBits, PB: opts.PosBits,
		}
		hdr := make([]byte, h.HeaderLen())
		chunk.EncodeHeader(hdr, h)
		out = append(out, hdr...)
		out = append(out, body...)

		needDictReset = false
		needProps = false
		pos = chunkEnd
	}
	return out
}

// blockPlan describes one dictionary block carved out of a larger
// input: Src[0:Overlap] is context copied from the previous block's
// tail, Src[Overlap:] is this block's own bytes.
type blockPlan struct {
	Src     []byte
	Overlap int
}

// planBlocks partitions src into dictionarySize-byte blocks (the final
// block may be shorter), each carrying overlapFraction/15·dictionarySize
// bytes of the previous block's tail as read-only match context, per
// spec §4.7.
func planBlocks(src []byte, opts CCtxOptions) []blockPlan {
	dictSize := 1 << uint(opts.DictionarySizeLog)
	overlapSize := dictSize * opts.OverlapFraction / 15

	var plans []blockPlan
	for off := 0; off < len(src) || (off == 0 && len(src) == 0); {
		end := off + dictSize
		if end > len(src) {
			end = len(src)
		}

		overlap := 0
		var blockSrc []byte
		if off > 0 && overlapSize > 0 {
			overlap = overlapSize
			if overlap > off {
				overlap = off
			}
			blockSrc = append(append([]byte(nil), src[off-overlap:off]...), src[off:end]...)
		} else {
			blockSrc = src[off:end]
		}

		plans = append(plans, blockPlan{Src: blockSrc, Overlap: overlap})
		if end == len(src) {
			break
		}
		off = end
	}
	return plans
}

// compressBlocks runs planBlocks' blocks through encodeBlock in input
// order. Blocks are not parallelized against each other — each one's
// overlap already depends on the previous block's tail, and the real
// concurrency opportunity spec §4.4/§5 describe is within a block,
// across the worker slices encodeBlock itself fans out over a single
// shared match index.
func compressBlocks(plans []blockPlan, opts CCtxOptions) [][]byte {
	results := make([][]byte, len(plans))
	for i, plan := range plans {
		results[i] = encodeBlock(plan.Src, plan.Overlap, opts)
	}
	return results
}
