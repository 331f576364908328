// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

import (
	"github.com/cespare/xxhash/v2"

	"github.com/woozymasta/fastlzma2/internal/chunk"
)

// cctxStage tracks where a CCtx is in its one-shot/streaming lifecycle,
// enforcing spec §7's "operations out of sequence fail fast" rule
// rather than silently producing garbage.
type cctxStage int

const (
	stageIdle cctxStage = iota
	stageCompressing
	stageError
)

// CCtx is a reusable compression context: one CCtxOptions, an
// Allocator and its error stage. The goroutines of its block-parallel
// fan-out are started per call, not held by the context. A CCtx is not
// safe for concurrent use by multiple goroutines, though the work it
// schedules internally is parallel.
type CCtx struct {
	opts  CCtxOptions
	alloc Allocator
	stage cctxStage
	err   error
}

// NewCCtx creates a compression context. A nil opts uses
// DefaultCCtxOptions; a nil alloc uses the package default allocator.
func NewCCtx(opts *CCtxOptions, alloc *Allocator) *CCtx {
	c := &CCtx{}
	if opts != nil {
		c.opts = *opts
	} else {
		c.opts = *DefaultCCtxOptions()
	}
	if alloc != nil {
		c.alloc = *alloc
	} else {
		c.alloc = defaultAllocator
	}
	return c
}

// Reset clears any error stage and returns the context to idle,
// matching spec §7's ResetCCtx.
func (c *CCtx) Reset() {
	c.stage = stageIdle
	c.err = nil
}

// SetParameter validates and applies a single option, refusing once the
// context has entered its error stage.
func (c *CCtx) SetParameter(id ParamID, value int) error {
	if c.stage == stageError {
		return ErrStageWrong
	}
	return c.opts.SetParameter(id, value)
}

// Options returns a copy of the context's current options.
func (c *CCtx) Options() CCtxOptions { return c.opts }

// CompressCCtx compresses all of src into dst in one call, returning the
// number of bytes written. dst must be at least CompressBound(len(src))
// bytes; CompressCCtx never grows dst itself, matching spec §4.2's
// fixed-destination contract.
func (c *CCtx) CompressCCtx(dst, src []byte) (int, error) {
	if c.stage == stageError {
		return 0, ErrStageWrong
	}
	c.stage = stageCompressing

	frame, buf, err := c.compressToFrame(src)
	if err != nil {
		c.stage = stageError
		c.err = err
		return 0, err
	}
	defer c.alloc.free(buf)

	c.stage = stageIdle
	if len(frame) > len(dst) {
		c.stage = stageError
		c.err = ErrOutputOverrun
		return 0, newCodecError(ErrorDstSizeTooSmall, ErrOutputOverrun, "")
	}
	n := copy(dst, frame)
	return n, nil
}

// compressToFrame runs the full block-parallel pipeline and assembles a
// complete frame: properties byte, each block's chunk stream in input
// order, the end-of-stream marker, and an optional XXH64 trailer. buf is
// the slice obtained from the context's Allocator, which the caller
// frees once it is done with frame.
func (c *CCtx) compressToFrame(src []byte) (frame, buf []byte, err error) {
	propsByte, err := encodeFrameProperties(c.opts.DictionarySizeLog)
	if err != nil {
		return nil, nil, err
	}

	plans := planBlocks(src, c.opts)
	blocks := compressBlocks(plans, c.opts)

	buf = c.alloc.alloc(CompressBound(len(src)))
	out := buf[:0]
	out = append(out, propsByte)
	for _, b := range blocks {
		out = append(out, b...)
	}

	end := chunk.Header{EndOfStream: true}
	endHdr := make([]byte, end.HeaderLen())
	chunk.EncodeHeader(endHdr, end)
	out = append(out, endHdr...)

	if c.opts.DoXXHash {
		h := xxhash.New()
		_, _ = h.Write(src)
		out = appendHashTrailer(out, h.Sum64())
	}
	return out, buf, nil
}

// Compress is the package-level convenience wrapper around a one-shot
// CCtx at default options, mirroring spec §4.2's top-level helper.
func Compress(dst, src []byte) (int, error) {
	return NewCCtx(nil, nil).CompressCCtx(dst, src)
}

// CompressLevel compresses src at the given named level (1-12).
func CompressLevel(dst, src []byte, level int) (int, error) {
	opts := OptionsForLevel(level)
	return NewCCtx(&opts, nil).CompressCCtx(dst, src)
}
