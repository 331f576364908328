// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/woozymasta/fastlzma2/internal/chunk"
	"github.com/woozymasta/fastlzma2/internal/workerpool"
)

// CStream wraps a CCtx in the push-model streaming shape spec §4.6
// describes: repeated CompressStream calls each consume the whole of an
// InBuffer and produce as much compressed output into an
// OutBuffer as fits, buffering whatever doesn't fit on either side for
// the next call. Unlike the one-shot CompressCCtx path (which fans a
// known-size input out across goroutines with golang.org/x/sync/errgroup
// and tears the fan-out down when done), a stream's blocks arrive over
// an unknown number of calls, so it drives its block-parallel fan-out
// through a long-lived internal/workerpool.Pool instead.
type CStream struct {
	cctx *CCtx

	pool *workerpool.Pool

	propsWritten bool
	ended        bool

	digest *xxhash.Digest

	// in buffers input bytes not yet folded into a dispatched block.
	in []byte
	// tail holds the last overlap-sized bytes of the previous block,
	// copied in front of the next block as match context.
	tail []byte
	// blockIndex counts dispatched blocks, giving each one a stable
	// index regardless of completion order; block idx lives at
	// pending[idx-drained].
	blockIndex int

	// out buffers compressed bytes already produced but not yet copied
	// into a caller's OutBuffer.
	out []byte

	mu      sync.Mutex
	pending []resultSlot
	// drained counts blocks already moved from the front of pending
	// into out.
	drained int
}

// resultSlot holds one in-flight or completed block's encoded bytes, in
// dispatch order, so CStream can emit them strictly in that order even
// though the pool may finish them out of order.
type resultSlot struct {
	done bool
	data []byte
}

// InitCStream begins a new compression stream using a copy of ctx's
// current options; SetParameter calls on ctx after this point do not
// affect the stream. ctx must not be reused for another stream until
// this one's EndStream has returned.
func InitCStream(ctx *CCtx) *CStream {
	dictSize := 1 << uint(ctx.opts.DictionarySizeLog)
	s := &CStream{
		cctx: &CCtx{opts: ctx.opts, alloc: ctx.alloc},
		pool: workerpool.New(maxInt(ctx.opts.NbThreads, 1), 4),
	}
	if ctx.opts.DoXXHash {
		s.digest = xxhash.New()
	}
	s.in = make([]byte, 0, dictSize)
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// CompressStream consumes all of in into its internal buffer, dispatches
// every complete dictionary-sized block, and writes as much
// already-compressed output as fits into out. It suspends rather than blocks: full blocks are
// handed to the pool and this call returns as soon as they're
// dispatched, draining only whatever earlier blocks have already
// finished. Call it repeatedly, alternating with more input, until
// in.Done(); then call FlushStream and EndStream.
func (s *CStream) CompressStream(out *OutBuffer, in *InBuffer) error {
	if s.ended {
		return ErrStageWrong
	}

	if !s.propsWritten {
		b, err := encodeFrameProperties(s.cctx.opts.DictionarySizeLog)
		if err != nil {
			return err
		}
		s.out = append(s.out, b)
		s.propsWritten = true
	}

	avail := in.Remaining()
	if s.digest != nil {
		_, _ = s.digest.Write(avail)
	}
	s.in = append(s.in, avail...)
	in.Pos = len(in.Src)

	dictSize := 1 << uint(s.cctx.opts.DictionarySizeLog)
	for len(s.in) >= dictSize {
		s.dispatchBlock(s.in[:dictSize])
		s.in = append([]byte(nil), s.in[dictSize:]...)
	}

	s.drainCompleted()
	s.out = s.out[out.write(s.out):]
	return nil
}

// dispatchBlock submits one block (raw, without overlap yet prepended)
// to the pool, prepending s.tail as its overlap context first and
// refreshing s.tail from its own tail afterward.
func (s *CStream) dispatchBlock(raw []byte) {
	overlap := len(s.tail)
	block := make([]byte, 0, overlap+len(raw))
	block = append(block, s.tail...)
	block = append(block, raw...)

	overlapSize := (1 << uint(s.cctx.opts.DictionarySizeLog)) * s.cctx.opts.OverlapFraction / 15
	if overlapSize > len(raw) {
		overlapSize = len(raw)
	}
	s.tail = append([]byte(nil), raw[len(raw)-overlapSize:]...)

	idx := s.blockIndex
	s.blockIndex++

	s.mu.Lock()
	s.pending = append(s.pending, resultSlot{})
	s.mu.Unlock()

	opts := s.cctx.opts
	s.pool.Submit(func() {
		data := encodeBlock(block, overlap, opts)
		s.mu.Lock()
		s.pending[idx-s.drained] = resultSlot{done: true, data: data}
		s.mu.Unlock()
	})
}

// drainCompleted moves every contiguous run of completed blocks, from
// the front of s.pending, into s.out, preserving dispatch order. It is a
// non-blocking poll of whatever the pool has already finished — it never
// waits on in-flight work. EndStream is the only place that blocks on
// the pool, via an explicit WaitAll before its own call to this.
func (s *CStream) drainCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := 0
	for i < len(s.pending) && s.pending[i].done {
		s.out = append(s.out, s.pending[i].data...)
		i++
	}
	s.pending = s.pending[i:]
	s.drained += i
}

// FlushStream forces any buffered partial block out as its own
// (possibly short) block, then writes whatever compressed output has
// already finished into out. It never blocks on in-flight blocks — it
// only polls the pool for work already completed, dispatches the
// partial block, and returns. Call it repeatedly, alongside draining
// out, until it reports done=true (every dispatched block has finished
// and every compressed byte has been copied out).
func (s *CStream) FlushStream(out *OutBuffer) (done bool, err error) {
	if s.ended {
		return false, ErrStageWrong
	}
	if len(s.in) > 0 {
		s.dispatchBlock(s.in)
		s.in = s.in[:0]
	}
	s.drainCompleted()
	s.out = s.out[out.write(s.out):]
	return len(s.out) == 0 && len(s.pending) == 0, nil
}

// EndStream flushes any remaining buffered input, appends the
// end-of-stream chunk marker and, if enabled, the XXH64 trailer, then
// writes everything still pending into out. It must be called
// repeatedly (alongside draining out) until it reports done=true. This
// is the stream's one true blocking point: unlike CompressStream/
// FlushStream's non-blocking polls, EndStream calls WaitAll to bring
// every still in-flight block home before it can emit the end-of-stream
// marker.
func (s *CStream) EndStream(out *OutBuffer) (done bool, err error) {
	if !s.ended {
		if len(s.in) > 0 {
			s.dispatchBlock(s.in)
			s.in = s.in[:0]
		}
		s.pool.WaitAll()
		s.drainCompleted()

		end := chunk.Header{EndOfStream: true}
		hdr := make([]byte, end.HeaderLen())
		chunk.EncodeHeader(hdr, end)
		s.out = append(s.out, hdr...)

		if s.digest != nil {
			s.out = appendHashTrailer(s.out, s.digest.Sum64())
		}
		s.ended = true
		s.pool.Close()
	}

	s.out = s.out[out.write(s.out):]
	return len(s.out) == 0, nil
}
