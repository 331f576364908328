// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

// SinkFunc receives successive slices of compressed or decompressed
// output. Implementations must not retain p past the call (copy it if
// needed), the same contract io.Writer.Write makes.
type SinkFunc func(p []byte) error

// CompressToFn drives a CStream over all of src, handing every produced
// slice of compressed output to sink as soon as it is ready instead of
// requiring the caller to preallocate a CompressBound(len(src))-sized
// destination. It is the callback-mode counterpart to CompressCCtx, for
// callers piping output straight to a socket or file rather than
// collecting it in memory first.
func CompressToFn(ctx *CCtx, src []byte, sink SinkFunc) error {
	s := InitCStream(ctx)
	scratch := make([]byte, 1<<uint(ctx.opts.BufferLog))

	in := &InBuffer{Src: src}
	for {
		out := &OutBuffer{Dst: scratch}
		if err := s.CompressStream(out, in); err != nil {
			return err
		}
		if out.Pos > 0 {
			if err := sink(scratch[:out.Pos]); err != nil {
				return err
			}
		}
		if in.Done() && out.Pos == 0 {
			break
		}
	}

	for {
		out := &OutBuffer{Dst: scratch}
		done, err := s.FlushStream(out)
		if err != nil {
			return err
		}
		if out.Pos > 0 {
			if err := sink(scratch[:out.Pos]); err != nil {
				return err
			}
		}
		if done {
			break
		}
	}

	for {
		out := &OutBuffer{Dst: scratch}
		done, err := s.EndStream(out)
		if err != nil {
			return err
		}
		if out.Pos > 0 {
			if err := sink(scratch[:out.Pos]); err != nil {
				return err
			}
		}
		if done {
			return nil
		}
	}
}

// DecompressToFn drives a DStream over all of src, handing every
// produced slice of decompressed output to sink as soon as it is ready.
func DecompressToFn(opts *DCtxOptions, src []byte, sink SinkFunc) error {
	s := InitDStream(opts)

	const scratchSize = 1 << 16
	scratch := make([]byte, scratchSize)

	in := &InBuffer{Src: src}
	for {
		out := &OutBuffer{Dst: scratch}
		done, err := s.DecompressStream(out, in)
		if err != nil {
			return err
		}
		if out.Pos > 0 {
			if err := sink(scratch[:out.Pos]); err != nil {
				return err
			}
		}
		if done {
			return nil
		}
		if in.Done() && out.Pos == 0 {
			return newCodecError(ErrorSrcSizeWrong, ErrInputOverrun, "input exhausted before end of frame")
		}
	}
}
