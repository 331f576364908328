// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func testInputs() map[string][]byte {
	cycle := make([]byte, 5000)
	for i := range cycle {
		cycle[i] = byte(i * 7)
	}
	return map[string][]byte{
		"empty":      nil,
		"single":     {0x7f},
		"run":        bytes.Repeat([]byte{0xaa}, 1<<17),
		"repeated":   bytes.Repeat([]byte("go is a pragmatic systems language. "), 3000),
		"byte-cycle": cycle,
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	for name, data := range testInputs() {
		for _, level := range []int{1, 6, 12} {
			t.Run(name, func(t *testing.T) {
				dst := make([]byte, CompressBound(len(data)))
				n, err := CompressLevel(dst, data, level)
				require.NoError(t, err)
				dst = dst[:n]

				size, ok := FindDecompressedSize(dst)
				require.True(t, ok)
				require.Equal(t, uint64(len(data)), size)

				out := make([]byte, size)
				dn, err := Decompress(out, dst)
				require.NoError(t, err)
				require.Equal(t, data, out[:dn])
			})
		}
	}
}

func TestCompressBoundNeverUndershoots(t *testing.T) {
	for _, n := range []int{0, 1, 100, 1 << 16, 1<<16 + 1, 1 << 21} {
		require.GreaterOrEqual(t, CompressBound(n), n)
	}
}

func TestStreamingRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("streaming payload chunked across many small writes. "), 5000)

	opts := DefaultCCtxOptions()
	opts.DictionarySizeLog = 16 // force several blocks for a modest input
	cctx := NewCCtx(opts, nil)
	cstream := InitCStream(cctx)

	var compressed bytes.Buffer
	scratch := make([]byte, 4096)

	in := &InBuffer{Src: data}
	for {
		out := &OutBuffer{Dst: scratch}
		require.NoError(t, cstream.CompressStream(out, in))
		compressed.Write(scratch[:out.Pos])
		if in.Done() && out.Pos == 0 {
			break
		}
	}
	for {
		out := &OutBuffer{Dst: scratch}
		done, err := cstream.FlushStream(out)
		require.NoError(t, err)
		compressed.Write(scratch[:out.Pos])
		if done {
			break
		}
	}
	for {
		out := &OutBuffer{Dst: scratch}
		done, err := cstream.EndStream(out)
		require.NoError(t, err)
		compressed.Write(scratch[:out.Pos])
		if done {
			break
		}
	}

	dstream := InitDStream(nil)
	var decompressed bytes.Buffer
	din := &InBuffer{Src: compressed.Bytes()}
	for {
		dout := &OutBuffer{Dst: scratch}
		done, err := dstream.DecompressStream(dout, din)
		require.NoError(t, err)
		decompressed.Write(scratch[:dout.Pos])
		if done {
			break
		}
	}

	require.Equal(t, data, decompressed.Bytes())
}

func TestCallbackModeRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("callback sink mode round trip. "), 4000)

	var compressed bytes.Buffer
	require.NoError(t, CompressToFn(NewCCtx(nil, nil), data, func(p []byte) error {
		_, err := compressed.Write(p)
		return err
	}))

	var decompressed bytes.Buffer
	require.NoError(t, DecompressToFn(nil, compressed.Bytes(), func(p []byte) error {
		_, err := decompressed.Write(p)
		return err
	}))

	require.Equal(t, data, decompressed.Bytes())
}

func TestChecksumMismatchDetected(t *testing.T) {
	data := []byte("short payload to corrupt")
	dst := make([]byte, CompressBound(len(data)))
	n, err := Compress(dst, data)
	require.NoError(t, err)
	dst = dst[:n]

	dst[len(dst)-1] ^= 0xff // flip a trailer byte

	out := make([]byte, len(data))
	_, err = Decompress(out, dst)
	require.Error(t, err)
}

func TestStageWrongAfterError(t *testing.T) {
	cctx := NewCCtx(nil, nil)
	tiny := make([]byte, 1) // too small for any non-trivial input
	_, err := cctx.CompressCCtx(tiny, bytes.Repeat([]byte("x"), 1000))
	require.Error(t, err)

	_, err = cctx.CompressCCtx(make([]byte, 1<<20), []byte("y"))
	require.ErrorIs(t, err, ErrStageWrong)

	cctx.Reset()
	n, err := cctx.CompressCCtx(make([]byte, 1<<20), []byte("y"))
	require.NoError(t, err)
	require.Greater(t, n, 0)
}
