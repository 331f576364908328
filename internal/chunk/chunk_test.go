// SPDX-License-Identifier: GPL-2.0-only

package chunk

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/woozymasta/fastlzma2/internal/lzma2model"
	"github.com/woozymasta/fastlzma2/internal/rmf"
)

// sliceWindow is the simplest possible Window: a growable byte slice.
type sliceWindow struct {
	buf []byte
}

func (w *sliceWindow) Pos() uint32          { return uint32(len(w.buf)) }
func (w *sliceWindow) ByteAt(d uint32) byte { return w.buf[uint32(len(w.buf))-d] }
func (w *sliceWindow) PutByte(b byte)       { w.buf = append(w.buf, b) }

func TestHeaderRoundTripCompressed(t *testing.T) {
	h := Header{
		Compressed:   true,
		Reset:        ResetStateNewProps,
		UnpackedSize: 12345,
		PackedSize:   6789,
		LC:           3, LP: 0, PB: 2,
	}
	buf := make([]byte, h.HeaderLen())
	n := EncodeHeader(buf, h)
	if n != h.HeaderLen() {
		t.Fatalf("wrote %d bytes, HeaderLen() says %d", n, h.HeaderLen())
	}

	d := NewDecoder(&sliceWindow{})
	consumed, ready, err := d.FeedHeader(buf)
	if err != nil {
		t.Fatalf("FeedHeader: %v", err)
	}
	if !ready || consumed != n {
		t.Fatalf("ready=%v consumed=%d want true/%d", ready, consumed, n)
	}
	got := d.Header()
	if got != h {
		t.Fatalf("got %+v want %+v", got, h)
	}
}

func TestHeaderRoundTripSplitAcrossFeeds(t *testing.T) {
	h := Header{Compressed: true, Reset: ResetNone, UnpackedSize: 100, PackedSize: 50}
	buf := make([]byte, h.HeaderLen())
	EncodeHeader(buf, h)

	d := NewDecoder(&sliceWindow{})
	var ready bool
	var err error
	for i := 0; i < len(buf); i++ {
		var consumed int
		consumed, ready, err = d.FeedHeader(buf[i : i+1])
		if err != nil {
			t.Fatalf("FeedHeader byte %d: %v", i, err)
		}
		if consumed != 1 {
			t.Fatalf("expected to consume exactly 1 byte at a time, got %d", consumed)
		}
		if i < len(buf)-1 && ready {
			t.Fatalf("became ready early at byte %d", i)
		}
	}
	if !ready {
		t.Fatalf("expected ready after final byte")
	}
	if d.Header() != h {
		t.Fatalf("got %+v want %+v", d.Header(), h)
	}
}

func TestUncompressedChunkRoundTrip(t *testing.T) {
	payload := []byte("hello, world, this is an uncompressed chunk")
	h := Header{Compressed: false, Reset: ResetStateNewPropsDict, UnpackedSize: len(payload)}
	hdr := make([]byte, h.HeaderLen())
	EncodeHeader(hdr, h)

	win := &sliceWindow{}
	d := NewDecoder(win)
	if _, ready, err := d.FeedHeader(hdr); err != nil || !ready {
		t.Fatalf("FeedHeader: ready=%v err=%v", ready, err)
	}

	model := lzma2model.NewModel(3, 0, 2)
	if err := d.DecodeUncompressed(model, payload); err != nil {
		t.Fatalf("DecodeUncompressed: %v", err)
	}
	if !bytes.Equal(win.buf, payload) {
		t.Fatalf("got %q want %q", win.buf, payload)
	}
}

func TestCompressedChunkRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	text := []byte("the quick brown fox jumps over the lazy dog. the quick brown fox jumps again and again and again.")
	var src []byte
	for len(src) < 4096 {
		src = append(src, text...)
		for i := 0; i < 8; i++ {
			src = append(src, byte(rng.Intn(256)))
		}
	}

	encModel := lzma2model.NewModel(3, 0, 2)
	finder := rmf.NewMatcher(src, rmf.DefaultConfig())
	finder.Build(0, len(src))
	body := ParseAndEncode(encModel, finder, src, 0, uint32(len(src)), DefaultParserConfig())

	h := Header{
		Compressed:   true,
		Reset:        ResetStateNewProps,
		UnpackedSize: len(src),
		PackedSize:   len(body),
		LC:           3, LP: 0, PB: 2,
	}
	hdr := make([]byte, h.HeaderLen())
	EncodeHeader(hdr, h)

	win := &sliceWindow{}
	d := NewDecoder(win)
	if _, ready, err := d.FeedHeader(hdr); err != nil || !ready {
		t.Fatalf("FeedHeader: ready=%v err=%v", ready, err)
	}
	if d.Header() != h {
		t.Fatalf("header mismatch: got %+v want %+v", d.Header(), h)
	}

	decModel := lzma2model.NewModel(3, 0, 2)
	ApplyReset(decModel, d.Header())
	if err := d.DecodeCompressed(decModel, body); err != nil {
		t.Fatalf("DecodeCompressed: %v", err)
	}

	if !bytes.Equal(win.buf, src) {
		t.Fatalf("round trip mismatch: got %d bytes want %d bytes", len(win.buf), len(src))
	}
}

func TestEndOfStreamHeader(t *testing.T) {
	d := NewDecoder(&sliceWindow{})
	consumed, ready, err := d.FeedHeader([]byte{0x00})
	if err != nil || !ready || consumed != 1 {
		t.Fatalf("consumed=%d ready=%v err=%v", consumed, ready, err)
	}
	if !d.Done() {
		t.Fatalf("expected decoder to report Done after end-of-stream marker")
	}
}

func TestEncodeDecodePropsByte(t *testing.T) {
	for lc := 0; lc <= 4; lc++ {
		for lp := 0; lp <= 2; lp++ {
			for pb := 0; pb <= 4; pb++ {
				if lc+lp > 4 {
					continue
				}
				b := EncodeProps(lc, lp, pb)
				gotLC, gotLP, gotPB, err := DecodeProps(b)
				if err != nil {
					t.Fatalf("DecodeProps(%d,%d,%d): %v", lc, lp, pb, err)
				}
				if gotLC != lc || gotLP != lp || gotPB != pb {
					t.Fatalf("got (%d,%d,%d) want (%d,%d,%d)", gotLC, gotLP, gotPB, lc, lp, pb)
				}
			}
		}
	}
}
