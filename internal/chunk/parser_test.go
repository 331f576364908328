// SPDX-License-Identifier: GPL-2.0-only

package chunk

import (
	"bytes"
	"testing"

	"github.com/woozymasta/fastlzma2/internal/lzma2model"
	"github.com/woozymasta/fastlzma2/internal/rmf"
)

func TestShortRepAvailable(t *testing.T) {
	win := []byte{'a', 'b', 'a', 'b', 'a'}

	// rep0 == 1 (distance 2) matches win[4]==win[2]=='a'.
	if !shortRepAvailable(win, 4, uint32(len(win)), 1) {
		t.Fatalf("expected short rep to be available at pos 4 with rep0=1")
	}
	// rep0 == 0 (distance 1) does not match win[4]==win[3]=='b'.
	if shortRepAvailable(win, 4, uint32(len(win)), 0) {
		t.Fatalf("expected short rep to be unavailable at pos 4 with rep0=0")
	}
	// Out of range distance.
	if shortRepAvailable(win, 0, uint32(len(win)), 0) {
		t.Fatalf("expected short rep to be unavailable with distance past start of window")
	}
}

// TestBestCandidateAtChoosesShortRep constructs a position where the
// only qualifying candidate (besides a plain literal) is a length-1
// short rep reusing rep[0], and checks the price-based chooser picks it
// over the literal.
func TestBestCandidateAtChoosesShortRep(t *testing.T) {
	win := []byte{'x', 'y', 'x', 'y', 'x'}
	m := lzma2model.NewModel(3, 0, 2)
	m.Rep[0] = 1 // distance 2: win[pos-2]

	finder := rmf.NewMatcher(win, rmf.DefaultConfig())
	finder.Build(0, len(win))

	pos := uint32(4)
	best := bestCandidateAt(m, finder, win, pos, uint32(len(win)), nil)
	if best.len != 1 || best.dist != 2 {
		t.Fatalf("got candidate %+v, want a length-1 short rep at distance 2", best)
	}
}

// TestParseAndEncodeRoundTripsShortRepHeavyInput builds input with many
// length-1 repeats of the most recent match distance and checks it still
// round-trips, exercising the short-rep path end to end through both the
// parser and the low-level encoder/decoder.
func TestParseAndEncodeRoundTripsShortRepHeavyInput(t *testing.T) {
	var src []byte
	for i := 0; i < 200; i++ {
		src = append(src, 'a', 'b')
	}
	src = append(src, "the quick brown fox"...)
	for i := 0; i < 200; i++ {
		src = append(src, 'a', 'b')
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

	decModel := lzma2model.NewModel(3, 0, 2)
	ApplyReset(decModel, d.Header())
	if err := d.DecodeCompressed(decModel, body); err != nil {
		t.Fatalf("DecodeCompressed: %v", err)
	}

	if !bytes.Equal(win.buf, src) {
		t.Fatalf("round trip mismatch: got %d bytes want %d bytes", len(win.buf), len(src))
	}
}
