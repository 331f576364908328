// SPDX-License-Identifier: GPL-2.0-only

package lzma2model

import (
	"math/rand"
	"testing"

	"github.com/woozymasta/fastlzma2/internal/rangecoder"
)

func TestLiteralRoundTripPlain(t *testing.T) {
	m := NewModel(3, 0, 2)
	rng := rand.New(rand.NewSource(1))

	var want []byte
	for i := 0; i < 500; i++ {
		want = append(want, byte(rng.Intn(256)))
	}

	sink := &rangecoder.SliceSink{Data: make([]byte, 0, 4096)}
	enc := rangecoder.NewEncoder(sink)
	var prev byte
	for i, b := range want {
		m.EncodeLiteral(enc, uint32(i), prev, b, 0)
		prev = b
	}
	enc.Flush()

	m.Reset()
	src := &rangecoder.SliceSource{Data: sink.Data}
	dec, err := rangecoder.Init(src)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	prev = 0
	for i, wantB := range want {
		got, err := m.DecodeLiteral(dec, uint32(i), prev, 0)
		if err != nil {
			t.Fatalf("DecodeLiteral[%d]: %v", i, err)
		}
		if got != wantB {
			t.Fatalf("byte %d: got %02x want %02x", i, got, wantB)
		}
		prev = got
	}
}

func TestLenCoderRoundTrip(t *testing.T) {
	c := NewLenCoder(4)
	rng := rand.New(rand.NewSource(2))

	var lengths []uint32
	var posStates []uint32
	for i := 0; i < 300; i++ {
		lengths = append(lengths, uint32(rng.Intn(NumLenSymbols)))
		posStates = append(posStates, uint32(rng.Intn(4)))
	}

	sink := &rangecoder.SliceSink{Data: make([]byte, 0, 4096)}
	enc := rangecoder.NewEncoder(sink)
	for i := range lengths {
		c.Encode(enc, lengths[i], posStates[i])
	}
	enc.Flush()

	c.Reset()
	src := &rangecoder.SliceSource{Data: sink.Data}
	dec, err := rangecoder.Init(src)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i := range lengths {
		got, err := c.Decode(dec, posStates[i])
		if err != nil {
			t.Fatalf("Decode[%d]: %v", i, err)
		}
		if got != lengths[i] {
			t.Fatalf("length %d: got %d want %d", i, got, lengths[i])
		}
	}
}

func TestDistCoderRoundTrip(t *testing.T) {
	c := NewDistCoder()
	rng := rand.New(rand.NewSource(3))

	var dists []uint32
	var lenStates []uint32
	for i := 0; i < 300; i++ {
		dists = append(dists, rng.Uint32()%(1<<28))
		lenStates = append(lenStates, uint32(rng.Intn(NumLenToPosStates)))
	}

	sink := &rangecoder.SliceSink{Data: make([]byte, 0, 8192)}
	enc := rangecoder.NewEncoder(sink)
	for i := range dists {
		c.Encode(enc, dists[i], lenStates[i])
	}
	enc.Flush()

	c.Reset()
	src := &rangecoder.SliceSource{Data: sink.Data}
	dec, err := rangecoder.Init(src)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i := range dists {
		got, err := c.Decode(dec, lenStates[i])
		if err != nil {
			t.Fatalf("Decode[%d]: %v", i, err)
		}
		if got != dists[i] {
			t.Fatalf("dist %d: got %d want %d", i, got, dists[i])
		}
	}
}

func TestPosSlotMonotonic(t *testing.T) {
	prev := uint32(0)
	for d := uint32(0); d < 1<<20; d += 37 {
		s := PosSlot(d)
		if s < prev {
			t.Fatalf("PosSlot not monotonic at %d: %d < %d", d, s, prev)
		}
		prev = s
	}
}
