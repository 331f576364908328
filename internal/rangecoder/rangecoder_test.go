package rangecoder

import (
	"math/rand"
	"testing"
)

func TestEncodeDecodeBitsRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	const n = 5000

	bits := make([]uint32, n)
	for i := range bits {
		if rnd.Intn(3) == 0 {
			bits[i] = 1
		}
	}

	sink := &SliceSink{}
	enc := NewEncoder(sink)
	probs := NewProbs(1)
	for _, b := range bits {
		enc.EncodeBit(&probs[0], b)
	}
	enc.Flush()

	src := &SliceSource{Data: sink.Data}
	dec, err := Init(src)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	dprobs := NewProbs(1)
	for i, want := range bits {
		got, err := dec.DecodeBit(&dprobs[0])
		if err != nil {
			t.Fatalf("bit %d: DecodeBit: %v", i, err)
		}
		if got != want {
			t.Fatalf("bit %d: got %d want %d", i, got, want)
		}
	}
}

func TestEncodeDecodeDirectBitsRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	values := make([]uint32, 200)
	for i := range values {
		values[i] = rnd.Uint32() & 0xFFFFF // 20 bits
	}

	sink := &SliceSink{}
	enc := NewEncoder(sink)
	for _, v := range values {
		enc.EncodeDirectBits(v, 20)
	}
	enc.Flush()

	src := &SliceSource{Data: sink.Data}
	dec, err := Init(src)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i, want := range values {
		got, err := dec.DecodeDirectBits(20)
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("value %d: got %#x want %#x", i, got, want)
		}
	}
}

func TestEncodeDecodeMixedRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	type op struct {
		direct bool
		bit    uint32
		value  uint32
		nbits  int
	}
	ops := make([]op, 2000)
	for i := range ops {
		if rnd.Intn(4) == 0 {
			ops[i] = op{direct: true, value: rnd.Uint32() & 0x3FF, nbits: 10}
		} else {
			ops[i] = op{bit: uint32(rnd.Intn(2))}
		}
	}

	sink := &SliceSink{}
	enc := NewEncoder(sink)
	probs := NewProbs(4)
	for i, o := range ops {
		if o.direct {
			enc.EncodeDirectBits(o.value, o.nbits)
		} else {
			enc.EncodeBit(&probs[i%len(probs)], o.bit)
		}
	}
	enc.Flush()

	src := &SliceSource{Data: sink.Data}
	dec, err := Init(src)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	dprobs := NewProbs(4)
	for i, o := range ops {
		if o.direct {
			got, err := dec.DecodeDirectBits(o.nbits)
			if err != nil {
				t.Fatalf("op %d: %v", i, err)
			}
			if got != o.value {
				t.Fatalf("op %d: got %#x want %#x", i, got, o.value)
			}
		} else {
			got, err := dec.DecodeBit(&dprobs[i%len(dprobs)])
			if err != nil {
				t.Fatalf("op %d: %v", i, err)
			}
			if got != o.bit {
				t.Fatalf("op %d: got %d want %d", i, got, o.bit)
			}
		}
	}
}

func TestInitRejectsShortInput(t *testing.T) {
	for _, data := range [][]byte{{}, {0}, {0, 1, 2, 3}} {
		src := &SliceSource{Data: data}
		if _, err := Init(src); err == nil {
			t.Fatalf("Init(%v): expected error", data)
		}
	}
}

func TestInitRejectsNonZeroLeadByte(t *testing.T) {
	src := &SliceSource{Data: []byte{1, 0, 0, 0, 0}}
	if _, err := Init(src); err == nil {
		t.Fatalf("expected error for non-zero lead byte")
	}
}
