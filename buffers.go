// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

// InBuffer is a half-open cursor over caller-owned source bytes: the
// core only ever reads Src[Pos:] and advances Pos past bytes it has
// consumed, mirroring the teacher's inputPos field but exposed as a
// public streaming type per spec §3.
type InBuffer struct {
	Src []byte
	Pos int
}

// Remaining returns the unconsumed tail of Src.
func (b *InBuffer) Remaining() []byte { return b.Src[b.Pos:] }

// Done reports whether every byte of Src has been consumed.
func (b *InBuffer) Done() bool { return b.Pos >= len(b.Src) }

// OutBuffer is a half-open cursor over a caller-owned destination: the
// core writes starting at Dst[Pos] and never past len(Dst), advancing
// Pos past bytes it has produced.
type OutBuffer struct {
	Dst []byte
	Pos int
}

// Remaining returns the unwritten tail of Dst.
func (b *OutBuffer) Remaining() []byte { return b.Dst[b.Pos:] }

// Full reports whether Dst has no space left.
func (b *OutBuffer) Full() bool { return b.Pos >= len(b.Dst) }

// write appends as much of p as fits in the buffer's remaining space,
// returning how many bytes were copied.
func (b *OutBuffer) write(p []byte) int {
	n := copy(b.Dst[b.Pos:], p)
	b.Pos += n
	return n
}
