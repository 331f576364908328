// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

// Allocator is the pluggable {alloc, free, opaque} triple spec.md §9
// calls the one cross-cutting dependency worth threading through
// contexts explicitly rather than relying on process-global state. Go
// callers rarely need this (the garbage collector already is the
// allocator), but CCtx still accepts one (NewDCtx takes none) so
// custom-arena or instrumented-allocation callers (spec §8 scenario
// 3's nbMalloc==nbFree bookkeeping) have a real hook: every frame
// buffer CCtx allocates is handed back to Free before the call returns.
type Allocator struct {
	// Alloc returns a newly allocated, zeroed byte slice of len size.
	// A nil Alloc means "use make([]byte, size)".
	Alloc func(opaque any, size int) []byte
	// Free releases a slice previously returned by Alloc. A nil Free
	// means "let the garbage collector reclaim it".
	Free func(opaque any, buf []byte)
	// Opaque is passed back to Alloc/Free unchanged.
	Opaque any
}

// defaultAllocator allocates via make and never frees explicitly,
// matching ordinary Go memory management.
var defaultAllocator = Allocator{}

func (a Allocator) alloc(size int) []byte {
	if a.Alloc != nil {
		return a.Alloc(a.Opaque, size)
	}
	return make([]byte, size)
}

func (a Allocator) free(buf []byte) {
	if a.Free != nil {
		a.Free(a.Opaque, buf)
	}
}
