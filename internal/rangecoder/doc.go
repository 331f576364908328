// SPDX-License-Identifier: GPL-2.0-only

// Package rangecoder implements the bit-level arithmetic coder used by the
// LZMA2 chunk payload: an adaptive binary range coder over 11-bit
// probability counters, plus direct (model-free) bit coding for the parts
// of the stream that don't benefit from adaptation (high bits of
// distances, chunk alignment).
package rangecoder
