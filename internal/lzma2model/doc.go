// SPDX-License-Identifier: GPL-2.0-only

// Package lzma2model holds the LZMA probability model: the 12-state
// operation-history state machine, the literal/length/distance
// probability tables, and the bit-price approximation used by the
// optimal parser. It has no notion of chunks or dictionaries — it is the
// pure "how do I code this bit" layer shared by the chunk encoder and
// decoder.
package lzma2model
