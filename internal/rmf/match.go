// SPDX-License-Identifier: GPL-2.0-only

package rmf

// Match is a candidate (length, distance) pair: coding buf[pos-Dist:]
// reproduces Len bytes starting at pos.
type Match struct {
	Len  int
	Dist int
}
