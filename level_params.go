// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

// levelTable holds the per-compressionLevel defaults (spec §4.4:
// "defaults per compressionLevel 1..12"). Index 0 is unused; level
// values climb from a cheap, shallow search at 1 to
// highCompression+full divide-and-conquer at 12, following the same
// shape the teacher's own level_params.go table uses for its LZO1X-999
// levels (monotonically more expensive, never regressing ratio for a
// slower setting).
var levelTable = [...]CCtxOptions{
	1: {DictionarySizeLog: 20, OverlapFraction: 0, ChainLog: 6, SearchDepth: 16, FastLength: 32,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyFast,
		DoXXHash: true, BlockSizeLog: 20, BufferLog: minBufferLog},
	2: {DictionarySizeLog: 21, OverlapFraction: 1, ChainLog: 7, SearchDepth: 24, FastLength: 32,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyFast,
		DoXXHash: true, BlockSizeLog: 21, BufferLog: minBufferLog},
	3: {DictionarySizeLog: 22, OverlapFraction: 1, ChainLog: 8, SearchDepth: 32, FastLength: 48,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyNormal,
		DoXXHash: true, BlockSizeLog: 22, BufferLog: 18},
	4: {DictionarySizeLog: 22, OverlapFraction: 2, ChainLog: 8, SearchDepth: 48, FastLength: 64,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyNormal,
		DoXXHash: true, BlockSizeLog: 22, BufferLog: 18},
	5: {DictionarySizeLog: 23, OverlapFraction: 2, ChainLog: 9, SearchDepth: 64, FastLength: 64,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyNormal,
		DoXXHash: true, BlockSizeLog: 23, BufferLog: 19},
	6: {DictionarySizeLog: 24, OverlapFraction: 4, ChainLog: 9, SearchDepth: 96, FastLength: 64,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyNormal,
		DivideAndConquer: true, DoXXHash: true, BlockSizeLog: 24, BufferLog: 20},
	7: {DictionarySizeLog: 24, OverlapFraction: 4, ChainLog: 10, SearchDepth: 128, FastLength: 96,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyNormal,
		DivideAndConquer: true, DoXXHash: true, BlockSizeLog: 24, BufferLog: 20},
	8: {DictionarySizeLog: 25, OverlapFraction: 6, ChainLog: 11, SearchDepth: 160, FastLength: 128,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyBest,
		DivideAndConquer: true, DoXXHash: true, BlockSizeLog: 25, BufferLog: 21},
	9: {DictionarySizeLog: 25, OverlapFraction: 6, ChainLog: 12, SearchDepth: 192, FastLength: 160,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyBest,
		DivideAndConquer: true, DoXXHash: true, BlockSizeLog: 25, BufferLog: 21},
	10: {DictionarySizeLog: 26, OverlapFraction: 8, ChainLog: 13, SearchDepth: 224, FastLength: 192,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyBest,
		HighCompression: true, DivideAndConquer: true, DoXXHash: true, BlockSizeLog: 26, BufferLog: 22},
	11: {DictionarySizeLog: 27, OverlapFraction: 10, ChainLog: 14, SearchDepth: 254, FastLength: 224,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyBest,
		HighCompression: true, DivideAndConquer: true, DoXXHash: true, BlockSizeLog: 27, BufferLog: 23},
	12: {DictionarySizeLog: 28, OverlapFraction: 12, ChainLog: 14, SearchDepth: 254, FastLength: 273,
		LiteralCtxBits: 3, LiteralPosBits: 0, PosBits: 2, Strategy: StrategyBest,
		HighCompression: true, DivideAndConquer: true, DoXXHash: true, BlockSizeLog: 28, BufferLog: 24},
}

// OptionsForLevel returns a copy of the default options for level
// (clamped to [1, 12]).
func OptionsForLevel(level int) CCtxOptions {
	if level < 1 {
		level = 1
	}
	if level > 12 {
		level = 12
	}
	o := levelTable[level]
	o.CompressionLevel = level
	return o
}
