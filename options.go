// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

import "github.com/creasty/defaults"

// Strategy selects how aggressively the encoder searches for matches.
type Strategy int

const (
	StrategyFast Strategy = iota
	StrategyNormal
	StrategyBest
)

// CCtxOptions configures compression (spec §4.4's enumerated option
// list). Values come from DefaultCCtxOptions / a compression level
// table; SetParameter validates a change before applying it.
type CCtxOptions struct {
	CompressionLevel int `default:"6"`

	DictionarySizeLog int `default:"24"`
	OverlapFraction   int `default:"4"`

	ChainLog    int `default:"9"`
	SearchDepth int `default:"254"`
	FastLength  int `default:"64"`

	LiteralCtxBits int `default:"3"`
	LiteralPosBits int `default:"0"`
	PosBits        int `default:"2"`

	Strategy         Strategy `default:"1"`
	HighCompression  bool     `default:"false"`
	DivideAndConquer bool     `default:"true"`

	DoXXHash     bool `default:"true"`
	BlockSizeLog int  `default:"24"`
	NbThreads    int  `default:"0"`

	BufferLog int `default:"20"`
}

// DefaultCCtxOptions returns options populated from their struct-tag
// defaults. These follow level 6 except that SearchDepth defaults to 254
// where level 6 uses 96.
func DefaultCCtxOptions() *CCtxOptions {
	o := &CCtxOptions{}
	_ = defaults.Set(o)
	return o
}

// minBufferLog is the implementation-chosen floor below which BufferLog
// is refused outright, per spec.md's own conservative recommendation
// for that open question.
const minBufferLog = 16

// ParamID names a single tunable accepted by SetParameter.
type ParamID int

const (
	ParamCompressionLevel ParamID = iota
	ParamDictionarySizeLog
	ParamOverlapFraction
	ParamChainLog
	ParamSearchDepth
	ParamFastLength
	ParamLiteralCtxBits
	ParamLiteralPosBits
	ParamPosBits
	ParamStrategy
	ParamHighCompression
	ParamDivideAndConquer
	ParamDoXXHash
	ParamBlockSizeLog
	ParamNbThreads
	ParamBufferLog
)

// SetParameter validates and applies value to the named parameter,
// returning ErrParameterOutOfBound / ErrParameterUnsupported /
// ErrLcLpMaxExceeded on rejection. On success it replaces *o's fields
// from the level table first when id is ParamCompressionLevel.
func (o *CCtxOptions) SetParameter(id ParamID, value int) error {
	switch id {
	case ParamCompressionLevel:
		if value < 1 || value > 12 {
			return ErrParameterOutOfBound
		}
		*o = OptionsForLevel(value)
	case ParamDictionarySizeLog:
		if value < 20 || value > 30 {
			return ErrParameterOutOfBound
		}
		o.DictionarySizeLog = value
	case ParamOverlapFraction:
		if value < 0 || value > 15 {
			return ErrParameterOutOfBound
		}
		o.OverlapFraction = value
	case ParamChainLog:
		if value < 1 || value > 30 {
			return ErrParameterOutOfBound
		}
		o.ChainLog = value
	case ParamSearchDepth:
		if value < 1 {
			return ErrParameterOutOfBound
		}
		o.SearchDepth = value
	case ParamFastLength:
		if value < 2 {
			return ErrParameterOutOfBound
		}
		o.FastLength = value
	case ParamLiteralCtxBits:
		if value < 0 || value > 4 {
			return ErrParameterOutOfBound
		}
		if value+o.LiteralPosBits > 4 {
			return ErrLcLpMaxExceeded
		}
		o.LiteralCtxBits = value
	case ParamLiteralPosBits:
		if value < 0 || value > 4 {
			return ErrParameterOutOfBound
		}
		if o.LiteralCtxBits+value > 4 {
			return ErrLcLpMaxExceeded
		}
		o.LiteralPosBits = value
	case ParamPosBits:
		if value < 0 || value > 4 {
			return ErrParameterOutOfBound
		}
		o.PosBits = value
	case ParamStrategy:
		if value < int(StrategyFast) || value > int(StrategyBest) {
			return ErrParameterOutOfBound
		}
		o.Strategy = Strategy(value)
	case ParamHighCompression:
		o.HighCompression = value != 0
	case ParamDivideAndConquer:
		o.DivideAndConquer = value != 0
	case ParamDoXXHash:
		o.DoXXHash = value != 0
	case ParamBlockSizeLog:
		if value < 10 || value > 30 {
			return ErrParameterOutOfBound
		}
		o.BlockSizeLog = value
	case ParamNbThreads:
		if value < 0 {
			return ErrParameterOutOfBound
		}
		o.NbThreads = value
	case ParamBufferLog:
		if value < minBufferLog {
			return ErrParameterOutOfBound
		}
		o.BufferLog = value
	default:
		return ErrParameterUnsupported
	}
	return nil
}

// DCtxOptions configures decompression.
type DCtxOptions struct {
	// MaxDictionarySizeLog bounds how large a dictionary a frame's
	// properties byte may request before decode refuses it.
	MaxDictionarySizeLog int `default:"30"`
	// VerifyChecksum disables XXH64 verification when false, even if
	// the frame carries a trailer (the trailer is then neither read nor
	// counted as consumed input).
	VerifyChecksum bool `default:"true"`
}

// DefaultDCtxOptions returns options populated from their struct-tag
// defaults.
func DefaultDCtxOptions() *DCtxOptions {
	o := &DCtxOptions{}
	_ = defaults.Set(o)
	return o
}
