// SPDX-License-Identifier: GPL-2.0-only

package fastlzma2

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the public API. Wrap these with %w or test
// with errors.Is; CodecError (below) carries the richer ErrorCode
// taxonomy for callers that want it.
var (
	// ErrEmptyInput is returned by Decompress when given a zero-length
	// frame that is not itself a valid minimal empty frame.
	ErrEmptyInput = errors.New("fastlzma2: empty input")
	// ErrOutputOverrun is returned when a destination buffer cannot
	// hold the declared or discovered decompressed size.
	ErrOutputOverrun = errors.New("fastlzma2: output buffer too small")
	// ErrInputOverrun is returned when the compressed input ends
	// before a chunk's declared payload has been fully consumed.
	ErrInputOverrun = errors.New("fastlzma2: input ends mid-chunk")
	// ErrCorruptFrame is returned when frame or chunk structure fails a
	// validity check (bad properties byte, chunk size over its limit).
	ErrCorruptFrame = errors.New("fastlzma2: corrupt frame")
	// ErrChecksumMismatch is returned when the optional XXH64 trailer
	// does not match the decompressed payload.
	ErrChecksumMismatch = errors.New("fastlzma2: checksum mismatch")
	// ErrStageWrong is returned by CCtx operations once that context
	// has observed an error and not yet been Reset, and by a CStream
	// used after EndStream. DCtx keeps no error stage and has no Reset.
	ErrStageWrong = errors.New("fastlzma2: context in error stage, call Reset")
	// ErrParameterOutOfBound is returned by SetParameter when a value
	// falls outside its supported range.
	ErrParameterOutOfBound = errors.New("fastlzma2: parameter out of bound")
	// ErrParameterUnsupported is returned by SetParameter for an
	// unrecognized parameter ID.
	ErrParameterUnsupported = errors.New("fastlzma2: parameter unsupported")
	// ErrLcLpMaxExceeded is returned when literalCtxBits+literalPosBits
	// exceeds 4.
	ErrLcLpMaxExceeded = errors.New("fastlzma2: literalCtxBits+literalPosBits exceeds 4")

	// ErrInternal is returned when an internal invariant is violated
	// (should-never-happen guards). Callers can use
	// errors.Is(err, fastlzma2.ErrInternal).
	ErrInternal = errors.New("fastlzma2: internal error")
)

// ErrorCode is the exported error-code taxonomy (spec §6/§7), mirroring
// the peripheral "error-name lookup table" as a small enumerated type
// plus a flat-array name lookup rather than a hand-rolled switch.
type ErrorCode int

const (
	NoError ErrorCode = iota
	ErrorGeneric
	ErrorInitMissing
	ErrorMemoryAllocation
	ErrorParameterUnsupported
	ErrorParameterOutOfBound
	ErrorLcLpMaxExceeded
	ErrorStageWrong
	ErrorSrcSizeWrong
	ErrorDstSizeTooSmall
	ErrorCorruptionDetected
	ErrorChecksumWrong
	ErrorCanceled
	ErrorBuffer
	errorMaxCode
)

var errorNames = [...]string{
	NoError:                   "No error detected",
	ErrorGeneric:              "Error (generic)",
	ErrorInitMissing:          "Context should be init first",
	ErrorMemoryAllocation:     "Allocation error : not enough memory",
	ErrorParameterUnsupported: "Unsupported parameter",
	ErrorParameterOutOfBound:  "Parameter is out of bound",
	ErrorLcLpMaxExceeded:      "lc+lp too large",
	ErrorStageWrong:           "Operation not authorized at current processing stage",
	ErrorSrcSizeWrong:         "Src size is incorrect",
	ErrorDstSizeTooSmall:      "Destination buffer is too small",
	ErrorCorruptionDetected:   "Corrupted block detected",
	ErrorChecksumWrong:        "Restored data doesn't match checksum",
	ErrorCanceled:             "Processing was canceled by a call to abort",
	ErrorBuffer:               "Buffer cannot be read or written",
}

const unknownErrorName = "Unspecified error code"

// ErrorName returns the human-readable name for code, or a fixed
// sentinel string for a code outside the known range — the lookup is a
// flat array index, not a hand-rolled cascade.
func ErrorName(code ErrorCode) string {
	if code < 0 || int(code) >= len(errorNames) || errorNames[code] == "" {
		return unknownErrorName
	}
	return errorNames[code]
}

// CodecError pairs an ErrorCode with the sentinel error it maps to (so
// errors.Is against the package sentinels keeps working) and optional
// context.
type CodecError struct {
	Code    ErrorCode
	Wrapped error
	Context string
}

func (e *CodecError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("fastlzma2: %s: %s", ErrorName(e.Code), e.Context)
	}
	return fmt.Sprintf("fastlzma2: %s", ErrorName(e.Code))
}

func (e *CodecError) Unwrap() error { return e.Wrapped }

// newCodecError builds a CodecError for code, wrapping sentinel and
// attaching context for diagnostics.
func newCodecError(code ErrorCode, sentinel error, context string) *CodecError {
	return &CodecError{Code: code, Wrapped: sentinel, Context: context}
}
