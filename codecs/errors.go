package codecs

import (
	"errors"
	"fmt"
)

var (
	// ErrBitDepthUnknown is returned when neither the JPEG bitstream nor the
	// context declares a sample precision.
	ErrBitDepthUnknown = errors.New("jpeg bit depth is unknown")

	// ErrSignedColorConvertUnsupported is returned when a JPEG decode
	// requests colour conversion on signed pixel data.
	ErrSignedColorConvertUnsupported = errors.New(
		"jpeg codec unable to perform colorspace conversion on signed pixel data")

	// Stage sentinels classifying JPEG 2000 failures.
	ErrStreamCreateFailed = errors.New("failed to create stream")
	ErrHeaderReadFailed   = errors.New("failed to read header")
	ErrDecodeFailed       = errors.New("failed to decode")
	ErrEncodeFailed       = errors.New("failed to encode")
)

// UnsupportedBitDepthError is returned when a JPEG bitstream declares a
// precision the dispatcher has no variant for.
type UnsupportedBitDepthError struct {
	BitDepth int
}

func (e *UnsupportedBitDepthError) Error() string {
	return fmt.Sprintf("unsupported jpeg bit depth (%d)", e.BitDepth)
}

// CodecError wraps a failure of one of the delegated compression engines,
// keeping the engine's own diagnostic reachable through Unwrap.
type CodecError struct {
	// Source names the engine or adaptor stage that failed.
	Source string
	// Stage is an optional sentinel classifying the failure; errors.Is
	// matches against it.
	Stage error
	// Err is the engine's underlying error.
	Err error
}

func (e *CodecError) Error() string {
	switch {
	case e.Stage != nil && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s", e.Source, e.Stage, e.Err)
	case e.Stage != nil:
		return fmt.Sprintf("%s: %s", e.Source, e.Stage)
	default:
		return fmt.Sprintf("%s: %s", e.Source, e.Err)
	}
}

func (e *CodecError) Is(target error) bool {
	return e.Stage != nil && target == e.Stage
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// codecError builds a CodecError; stage may be nil.
func codecError(source string, stage, err error) *CodecError {
	return &CodecError{Source: source, Stage: stage, Err: err}
}

// frameSizeMismatch reports a decoded buffer whose length does not match the
// frame size the context descriptors require.
func frameSizeMismatch(have, want int) error {
	return fmt.Errorf("decoded buffer length %d does not match frame size %d", have, want)
}
