package codecs

import "fmt"

// SampleFactor selects the chroma subsampling of a lossy JPEG encode.
type SampleFactor int

const (
	// Sf444 encodes all components at full resolution.
	Sf444 SampleFactor = iota
	// Sf422 halves the chroma components horizontally.
	Sf422
	// SfUnknown leaves the subsampling to the encoder.
	SfUnknown
)

func (s SampleFactor) String() string {
	switch s {
	case Sf444:
		return "Sf444"
	case Sf422:
		return "Sf422"
	default:
		return "Unknown"
	}
}

// ProgressionOrder selects the JPEG 2000 packet progression.
type ProgressionOrder int

const (
	Lrcp ProgressionOrder = iota
	Rlcp
	Rpcl
	Pcrl
	Cprl
)

// progressionOrderNames is indexed by ProgressionOrder.
var progressionOrderNames = [...]string{"LRCP", "RLCP", "RPCL", "PCRL", "CPRL"}

func (p ProgressionOrder) String() string {
	if p < 0 || int(p) >= len(progressionOrderNames) {
		return fmt.Sprintf("ProgressionOrder(%d)", int(p))
	}
	return progressionOrderNames[p]
}

// DecoderParameters carries the per-call options of the decode entry points.
type DecoderParameters struct {
	// ConvertColorspaceToRGB asks the JPEG decoder to emit RGB samples when
	// the bitstream declares a convertible colour space. The other decoders
	// ignore it.
	ConvertColorspaceToRGB bool
}

// NewDecoderParameters returns the default decoder parameters.
func NewDecoderParameters() *DecoderParameters {
	return &DecoderParameters{}
}

// EncoderParameters carries the per-call options of the encode entry points.
// Zero values are not useful defaults; use NewEncoderParameters.
type EncoderParameters struct {
	// Lossy selects the lossy variant of codecs that have one.
	Lossy bool
	// Quality is the lossy JPEG quality, 1-100.
	Quality int
	// SmoothingFactor is the lossy JPEG smoothing, 0-100.
	SmoothingFactor int
	// SampleFactor is the lossy JPEG chroma subsampling.
	SampleFactor SampleFactor
	// Predictor is the JPEG lossless prediction selector, 1-7.
	Predictor int
	// PointTransform is the JPEG lossless point transform, 0-15.
	PointTransform int
	// AllowedLossyError is the JPEG-LS near-lossless tolerance.
	AllowedLossyError int
	// ProgressionOrder is the JPEG 2000 packet progression.
	ProgressionOrder ProgressionOrder
	// Rate is the JPEG 2000 compression ratio for the first quality layer.
	Rate int
	// AllowMCT enables the JPEG 2000 multi-component transform for RGB data.
	AllowMCT bool
}

// NewEncoderParameters returns encoder parameters with the documented
// defaults: lossless, quality 90, predictor 1, allowed lossy error 10,
// LRCP progression, rate 20, MCT allowed.
func NewEncoderParameters() *EncoderParameters {
	return &EncoderParameters{
		Lossy:             false,
		Quality:           90,
		SmoothingFactor:   0,
		SampleFactor:      Sf444,
		Predictor:         1,
		PointTransform:    0,
		AllowedLossyError: 10,
		ProgressionOrder:  Lrcp,
		Rate:              20,
		AllowMCT:          true,
	}
}

// Validate checks the parameter ranges shared by all encoders.
func (p *EncoderParameters) Validate() error {
	if p.Quality < 1 || p.Quality > 100 {
		return fmt.Errorf("quality out of range (%d)", p.Quality)
	}
	if p.SmoothingFactor < 0 || p.SmoothingFactor > 100 {
		return fmt.Errorf("smoothing factor out of range (%d)", p.SmoothingFactor)
	}
	if p.Predictor < 1 || p.Predictor > 7 {
		return fmt.Errorf("predictor out of range (%d)", p.Predictor)
	}
	if p.PointTransform < 0 || p.PointTransform > 15 {
		return fmt.Errorf("point transform out of range (%d)", p.PointTransform)
	}
	if p.AllowedLossyError < 0 {
		return fmt.Errorf("allowed lossy error out of range (%d)", p.AllowedLossyError)
	}
	if p.ProgressionOrder < Lrcp || p.ProgressionOrder > Cprl {
		return fmt.Errorf("progression order out of range (%d)", int(p.ProgressionOrder))
	}
	if p.Rate < 0 {
		return fmt.Errorf("rate out of range (%d)", p.Rate)
	}
	return nil
}
