package codecs

import (
	"encoding/binary"
	"fmt"

	"github.com/cocosip/go-dicom-codec/jpeg2000/htj2k"
)

// htj2kPlanar reports whether the codestream carries its components as
// separate planes: always for monochrome, and for colour whenever no
// multi-component transform is in use.
func htj2kPlanar(samplesPerPixel int, colorTransform bool) bool {
	return samplesPerPixel == 1 || !colorTransform
}

// htj2kDecompositionCount derives the wavelet decomposition count from the
// image extent: ceiling-halve both dimensions while they exceed the 64-sample
// block size, clamped to six.
func htj2kDecompositionCount(columns, rows int) int {
	count := 0
	tw, th := columns, rows
	for tw > 64 && th > 64 {
		count++
		tw = (tw + 1) / 2
		th = (th + 1) / 2
	}
	if count > 6 {
		return 6
	}
	return count
}

// DecodeHTJPEG2000 decodes the high-throughput JPEG 2000 frame in the encoded
// buffer, clamping each 32-bit sample to the range of the context's sample
// width and sign before scattering it into the raw layout.
func DecodeHTJPEG2000(ctx *Context, _ *DecoderParameters) error {
	width := ctx.Columns
	height := ctx.Rows
	samples := ctx.PixelCount() * ctx.SamplesPerPixel
	ba := ctx.BytesAllocated()

	decoder := htj2k.NewHTDecoder(width, height*ctx.SamplesPerPixel)
	coefficients, err := decoder.Decode(ctx.EncodedBuffer(), 1)
	if err != nil {
		return ctx.fail(codecError("htj2k", ErrDecodeFailed, err))
	}
	if len(coefficients) < samples {
		return ctx.fail(codecError("htj2k", ErrDecodeFailed, fmt.Errorf(
			"codestream holds %d samples, frame needs %d", len(coefficients), samples)))
	}

	ctx.ResizeDecodedBuffer(samples * ba)
	dst := ctx.DecodedBuffer()

	pixelCount := ctx.PixelCount()
	signed := ctx.PixelRepresentation == Signed
	for i := 0; i < samples; i++ {
		// Codestream sample order is planar: component planes back to back.
		component := i / pixelCount
		pixel := i % pixelCount
		pos := ctx.sampleOffset(pixel, component) * ba

		value := coefficients[i]
		if ba == 1 {
			dst[pos] = uint8(clampInt32(value, 0, 255))
		} else if signed {
			v := int16(clampInt32(value, -32768, 32767))
			binary.LittleEndian.PutUint16(dst[pos:pos+2], uint16(v))
		} else {
			v := uint16(clampInt32(value, 0, 65535))
			binary.LittleEndian.PutUint16(dst[pos:pos+2], v)
		}
	}
	return nil
}

// EncodeHTJPEG2000 compresses the decoded buffer with the high-throughput
// block coder. Components are exchanged as planes; signed 16-bit samples are
// promoted to signed 32-bit coefficients.
func EncodeHTJPEG2000(ctx *Context, params *EncoderParameters) error {
	if params == nil {
		params = NewEncoderParameters()
	}
	if err := params.Validate(); err != nil {
		return ctx.fail(err)
	}

	src := ctx.DecodedBuffer()
	if len(src) != ctx.decodedFrameSize() {
		return ctx.fail(codecError("htj2k", ErrEncodeFailed,
			frameSizeMismatch(len(src), ctx.decodedFrameSize())))
	}

	width := ctx.Columns
	height := ctx.Rows
	samples := ctx.PixelCount() * ctx.SamplesPerPixel
	ba := ctx.BytesAllocated()
	pixelCount := ctx.PixelCount()
	signed := ctx.PixelRepresentation == Signed

	// The block coder applies no colour transform.
	planar := htj2kPlanar(ctx.SamplesPerPixel, false)
	decompositions := htj2kDecompositionCount(width, height)
	ctx.notify("htj2k: %s progression, %d decompositions, planar=%v",
		params.ProgressionOrder, decompositions, planar)

	coefficients := make([]int32, samples)
	for i := 0; i < samples; i++ {
		component := i / pixelCount
		pixel := i % pixelCount
		pos := ctx.sampleOffset(pixel, component) * ba

		if ba == 1 {
			coefficients[i] = int32(src[pos])
		} else {
			u := binary.LittleEndian.Uint16(src[pos : pos+2])
			if signed {
				coefficients[i] = int32(int16(u))
			} else {
				coefficients[i] = int32(u)
			}
		}
	}

	encoder := htj2k.NewHTEncoder(width, height*ctx.SamplesPerPixel)
	encoded, err := encoder.Encode(coefficients, 1, 0)
	if err != nil {
		return ctx.fail(codecError("htj2k", ErrEncodeFailed, err))
	}

	ctx.SetEncodedBuffer(encoded)
	return nil
}

// sampleOffset returns the sample index of component s of pixel p in the raw
// buffer for the context's channel layout.
func (c *Context) sampleOffset(pixel, component int) int {
	if c.PlanarConfiguration == Planar {
		return component*c.PixelCount() + pixel
	}
	return pixel*c.SamplesPerPixel + component
}

// clampInt32 bounds v to [lo, hi].
func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
