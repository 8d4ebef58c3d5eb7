package codecs

import (
	"fmt"

	"github.com/cocosip/go-pixel-codecs/rle"
)

// rleSegmentGeometry returns the first buffer position and the stride for one
// RLE segment. Segment s carries sample s/BA at byte BA-(s%BA)-1 within the
// sample, most significant byte first.
func (c *Context) rleSegmentGeometry(segment int) (pos, stride int) {
	ba := c.BytesAllocated()
	sample := segment / ba
	sabyte := segment % ba

	if c.PlanarConfiguration == Interleaved {
		pos = sample * ba
		stride = c.SamplesPerPixel * ba
	} else {
		pos = sample * ba * c.PixelCount()
		stride = ba
	}
	pos += ba - sabyte - 1
	return pos, stride
}

// DecodeRLE expands the RLE frame in the encoded buffer into the decoded
// buffer, scattering each segment to its byte plane.
func DecodeRLE(ctx *Context, _ *DecoderParameters) error {
	decoder, err := rle.NewDecoder(ctx.EncodedBuffer())
	if err != nil {
		return ctx.fail(err)
	}

	ctx.ResizeDecodedBuffer(ctx.decodedFrameSize())
	dst := ctx.DecodedBuffer()

	for s := 0; s < decoder.SegmentCount(); s++ {
		pos, stride := ctx.rleSegmentGeometry(s)
		if err := decoder.DecodeSegment(s, dst, pos, stride); err != nil {
			return ctx.fail(err)
		}
	}
	return nil
}

// EncodeRLE compresses the decoded buffer into an RLE frame of
// BytesAllocated*SamplesPerPixel segments, padded to even length.
func EncodeRLE(ctx *Context, _ *EncoderParameters) error {
	src := ctx.DecodedBuffer()
	if len(src) != ctx.decodedFrameSize() {
		return ctx.fail(fmt.Errorf(
			"rle: decoded buffer length %d does not match frame size %d",
			len(src), ctx.decodedFrameSize()))
	}

	numberOfSegments := ctx.BytesAllocated() * ctx.SamplesPerPixel
	encoder := rle.NewEncoder()

	for s := 0; s < numberOfSegments; s++ {
		if err := encoder.NextSegment(); err != nil {
			return ctx.fail(err)
		}
		pos, stride := ctx.rleSegmentGeometry(s)
		for p := 0; p < ctx.PixelCount(); p++ {
			if pos >= len(src) {
				return ctx.fail(fmt.Errorf(
					"rle: read position %d past end of frame buffer", pos))
			}
			encoder.Encode(src[pos])
			pos += stride
		}
		encoder.Flush()
	}

	encoder.MakeEvenLength()
	ctx.SetEncodedBuffer(encoder.Bytes())
	return nil
}
