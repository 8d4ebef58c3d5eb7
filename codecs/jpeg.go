package codecs

import (
	"github.com/cocosip/go-dicom-codec/jpeg/baseline"
	"github.com/cocosip/go-dicom-codec/jpeg/common"
	"github.com/cocosip/go-dicom-codec/jpeg/extended"
	"github.com/cocosip/go-dicom-codec/jpeg/lossless"
)

// losslessProcess reports whether a start-of-frame marker belongs to one of
// the predictive lossless processes.
func losslessProcess(marker uint16) bool {
	switch marker {
	case common.MarkerSOF3, common.MarkerSOF7, common.MarkerSOF11, common.MarkerSOF15:
		return true
	}
	return false
}

// scanStartOfFrame walks the marker segments of a JPEG stream and returns the
// first start-of-frame marker with its sample precision and component count,
// or zeros when none is found before the scan data begins.
func scanStartOfFrame(data []byte) (marker uint16, precision, components int) {
	for i := 0; i+1 < len(data); {
		if data[i] != 0xFF {
			i++
			continue
		}
		if data[i+1] == 0xFF {
			// Fill byte before a marker.
			i++
			continue
		}
		m := uint16(0xFF00) | uint16(data[i+1])
		switch {
		case common.IsSOF(m):
			if i+9 < len(data) {
				return m, int(data[i+4]), int(data[i+9])
			}
			return 0, 0, 0
		case m == common.MarkerSOI || m == 0xFF01 ||
			(m >= common.MarkerRST0 && m <= common.MarkerRST7):
			i += 2
		case m == common.MarkerSOS || m == common.MarkerEOI:
			return 0, 0, 0
		default:
			if i+3 >= len(data) {
				return 0, 0, 0
			}
			length := int(data[i+2])<<8 | int(data[i+3])
			if length < 2 {
				return 0, 0, 0
			}
			i += 2 + length
		}
	}
	return 0, 0, 0
}

// withEndOfImage pads a truncated stream with the EOI marker pair so the
// entropy decoder always finds a terminator.
func withEndOfImage(data []byte) []byte {
	if len(data) >= 2 && data[len(data)-2] == 0xFF && data[len(data)-1] == 0xD9 {
		return data
	}
	padded := make([]byte, len(data), len(data)+2)
	copy(padded, data)
	return append(padded, 0xFF, 0xD9)
}

// DecodeJPEG decodes the JPEG frame in the encoded buffer, dispatching on the
// sample precision declared by the bitstream (falling back to the context's
// BitsStored).
func DecodeJPEG(ctx *Context, params *DecoderParameters) error {
	_, bitDepth, _ := scanStartOfFrame(ctx.EncodedBuffer())
	if bitDepth == 0 {
		bitDepth = ctx.BitsStored
	}
	if bitDepth == 0 {
		return ctx.fail(ErrBitDepthUnknown)
	}

	switch {
	case bitDepth <= 8:
		return decodeJPEG8(ctx, params)
	case bitDepth <= 12:
		return decodeJPEG12(ctx, params)
	case bitDepth <= 16:
		return decodeJPEG16(ctx, params)
	default:
		return ctx.fail(&UnsupportedBitDepthError{BitDepth: bitDepth})
	}
}

// checkColorConvert validates the colour-conversion request against the
// stream's component count and patches the context tags for a converted
// decode. JPEG is the only codec that rewrites tags here: the conversion
// changes the meaning of the decoded samples.
func checkColorConvert(ctx *Context, params *DecoderParameters, components int) error {
	if params == nil || !params.ConvertColorspaceToRGB || components != 3 {
		return nil
	}
	if ctx.PixelRepresentation == Signed {
		return ctx.fail(ErrSignedColorConvertUnsupported)
	}
	ctx.PhotometricInterpretation = Rgb
	ctx.PlanarConfiguration = Interleaved
	return nil
}

func decodeJPEG8(ctx *Context, params *DecoderParameters) error {
	data := withEndOfImage(ctx.EncodedBuffer())
	marker, _, components := scanStartOfFrame(data)
	if err := checkColorConvert(ctx, params, components); err != nil {
		return err
	}

	var (
		pixelData []byte
		err       error
	)
	if losslessProcess(marker) {
		pixelData, _, _, _, _, err = lossless.Decode(data)
	} else {
		pixelData, _, _, _, err = baseline.Decode(data)
	}
	if err != nil {
		return ctx.fail(codecError("jpeg8", ErrDecodeFailed, err))
	}

	ctx.ResizeDecodedBuffer(len(pixelData))
	copy(ctx.DecodedBuffer(), pixelData)
	return nil
}

func decodeJPEG12(ctx *Context, params *DecoderParameters) error {
	data := withEndOfImage(ctx.EncodedBuffer())
	marker, _, components := scanStartOfFrame(data)
	if err := checkColorConvert(ctx, params, components); err != nil {
		return err
	}

	var (
		pixelData []byte
		err       error
	)
	if losslessProcess(marker) {
		pixelData, _, _, _, _, err = lossless.Decode(data)
	} else {
		pixelData, _, _, _, _, err = extended.Decode(data)
	}
	if err != nil {
		return ctx.fail(codecError("jpeg12", ErrDecodeFailed, err))
	}

	ctx.ResizeDecodedBuffer(len(pixelData))
	copy(ctx.DecodedBuffer(), pixelData)
	return nil
}

func decodeJPEG16(ctx *Context, params *DecoderParameters) error {
	data := withEndOfImage(ctx.EncodedBuffer())
	_, _, components := scanStartOfFrame(data)
	if err := checkColorConvert(ctx, params, components); err != nil {
		return err
	}

	pixelData, _, _, _, _, err := lossless.Decode(data)
	if err != nil {
		return ctx.fail(codecError("jpeg16", ErrDecodeFailed, err))
	}

	ctx.ResizeDecodedBuffer(len(pixelData))
	copy(ctx.DecodedBuffer(), pixelData)
	return nil
}

// EncodeJPEG compresses the decoded buffer: baseline DCT for the lossy path,
// the predictive lossless process otherwise. Lossy encoding is only defined
// for 8-bit samples.
func EncodeJPEG(ctx *Context, params *EncoderParameters) error {
	if params == nil {
		params = NewEncoderParameters()
	}
	if err := params.Validate(); err != nil {
		return ctx.fail(err)
	}

	bitDepth := ctx.BitsStored
	if params.Lossy && bitDepth != 8 {
		return ctx.fail(&UnsupportedBitDepthError{BitDepth: bitDepth})
	}
	if bitDepth == 0 || bitDepth > 16 {
		return ctx.fail(&UnsupportedBitDepthError{BitDepth: bitDepth})
	}

	src := ctx.DecodedBuffer()
	if len(src) != ctx.decodedFrameSize() {
		return ctx.fail(codecError("jpeg", ErrEncodeFailed,
			frameSizeMismatch(len(src), ctx.decodedFrameSize())))
	}

	if params.Lossy {
		if params.SampleFactor == Sf422 {
			ctx.notify("jpeg: 4:2:2 subsampling not available, encoding 4:4:4")
		}
		if params.SmoothingFactor > 0 {
			ctx.notify("jpeg: smoothing factor %d ignored", params.SmoothingFactor)
		}
		encoded, err := baseline.Encode(src, ctx.Columns, ctx.Rows,
			ctx.SamplesPerPixel, params.Quality)
		if err != nil {
			return ctx.fail(codecError("jpeg8", ErrEncodeFailed, err))
		}
		ctx.SetEncodedBuffer(encoded)
		return nil
	}

	if params.PointTransform != 0 {
		ctx.notify("jpeg: point transform %d ignored", params.PointTransform)
	}
	encoded, err := lossless.Encode(src, ctx.Columns, ctx.Rows,
		ctx.SamplesPerPixel, bitDepth, params.Predictor)
	if err != nil {
		return ctx.fail(codecError("jpeg16", ErrEncodeFailed, err))
	}
	ctx.SetEncodedBuffer(encoded)
	return nil
}
