package codecs

import (
	"github.com/cocosip/go-dicom-codec/jpegls/lossless"
	"github.com/cocosip/go-dicom-codec/jpegls/nearlossless"
)

// jpeglsNearValue reads the NEAR parameter from the start-of-scan segment of
// a JPEG-LS stream.
func jpeglsNearValue(data []byte) (near int, ok bool) {
	for i := 0; i+1 < len(data); i++ {
		if data[i] != 0xFF || data[i+1] != 0xDA {
			continue
		}
		// FF DA, two length bytes, component count, two bytes per component,
		// then NEAR.
		if i+4 >= len(data) {
			return 0, false
		}
		components := int(data[i+4])
		nearIndex := i + 5 + 2*components
		if nearIndex >= len(data) {
			return 0, false
		}
		return int(data[nearIndex]), true
	}
	return 0, false
}

// DecodeJPEGLS decodes the JPEG-LS frame in the encoded buffer. The NEAR
// value from the scan header selects the engine: zero decodes with the
// lossless engine, anything else with the near-lossless engine.
func DecodeJPEGLS(ctx *Context, _ *DecoderParameters) error {
	data := ctx.EncodedBuffer()

	var (
		pixelData []byte
		err       error
	)
	near, ok := jpeglsNearValue(data)
	if ok && near > 0 {
		ctx.notify("jpegls: near-lossless stream, allowed error %d", near)
		pixelData, _, _, _, _, _, err = nearlossless.Decode(data)
	} else {
		pixelData, _, _, _, _, err = lossless.Decode(data)
	}
	if err != nil {
		return ctx.fail(codecError("jpegls", ErrDecodeFailed, err))
	}

	ctx.ResizeDecodedBuffer(len(pixelData))
	copy(ctx.DecodedBuffer(), pixelData)
	return nil
}

// EncodeJPEGLS compresses the decoded buffer with JPEG-LS. A lossy request
// carries the allowed lossy error into the near-lossless engine; otherwise the
// stream is mathematically lossless.
func EncodeJPEGLS(ctx *Context, params *EncoderParameters) error {
	if params == nil {
		params = NewEncoderParameters()
	}
	if err := params.Validate(); err != nil {
		return ctx.fail(err)
	}

	src := ctx.DecodedBuffer()
	if len(src) != ctx.decodedFrameSize() {
		return ctx.fail(codecError("jpegls", ErrEncodeFailed,
			frameSizeMismatch(len(src), ctx.decodedFrameSize())))
	}

	near := 0
	if params.Lossy {
		near = params.AllowedLossyError
	}

	var (
		encoded []byte
		err     error
	)
	if near == 0 {
		encoded, err = lossless.Encode(src, ctx.Columns, ctx.Rows,
			ctx.SamplesPerPixel, ctx.BitsAllocated)
	} else {
		encoded, err = nearlossless.Encode(src, ctx.Columns, ctx.Rows,
			ctx.SamplesPerPixel, ctx.BitsAllocated, near)
	}
	if err != nil {
		return ctx.fail(codecError("jpegls", ErrEncodeFailed, err))
	}

	ctx.SetEncodedBuffer(encoded)
	return nil
}
