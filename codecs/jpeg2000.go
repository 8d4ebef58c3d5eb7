package codecs

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/cocosip/go-dicom-codec/jpeg2000"
)

// JPEG 2000 signature prefixes.
var (
	jp2RFC3745Magic    = []byte("\x00\x00\x00\x0c\x6a\x50\x20\x20\x0d\x0a\x87\x0a")
	jp2Magic           = []byte("\x0d\x0a\x87\x0a")
	j2kCodestreamMagic = []byte("\xff\x4f\xff\x51")
)

type jpeg2000Format int

const (
	jp2FormatUnknown jpeg2000Format = iota
	jp2FormatBoxed
	jp2FormatCodestream
)

// sniffJPEG2000Format identifies the container from the first bytes of the
// stream: a boxed JP2 file, a raw codestream, or unknown.
func sniffJPEG2000Format(data []byte) jpeg2000Format {
	if len(data) >= 12 && bytes.Equal(data[:12], jp2RFC3745Magic) {
		return jp2FormatBoxed
	}
	if len(data) >= 4 {
		if bytes.Equal(data[:4], jp2Magic) {
			return jp2FormatBoxed
		}
		if bytes.Equal(data[:4], j2kCodestreamMagic) {
			return jp2FormatCodestream
		}
	}
	return jp2FormatUnknown
}

// extractJP2Codestream walks the boxes of a JP2 file and returns the payload
// of the contiguous-codestream box.
func extractJP2Codestream(data []byte) ([]byte, error) {
	for i := 0; i+8 <= len(data); {
		length := int(binary.BigEndian.Uint32(data[i : i+4]))
		boxType := string(data[i+4 : i+8])
		payload := i + 8

		switch length {
		case 0:
			// Box extends to the end of the stream.
			length = len(data) - i
		case 1:
			if i+16 > len(data) {
				return nil, errors.New("jp2 box with truncated extended length")
			}
			length = int(binary.BigEndian.Uint64(data[i+8 : i+16]))
			payload = i + 16
		}
		if length < payload-i {
			return nil, errors.New("jp2 box with invalid length")
		}

		end := i + length
		if end > len(data) {
			end = len(data)
		}
		if boxType == "jp2c" {
			return data[payload:end], nil
		}
		i += length
	}
	return nil, errors.New("jp2 contiguous codestream box not found")
}

// jpeg2000ResolutionCount derives the wavelet resolution count from the image
// extent: halve both dimensions until either hits zero, clamped to six.
func jpeg2000ResolutionCount(columns, rows int) int {
	count := 0
	tw, th := columns>>1, rows>>1
	for tw > 0 && th > 0 {
		count++
		tw >>= 1
		th >>= 1
	}
	if count > 6 {
		return 6
	}
	return count
}

// DecodeJPEG2000 decodes the JPEG 2000 frame in the encoded buffer. Boxed JP2
// input is unwrapped to its codestream first; unknown prefixes are handed to
// the engine's own detection.
func DecodeJPEG2000(ctx *Context, _ *DecoderParameters) error {
	data := ctx.EncodedBuffer()

	codestream := data
	if sniffJPEG2000Format(data) == jp2FormatBoxed {
		cs, err := extractJP2Codestream(data)
		if err != nil {
			if bytes.HasPrefix(data, jp2RFC3745Magic) {
				return ctx.fail(codecError("jpeg2000", ErrHeaderReadFailed, err))
			}
			// Signature-only prefix without box structure: let the engine try.
			ctx.notify("jpeg2000: %s, passing stream through", err)
		} else {
			codestream = cs
		}
	}

	decoder := jpeg2000.NewDecoder()
	if err := decoder.Decode(codestream); err != nil {
		return ctx.fail(codecError("jpeg2000", ErrDecodeFailed, err))
	}

	depth := (decoder.BitDepth() + 7) / 8
	size := ctx.PixelCount() * decoder.Components() * depth
	pixelData := decoder.GetPixelData()

	ctx.ResizeDecodedBuffer(size)
	copy(ctx.DecodedBuffer(), pixelData)
	return nil
}

// EncodeJPEG2000 compresses the decoded buffer into a raw JPEG 2000
// codestream.
func EncodeJPEG2000(ctx *Context, params *EncoderParameters) error {
	if params == nil {
		params = NewEncoderParameters()
	}
	if err := params.Validate(); err != nil {
		return ctx.fail(err)
	}

	src := ctx.DecodedBuffer()
	if len(src) != ctx.decodedFrameSize() {
		return ctx.fail(codecError("jpeg2000", ErrEncodeFailed,
			frameSizeMismatch(len(src), ctx.decodedFrameSize())))
	}

	encParams := jpeg2000.DefaultEncodeParams(
		ctx.Columns, ctx.Rows, ctx.SamplesPerPixel, ctx.BitsStored,
		ctx.PixelRepresentation == Signed)
	encParams.Lossless = !params.Lossy
	encParams.NumLevels = jpeg2000ResolutionCount(ctx.Columns, ctx.Rows)
	encParams.ProgressionOrder = uint8(params.ProgressionOrder)
	encParams.EnableMCT = ctx.PhotometricInterpretation == Rgb && params.AllowMCT

	// One quality layer at the requested ratio, scaled by the payload width.
	targetRatio := 0.0
	if ctx.BitsAllocated > 0 {
		targetRatio = float64(params.Rate) * float64(ctx.BitsStored) /
			float64(ctx.BitsAllocated)
	}
	if params.Lossy {
		encParams.Quality = params.Quality
		if targetRatio > 0 {
			encParams.TargetRatio = targetRatio
			encParams.UsePCRDOpt = true
		}
	} else if targetRatio > 0 {
		encParams.TargetRatio = targetRatio
		encParams.UsePCRDOpt = true
		// A terminal zero-rate layer keeps the stream decodable losslessly.
		encParams.AppendLosslessLayer = true
		if encParams.NumLayers < 2 {
			encParams.NumLayers = 2
		}
	}

	encoder := jpeg2000.NewEncoder(encParams)
	encoded, err := encoder.Encode(src)
	if err != nil {
		return ctx.fail(codecError("jpeg2000", ErrEncodeFailed, err))
	}

	ctx.SetEncodedBuffer(encoded)
	return nil
}
