package codecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sofStream builds a minimal marker stream holding one start-of-frame
// segment with the given precision and component count.
func sofStream(precision byte, components byte) []byte {
	length := byte(8 + 3*components)
	stream := []byte{0xFF, 0xD8, 0xFF, 0xC0, 0x00, length,
		precision, 0x00, 0x10, 0x00, 0x10, components}
	for c := byte(0); c < components; c++ {
		stream = append(stream, c+1, 0x11, 0x00)
	}
	return stream
}

func TestScanStartOfFrame(t *testing.T) {
	for _, tc := range []struct {
		precision  byte
		components byte
	}{
		{8, 1}, {12, 1}, {16, 1}, {8, 3},
	} {
		marker, precision, components := scanStartOfFrame(sofStream(tc.precision, tc.components))
		assert.EqualValues(t, 0xFFC0, marker)
		assert.EqualValues(t, tc.precision, precision)
		assert.EqualValues(t, tc.components, components)
	}
}

func TestLosslessProcess(t *testing.T) {
	assert.False(t, losslessProcess(0xFFC0))
	assert.False(t, losslessProcess(0xFFC1))
	assert.True(t, losslessProcess(0xFFC3))
	assert.True(t, losslessProcess(0xFFCB))
}

func TestScanStartOfFrameSkipsSegments(t *testing.T) {
	// An APP0 segment before the SOF must be stepped over, not scanned into.
	stream := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x04, 0x0C, 0x0C}
	stream = append(stream, sofStream(12, 1)[2:]...)
	_, precision, components := scanStartOfFrame(stream)
	assert.Equal(t, 12, precision)
	assert.Equal(t, 1, components)
}

func TestScanStartOfFrameMissing(t *testing.T) {
	_, precision, _ := scanStartOfFrame([]byte{0xFF, 0xD8, 0xFF, 0xD9})
	assert.Zero(t, precision)
}

func TestDecodeJPEGBitDepthDispatch(t *testing.T) {
	// The selected variant is visible in the source tag of the engine error.
	for _, tc := range []struct {
		precision byte
		source    string
	}{
		{8, "jpeg8"},
		{12, "jpeg12"},
		{16, "jpeg16"},
	} {
		ctx := NewContext()
		ctx.SetEncodedBuffer(sofStream(tc.precision, 1))
		err := DecodeJPEG(ctx, nil)
		var ce *CodecError
		require.ErrorAs(t, err, &ce, "precision %d", tc.precision)
		assert.Equal(t, tc.source, ce.Source, "precision %d", tc.precision)
	}
}

func TestDecodeJPEGUnsupportedBitDepth(t *testing.T) {
	ctx := NewContext()
	ctx.SetEncodedBuffer(sofStream(17, 1))
	err := DecodeJPEG(ctx, nil)
	var unsupported *UnsupportedBitDepthError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 17, unsupported.BitDepth)
}

func TestDecodeJPEGBitDepthUnknown(t *testing.T) {
	ctx := NewContext()
	ctx.SetEncodedBuffer([]byte{0xFF, 0xD8, 0xFF, 0xD9})
	err := DecodeJPEG(ctx, nil)
	require.ErrorIs(t, err, ErrBitDepthUnknown)
}

func TestDecodeJPEGFallsBackToBitsStored(t *testing.T) {
	ctx := NewContext()
	ctx.BitsStored = 12
	ctx.SetEncodedBuffer([]byte{0xFF, 0xD8, 0xFF, 0xD9})
	err := DecodeJPEG(ctx, nil)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "jpeg12", ce.Source)
}

func TestEncodeJPEGRefusesLossyHighBitDepth(t *testing.T) {
	ctx := frameContext(8, 8, 16, 1, Interleaved)
	params := NewEncoderParameters()
	params.Lossy = true
	err := EncodeJPEG(ctx, params)
	var unsupported *UnsupportedBitDepthError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 16, unsupported.BitDepth)
}

// smoothFrame fills the context with a low-frequency pattern that survives
// lossy compression without pathological artefacts.
func smoothFrame(ctx *Context) {
	data := ctx.DecodedBuffer()
	spp := ctx.SamplesPerPixel
	for y := 0; y < ctx.Rows; y++ {
		for x := 0; x < ctx.Columns; x++ {
			for s := 0; s < spp; s++ {
				data[(y*ctx.Columns+x)*spp+s] = byte(64 + x*4 + y*2)
			}
		}
	}
}

func TestJPEGLosslessRoundTrip(t *testing.T) {
	ctx := frameContext(16, 16, 8, 1, Interleaved)
	original := make([]byte, len(ctx.DecodedBuffer()))
	copy(original, ctx.DecodedBuffer())

	require.NoError(t, EncodeJPEG(ctx, NewEncoderParameters()))
	require.NotEmpty(t, ctx.EncodedBuffer())

	ctx.ResizeDecodedBuffer(0)
	require.NoError(t, DecodeJPEG(ctx, nil))
	assert.Equal(t, original, ctx.DecodedBuffer())
}

func TestJPEGColorConvertPatchesContext(t *testing.T) {
	src := frameContext(16, 16, 8, 3, Interleaved)
	smoothFrame(src)
	params := NewEncoderParameters()
	params.Lossy = true
	require.NoError(t, EncodeJPEG(src, params))

	ctx := NewContext()
	ctx.Columns, ctx.Rows = 16, 16
	ctx.BitsAllocated, ctx.BitsStored = 8, 8
	ctx.SamplesPerPixel = 3
	ctx.PhotometricInterpretation = YbrFull
	ctx.PlanarConfiguration = Planar
	ctx.SetEncodedBuffer(src.EncodedBuffer())

	require.NoError(t, DecodeJPEG(ctx, &DecoderParameters{ConvertColorspaceToRGB: true}))
	assert.Equal(t, Rgb, ctx.PhotometricInterpretation)
	assert.Equal(t, Interleaved, ctx.PlanarConfiguration)
	assert.Len(t, ctx.DecodedBuffer(), 16*16*3)
}

func TestJPEGColorConvertRejectsSigned(t *testing.T) {
	src := frameContext(16, 16, 8, 3, Interleaved)
	smoothFrame(src)
	params := NewEncoderParameters()
	params.Lossy = true
	require.NoError(t, EncodeJPEG(src, params))

	ctx := NewContext()
	ctx.Columns, ctx.Rows = 16, 16
	ctx.BitsAllocated, ctx.BitsStored = 8, 8
	ctx.SamplesPerPixel = 3
	ctx.PixelRepresentation = Signed
	ctx.PhotometricInterpretation = YbrFull
	ctx.SetEncodedBuffer(src.EncodedBuffer())

	err := DecodeJPEG(ctx, &DecoderParameters{ConvertColorspaceToRGB: true})
	require.ErrorIs(t, err, ErrSignedColorConvertUnsupported)
	assert.Equal(t, YbrFull, ctx.PhotometricInterpretation)
	assert.Empty(t, ctx.DecodedBuffer())
}
