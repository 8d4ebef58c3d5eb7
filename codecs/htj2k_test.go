package codecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTJ2KDecompositionCount(t *testing.T) {
	for _, tc := range []struct {
		columns, rows, want int
	}{
		{1, 1, 0},
		{64, 64, 0},
		{64, 8192, 0},
		{65, 65, 1},
		{128, 128, 1},
		{512, 512, 3},
		{8192, 8192, 6},
	} {
		assert.Equal(t, tc.want, htj2kDecompositionCount(tc.columns, tc.rows),
			"%dx%d", tc.columns, tc.rows)
	}
}

func TestHTJ2KPlanarFlag(t *testing.T) {
	assert.True(t, htj2kPlanar(1, false))
	assert.True(t, htj2kPlanar(1, true))
	assert.True(t, htj2kPlanar(3, false))
	assert.False(t, htj2kPlanar(3, true))
}

func TestProgressionOrderTable(t *testing.T) {
	want := []string{"LRCP", "RLCP", "RPCL", "PCRL", "CPRL"}
	for i, name := range want {
		assert.Equal(t, name, ProgressionOrder(i).String())
	}
}

func htj2kRoundTrip(t *testing.T, ctx *Context) {
	t.Helper()
	original := make([]byte, len(ctx.DecodedBuffer()))
	copy(original, ctx.DecodedBuffer())

	require.NoError(t, EncodeHTJPEG2000(ctx, NewEncoderParameters()))
	require.NotEmpty(t, ctx.EncodedBuffer())

	ctx.ResizeDecodedBuffer(0)
	require.NoError(t, DecodeHTJPEG2000(ctx, nil))
	assert.Equal(t, original, ctx.DecodedBuffer())
}

func TestHTJ2KRoundTripMono8(t *testing.T) {
	htj2kRoundTrip(t, frameContext(16, 16, 8, 1, Interleaved))
}

func TestHTJ2KRoundTripRGB8(t *testing.T) {
	htj2kRoundTrip(t, frameContext(8, 8, 8, 3, Interleaved))
}

func TestHTJ2KRoundTripRGB8Planar(t *testing.T) {
	htj2kRoundTrip(t, frameContext(8, 8, 8, 3, Planar))
}

func TestHTJ2KRoundTripGray16(t *testing.T) {
	htj2kRoundTrip(t, frameContext(16, 8, 16, 1, Interleaved))
}

func TestHTJ2KRoundTripSigned16(t *testing.T) {
	ctx := frameContext(8, 8, 16, 1, Interleaved)
	ctx.PixelRepresentation = Signed
	htj2kRoundTrip(t, ctx)
}

func TestHTJ2KEncodeEmitsTrace(t *testing.T) {
	ctx := frameContext(8, 8, 8, 1, Interleaved)
	var messages []string
	ctx.OnMessage = func(m string) { messages = append(messages, m) }

	require.NoError(t, EncodeHTJPEG2000(ctx, NewEncoderParameters()))
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[0], "LRCP")
	assert.Contains(t, messages[0], "planar=true")
}

func TestHTJ2KEncodeRejectsWrongFrameSize(t *testing.T) {
	ctx := frameContext(8, 8, 8, 1, Interleaved)
	ctx.SetDecodedBuffer([]byte{1, 2})
	err := EncodeHTJPEG2000(ctx, NewEncoderParameters())
	require.ErrorIs(t, err, ErrEncodeFailed)
}
