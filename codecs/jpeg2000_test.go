package codecs

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffJPEG2000Format(t *testing.T) {
	boxed := append([]byte{}, jp2RFC3745Magic...)
	boxed = append(boxed, 0xDE, 0xAD)

	for _, tc := range []struct {
		name string
		data []byte
		want jpeg2000Format
	}{
		{"boxed", boxed, jp2FormatBoxed},
		{"bare-signature", []byte{0x0d, 0x0a, 0x87, 0x0a, 0x00}, jp2FormatBoxed},
		{"codestream", []byte{0xff, 0x4f, 0xff, 0x51, 0x00}, jp2FormatCodestream},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03, 0x04}, jp2FormatUnknown},
		{"short", []byte{0xff}, jp2FormatUnknown},
	} {
		assert.Equal(t, tc.want, sniffJPEG2000Format(tc.data), tc.name)
	}
}

// box assembles one JP2 box with the standard 8-byte header.
func box(boxType string, payload []byte) []byte {
	b := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(b[0:4], uint32(8+len(payload)))
	copy(b[4:8], boxType)
	copy(b[8:], payload)
	return b
}

func TestExtractJP2Codestream(t *testing.T) {
	codestream := []byte{0xff, 0x4f, 0xff, 0x51, 0x11, 0x22}
	file := box("jP  ", []byte{0x0d, 0x0a, 0x87, 0x0a})
	file = append(file, box("ftyp", []byte("jp2 "))...)
	file = append(file, box("jp2c", codestream)...)

	got, err := extractJP2Codestream(file)
	require.NoError(t, err)
	assert.Equal(t, codestream, got)
}

func TestExtractJP2CodestreamZeroLength(t *testing.T) {
	// A zero box length means the box runs to the end of the stream.
	codestream := []byte{0xff, 0x4f, 0xff, 0x51}
	last := box("jp2c", codestream)
	binary.BigEndian.PutUint32(last[0:4], 0)
	file := append(box("jP  ", []byte{0x0d, 0x0a, 0x87, 0x0a}), last...)

	got, err := extractJP2Codestream(file)
	require.NoError(t, err)
	assert.Equal(t, codestream, got)
}

func TestExtractJP2CodestreamMissing(t *testing.T) {
	file := box("ftyp", []byte("jp2 "))
	_, err := extractJP2Codestream(file)
	require.Error(t, err)
}

func TestJPEG2000ResolutionCount(t *testing.T) {
	for _, tc := range []struct {
		columns, rows, want int
	}{
		{1, 1, 0},
		{1, 512, 0},
		{2, 2, 1},
		{16, 16, 4},
		{64, 64, 6},
		{8192, 8192, 6},
	} {
		assert.Equal(t, tc.want, jpeg2000ResolutionCount(tc.columns, tc.rows),
			"%dx%d", tc.columns, tc.rows)
	}
}

func TestDecodeJPEG2000Garbage(t *testing.T) {
	ctx := NewContext()
	ctx.Columns, ctx.Rows = 4, 4
	ctx.SetEncodedBuffer([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
	err := DecodeJPEG2000(ctx, nil)
	require.ErrorIs(t, err, ErrDecodeFailed)

	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "jpeg2000", ce.Source)
}

func TestEncodeJPEG2000RejectsWrongFrameSize(t *testing.T) {
	ctx := frameContext(8, 8, 8, 1, Interleaved)
	ctx.SetDecodedBuffer([]byte{1, 2, 3})
	err := EncodeJPEG2000(ctx, NewEncoderParameters())
	require.ErrorIs(t, err, ErrEncodeFailed)
}
