package codecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetByNameAndUID(t *testing.T) {
	byName, err := Get("rle-lossless")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "1.2.840.10008.1.2.5", byName.UID())

	byUID, err := Get(byName.UID())
	require.NoError(t, err)
	assert.Same(t, byName, byUID)
}

func TestRegistryUnknownCodec(t *testing.T) {
	_, err := Get("no-such-codec")
	require.ErrorIs(t, err, ErrCodecNotFound)
}

func TestRegistryListsAllCodecs(t *testing.T) {
	codecs := List()
	assert.Len(t, codecs, 10)

	names := make(map[string]bool)
	for _, c := range codecs {
		names[c.Name] = true
		assert.NotNil(t, c.Decode, c.Name)
		assert.NotNil(t, c.Encode, c.Name)
	}
	for _, name := range []string{
		"rle-lossless", "jpeg-baseline", "jpeg-lossless-sv1",
		"jpegls-lossless", "jpegls-nearlossless",
		"jpeg2000-lossless", "jpeg2000-lossy",
		"htj2k-lossless", "htj2k-lossless-rpcl", "htj2k",
	} {
		assert.True(t, names[name], name)
	}
}

func TestRegistryRoundTripThroughCodec(t *testing.T) {
	c, err := Get("rle-lossless")
	require.NoError(t, err)

	ctx := frameContext(8, 8, 8, 1, Interleaved)
	original := make([]byte, len(ctx.DecodedBuffer()))
	copy(original, ctx.DecodedBuffer())

	require.NoError(t, c.Encode(ctx, NewEncoderParameters()))
	ctx.ResizeDecodedBuffer(0)
	require.NoError(t, c.Decode(ctx, NewDecoderParameters()))
	assert.Equal(t, original, ctx.DecodedBuffer())
}
