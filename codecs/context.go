// Package codecs transcodes a single DICOM image frame between its raw sample
// layout and the compressed bitstreams of the encapsulated transfer syntaxes:
// RLE Lossless, JPEG (baseline and lossless), JPEG-LS, JPEG 2000 and
// High-Throughput JPEG 2000.
//
// All entry points operate on a Context, a plain value object carrying the
// image descriptors and the two frame buffers. The caller populates the
// descriptors and the source buffer, invokes one codec function, and reads the
// destination buffer back. A Context is not safe for concurrent use.
package codecs

import (
	"fmt"

	"github.com/google/uuid"
)

// PixelRepresentation is the sign of the raw samples.
type PixelRepresentation int

const (
	Unsigned PixelRepresentation = iota
	Signed
)

func (r PixelRepresentation) String() string {
	if r == Signed {
		return "Signed"
	}
	return "Unsigned"
}

// PlanarConfiguration is the channel layout of the raw (decoded) buffer.
type PlanarConfiguration int

const (
	// Interleaved stores channels pixel by pixel (RGBRGB...).
	Interleaved PlanarConfiguration = iota
	// Planar stores each channel as a contiguous plane (RR..GG..BB..).
	Planar
)

func (p PlanarConfiguration) String() string {
	if p == Planar {
		return "Planar"
	}
	return "Interleaved"
}

// PhotometricInterpretation describes the colour model of the raw samples.
type PhotometricInterpretation int

const (
	Monochrome1 PhotometricInterpretation = iota
	Monochrome2
	PaletteColor
	Rgb
	YbrFull
	YbrFull422
	YbrPartial422
	YbrPartial420
	YbrIct
	YbrRct
	Cmyk
	Argb
	Hsv
)

var photometricNames = [...]string{
	"Monochrome1", "Monochrome2", "PaletteColor", "Rgb", "YbrFull",
	"YbrFull422", "YbrPartial422", "YbrPartial420", "YbrIct", "YbrRct",
	"Cmyk", "Argb", "Hsv",
}

func (p PhotometricInterpretation) String() string {
	if p < 0 || int(p) >= len(photometricNames) {
		return fmt.Sprintf("PhotometricInterpretation(%d)", int(p))
	}
	return photometricNames[p]
}

// Context holds the image descriptors and the two frame buffers shared by all
// codec entry points. Both buffers are exclusively owned by the context; the
// slices returned by EncodedBuffer and DecodedBuffer stay valid only until the
// next codec call or resize.
type Context struct {
	Columns                   int
	Rows                      int
	BitsAllocated             int
	BitsStored                int
	SamplesPerPixel           int
	PixelRepresentation       PixelRepresentation
	PlanarConfiguration       PlanarConfiguration
	PhotometricInterpretation PhotometricInterpretation

	// OnMessage, when set, receives every diagnostic line the codecs emit,
	// including the text of a failure before its error is returned.
	OnMessage func(message string)

	id      string
	encoded []byte
	decoded []byte
}

// NewContext returns an empty context: all descriptors zero, both buffers
// empty.
func NewContext() *Context {
	return &Context{id: uuid.NewString()}
}

// ID returns the identity assigned to this context at creation, used to
// correlate OnMessage output from interleaved contexts.
func (c *Context) ID() string {
	return c.id
}

// EncodedBuffer returns the compressed frame buffer.
func (c *Context) EncodedBuffer() []byte {
	return c.encoded
}

// DecodedBuffer returns the raw frame buffer.
func (c *Context) DecodedBuffer() []byte {
	return c.decoded
}

// SetEncodedBuffer copies data into the encoded buffer.
func (c *Context) SetEncodedBuffer(data []byte) {
	c.encoded = make([]byte, len(data))
	copy(c.encoded, data)
}

// SetDecodedBuffer copies data into the decoded buffer.
func (c *Context) SetDecodedBuffer(data []byte) {
	c.decoded = make([]byte, len(data))
	copy(c.decoded, data)
}

// ResizeEncodedBuffer resizes the encoded buffer to n bytes. The resize is
// destructive: previous contents are not preserved.
func (c *Context) ResizeEncodedBuffer(n int) {
	c.encoded = make([]byte, n)
}

// ResizeDecodedBuffer resizes the decoded buffer to n bytes. The resize is
// destructive: previous contents are not preserved.
func (c *Context) ResizeDecodedBuffer(n int) {
	c.decoded = make([]byte, n)
}

// BytesAllocated returns the storage width of one sample in bytes, rounding
// bit widths that are not a multiple of eight up to the next byte.
func (c *Context) BytesAllocated() int {
	ba := c.BitsAllocated / 8
	if c.BitsAllocated%8 != 0 {
		ba++
	}
	return ba
}

// PixelCount returns Columns times Rows.
func (c *Context) PixelCount() int {
	return c.Columns * c.Rows
}

// decodedFrameSize is the byte length the decoded buffer must have for the
// context's descriptors.
func (c *Context) decodedFrameSize() int {
	return c.PixelCount() * c.BytesAllocated() * c.SamplesPerPixel
}

func (c *Context) String() string {
	return fmt.Sprintf(
		"Context(%s) %dx%d ba=%d bs=%d spp=%d %s %s %s encoded=%d decoded=%d",
		c.id, c.Columns, c.Rows, c.BitsAllocated, c.BitsStored,
		c.SamplesPerPixel, c.PixelRepresentation, c.PlanarConfiguration,
		c.PhotometricInterpretation, len(c.encoded), len(c.decoded))
}

// notify forwards a diagnostic line to the injected sink, if any.
func (c *Context) notify(format string, args ...any) {
	if c.OnMessage != nil {
		c.OnMessage(fmt.Sprintf(format, args...))
	}
}

// fail reports the error text through the sink and returns the error.
func (c *Context) fail(err error) error {
	c.notify("%s", err.Error())
	return err
}
