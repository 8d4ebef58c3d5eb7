// Package rle implements the DICOM RLE Lossless frame format: a fixed 64-byte
// header of little-endian segment offsets followed by up to fifteen PackBits
// byte streams, one per byte plane of one sample channel.
package rle

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// maxSegments is the number of offset slots in the frame header.
	maxSegments = 15

	// headerSize is the fixed frame header: a uint32 segment count followed
	// by fifteen int32 segment offsets.
	headerSize = 4 + maxSegments*4
)

var (
	// ErrHeaderTooShort is returned when the stream cannot hold the header.
	ErrHeaderTooShort = errors.New("rle: stream too short for header")

	// ErrInputOverflow is returned when a literal run reads past the end of
	// its segment.
	ErrInputOverflow = errors.New("rle: literal run exceeds input segment")

	// ErrOutputOverflow is returned when a run writes past the end of the
	// output buffer.
	ErrOutputOverflow = errors.New("rle: run exceeds output buffer length")
)

// SegmentOutOfRangeError is returned when a segment index is not within the
// stream's declared segment count.
type SegmentOutOfRangeError struct {
	Segment int
}

func (e *SegmentOutOfRangeError) Error() string {
	return fmt.Sprintf("rle: segment number out of range (%d)", e.Segment)
}

// Decoder expands the segments of one encoded RLE frame.
type Decoder struct {
	data         []byte
	segmentCount int
	offsets      [maxSegments]int32
}

// NewDecoder parses the frame header of data. The segment bodies are read
// lazily by DecodeSegment.
func NewDecoder(data []byte) (*Decoder, error) {
	if len(data) < headerSize {
		return nil, ErrHeaderTooShort
	}
	d := &Decoder{data: data}
	d.segmentCount = int(binary.LittleEndian.Uint32(data[0:4]))
	for i := 0; i < maxSegments; i++ {
		d.offsets[i] = int32(binary.LittleEndian.Uint32(data[4+i*4 : 8+i*4]))
	}
	if d.segmentCount < 1 || d.segmentCount > maxSegments {
		return nil, fmt.Errorf("rle: invalid segment count (%d)", d.segmentCount)
	}
	return d, nil
}

// SegmentCount returns the number of segments the header declares.
func (d *Decoder) SegmentCount() int {
	return d.segmentCount
}

func (d *Decoder) segmentOffset(segment int) int {
	return int(d.offsets[segment])
}

// segmentLength derives a segment's byte length from the offset of its
// successor, or from the stream length for the last segment.
func (d *Decoder) segmentLength(segment int) int {
	offset := d.segmentOffset(segment)
	if segment < d.segmentCount-1 {
		return d.segmentOffset(segment+1) - offset
	}
	return len(d.data) - offset
}

// DecodeSegment expands segment into dst, writing the first decoded byte at
// start and advancing the write position by stride after every byte. Decoding
// stops when the segment is exhausted or the write position passes the end of
// dst.
func (d *Decoder) DecodeSegment(segment int, dst []byte, start, stride int) error {
	if segment < 0 || segment >= d.segmentCount {
		return &SegmentOutOfRangeError{Segment: segment}
	}
	offset := d.segmentOffset(segment)
	length := d.segmentLength(segment)
	if offset < headerSize || length < 0 || offset+length > len(d.data) {
		return fmt.Errorf("rle: invalid offset for segment %d (%d)", segment, offset)
	}
	return decode(dst, start, stride, d.data, offset, length)
}

func decode(dst []byte, start, stride int, data []byte, offset, count int) error {
	pos := start
	end := offset + count

	for i := offset; i < end && pos < len(dst); {
		control := int8(data[i])
		i++
		switch {
		case control >= 0:
			// Literal run of control+1 bytes.
			length := int(control) + 1
			if end-i < length {
				return ErrInputOverflow
			}
			if pos+(length-1)*stride >= len(dst) {
				return ErrOutputOverflow
			}
			if stride == 1 {
				copy(dst[pos:], data[i:i+length])
				pos += length
				i += length
			} else {
				for ; length > 0; length-- {
					dst[pos] = data[i]
					i++
					pos += stride
				}
			}
		case control >= -127:
			// Repeat run: the next byte occurs -control+1 times.
			length := int(-int(control))
			if i >= end {
				return ErrInputOverflow
			}
			if pos+length*stride >= len(dst) {
				return ErrOutputOverflow
			}
			b := data[i]
			i++
			for n := 0; n <= length; n++ {
				dst[pos] = b
				pos += stride
			}
		default:
			// -128 is a no-op.
		}
	}
	return nil
}
