package rle

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// literalBufferSize leaves slack above the 128-byte flush threshold for the
// window between run detection and flushing.
const literalBufferSize = 132

// ErrTooManySegments is returned when NextSegment is called after all fifteen
// header slots are in use.
var ErrTooManySegments = errors.New("rle: too many segments")

// Encoder produces one RLE frame. Open a segment with NextSegment, feed it
// byte by byte with Encode, close it with Flush, and finish the frame with
// MakeEvenLength followed by Bytes.
type Encoder struct {
	segmentCount int
	offsets      [maxSegments]int32
	stream       bytes.Buffer

	buffer    [literalBufferSize]byte
	bufferPos int

	// prevByte is the pending input byte, or -1 when no byte is pending.
	prevByte    int
	repeatCount int

	headerWritten bool
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{prevByte: -1}
}

// SegmentCount returns the number of segments opened so far.
func (e *Encoder) SegmentCount() int {
	return e.segmentCount
}

// Len returns the current stream length. Before Bytes is called this is the
// body length only; afterwards it includes the header.
func (e *Encoder) Len() int {
	return e.stream.Len()
}

// NextSegment closes the current segment, pads the stream to even length and
// records the start offset of the next segment.
func (e *Encoder) NextSegment() error {
	if e.segmentCount == maxSegments {
		return ErrTooManySegments
	}
	e.Flush()
	if e.stream.Len()&1 == 1 {
		e.stream.WriteByte(0x00)
	}
	e.offsets[e.segmentCount] = int32(e.stream.Len())
	e.segmentCount++
	return nil
}

// Encode consumes one input byte.
func (e *Encoder) Encode(b byte) {
	if int(b) == e.prevByte {
		e.repeatCount++

		if e.repeatCount > 2 && e.bufferPos > 0 {
			// The pending literals are complete: a run is forming behind them.
			for e.bufferPos > 0 {
				e.flushLiteral()
			}
		} else if e.repeatCount > 128 {
			e.stream.WriteByte(byte(257 - 128))
			e.stream.WriteByte(byte(e.prevByte))
			e.repeatCount -= 128
		}
		return
	}

	switch e.repeatCount {
	case 0:
	case 1:
		e.buffer[e.bufferPos] = byte(e.prevByte)
		e.bufferPos++
	case 2:
		// Two equal bytes are cheaper as literals than as a run.
		e.buffer[e.bufferPos] = byte(e.prevByte)
		e.bufferPos++
		e.buffer[e.bufferPos] = byte(e.prevByte)
		e.bufferPos++
	default:
		for e.repeatCount > 0 {
			count := e.repeatCount
			if count > 128 {
				count = 128
			}
			e.stream.WriteByte(byte(257 - count))
			e.stream.WriteByte(byte(e.prevByte))
			e.repeatCount -= count
		}
	}

	for e.bufferPos > 128 {
		e.flushLiteral()
	}

	e.prevByte = int(b)
	e.repeatCount = 1
}

// Flush emits all pending state and resets the run tracker.
func (e *Encoder) Flush() {
	if e.repeatCount < 2 {
		for e.repeatCount > 0 {
			e.buffer[e.bufferPos] = byte(e.prevByte)
			e.bufferPos++
			e.repeatCount--
		}
	}

	for e.bufferPos > 0 {
		e.flushLiteral()
	}

	if e.repeatCount >= 2 {
		for e.repeatCount > 0 {
			count := e.repeatCount
			if count > 128 {
				count = 128
			}
			e.stream.WriteByte(byte(257 - count))
			e.stream.WriteByte(byte(e.prevByte))
			e.repeatCount -= count
		}
	}

	e.prevByte = -1
	e.repeatCount = 0
	e.bufferPos = 0
}

// flushLiteral emits one literal run of up to 128 buffered bytes.
func (e *Encoder) flushLiteral() {
	count := e.bufferPos
	if count > 128 {
		count = 128
	}
	e.stream.WriteByte(byte(count - 1))
	e.stream.Write(e.buffer[:count])
	copy(e.buffer[:], e.buffer[count:e.bufferPos])
	e.bufferPos -= count
}

// MakeEvenLength pads the stream with a single zero byte when its length is
// odd.
func (e *Encoder) MakeEvenLength() {
	if e.stream.Len()%2 == 1 {
		e.stream.WriteByte(0)
	}
}

// writeHeader prepends the frame header: the segment count and all fifteen
// offset slots, each offset biased by the header size. Slots beyond the
// segment count keep their prior value.
func (e *Encoder) writeHeader() {
	body := make([]byte, e.stream.Len())
	copy(body, e.stream.Bytes())
	e.stream.Reset()

	var word [4]byte
	binary.LittleEndian.PutUint32(word[:], uint32(e.segmentCount))
	e.stream.Write(word[:])
	for i := 0; i < e.segmentCount; i++ {
		e.offsets[i] += headerSize
	}
	for i := 0; i < maxSegments; i++ {
		binary.LittleEndian.PutUint32(word[:], uint32(e.offsets[i]))
		e.stream.Write(word[:])
	}
	e.stream.Write(body)
}

// Bytes flushes any pending run, writes the frame header and returns the
// complete encoded frame. The returned slice is owned by the encoder.
func (e *Encoder) Bytes() []byte {
	if !e.headerWritten {
		e.Flush()
		e.writeHeader()
		e.headerWritten = true
	}
	return e.stream.Bytes()
}
