// Package planar converts single-byte pixel data between the interleaved
// (RGBRGB...) and planar (RR..GG..BB..) channel layouts.
package planar

import "fmt"

// Configuration is the channel layout of a pixel buffer.
type Configuration int

const (
	Interleaved Configuration = iota
	Planar
)

func (c Configuration) String() string {
	if c == Planar {
		return "Planar"
	}
	return "Interleaved"
}

// UnsupportedBitsAllocatedError is returned for sample widths the transform
// has no byte-order contract for.
type UnsupportedBitsAllocatedError struct {
	BitsAllocated int
}

func (e *UnsupportedBitsAllocatedError) Error() string {
	return fmt.Sprintf("planar: unsupported bits allocated (%d)", e.BitsAllocated)
}

// ChangeConfiguration transposes pixelData in place from old to the opposite
// layout. Only single-byte samples are supported; wider samples would need an
// explicit endianness contract.
func ChangeConfiguration(pixelData []byte, bitsAllocated, samplesPerPixel int, old Configuration) error {
	bytesAllocated := (bitsAllocated + 7) / 8
	if bytesAllocated != 1 {
		return &UnsupportedBitsAllocatedError{BitsAllocated: bitsAllocated}
	}
	numValues := len(pixelData)
	numPixels := numValues / samplesPerPixel

	buffer := make([]byte, numValues)
	if old == Planar {
		for n := 0; n < numPixels; n++ {
			for s := 0; s < samplesPerPixel; s++ {
				buffer[n*samplesPerPixel+s] = pixelData[n+numPixels*s]
			}
		}
	} else {
		for n := 0; n < numPixels; n++ {
			for s := 0; s < samplesPerPixel; s++ {
				buffer[n+numPixels*s] = pixelData[n*samplesPerPixel+s]
			}
		}
	}
	copy(pixelData, buffer)
	return nil
}
