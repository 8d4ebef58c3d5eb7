package codecs

import (
	"errors"
	"sync"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
)

// DecodeFunc is a decode entry point operating on a context.
type DecodeFunc func(ctx *Context, params *DecoderParameters) error

// EncodeFunc is an encode entry point operating on a context.
type EncodeFunc func(ctx *Context, params *EncoderParameters) error

// Codec pairs the entry points serving one transfer syntax.
type Codec struct {
	Name   string
	Syntax *transfer.Syntax
	Decode DecodeFunc
	Encode EncodeFunc
}

// UID returns the transfer syntax UID the codec serves.
func (c *Codec) UID() string {
	return c.Syntax.UID().UID()
}

// ErrCodecNotFound is returned when no codec serves a transfer syntax.
var ErrCodecNotFound = errors.New("codec not found")

// Registry maps transfer syntaxes to codecs. The zero value is not usable;
// use NewRegistry.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]*Codec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]*Codec)}
}

var defaultRegistry = NewRegistry()

// Register adds a codec to the default registry under both its name and its
// transfer syntax UID.
func Register(codec *Codec) {
	defaultRegistry.Register(codec)
}

// Get retrieves a codec from the default registry by name or UID.
func Get(nameOrUID string) (*Codec, error) {
	return defaultRegistry.Get(nameOrUID)
}

// List returns all codecs in the default registry.
func List() []*Codec {
	return defaultRegistry.List()
}

// Register adds a codec under both its name and its transfer syntax UID.
func (r *Registry) Register(codec *Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[codec.Name] = codec
	r.codecs[codec.UID()] = codec
}

// Get retrieves a codec by name or UID.
func (r *Registry) Get(nameOrUID string) (*Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, ok := r.codecs[nameOrUID]
	if !ok {
		return nil, ErrCodecNotFound
	}
	return codec, nil
}

// List returns all registered codecs, deduplicated.
func (r *Registry) List() []*Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[*Codec]bool)
	codecs := make([]*Codec, 0, len(r.codecs))
	for _, codec := range r.codecs {
		if !seen[codec] {
			seen[codec] = true
			codecs = append(codecs, codec)
		}
	}
	return codecs
}

func init() {
	Register(&Codec{Name: "rle-lossless", Syntax: transfer.RLELossless,
		Decode: DecodeRLE, Encode: EncodeRLE})
	Register(&Codec{Name: "jpeg-baseline", Syntax: transfer.JPEGBaseline8Bit,
		Decode: DecodeJPEG, Encode: EncodeJPEG})
	Register(&Codec{Name: "jpeg-lossless-sv1", Syntax: transfer.JPEGLosslessSV1,
		Decode: DecodeJPEG, Encode: EncodeJPEG})
	Register(&Codec{Name: "jpegls-lossless", Syntax: transfer.JPEGLSLossless,
		Decode: DecodeJPEGLS, Encode: EncodeJPEGLS})
	Register(&Codec{Name: "jpegls-nearlossless", Syntax: transfer.JPEGLSNearLossless,
		Decode: DecodeJPEGLS, Encode: EncodeJPEGLS})
	Register(&Codec{Name: "jpeg2000-lossless", Syntax: transfer.JPEG2000Lossless,
		Decode: DecodeJPEG2000, Encode: EncodeJPEG2000})
	Register(&Codec{Name: "jpeg2000-lossy", Syntax: transfer.JPEG2000,
		Decode: DecodeJPEG2000, Encode: EncodeJPEG2000})
	Register(&Codec{Name: "htj2k-lossless", Syntax: transfer.HTJ2KLossless,
		Decode: DecodeHTJPEG2000, Encode: EncodeHTJPEG2000})
	Register(&Codec{Name: "htj2k-lossless-rpcl", Syntax: transfer.HTJ2KLosslessRPCL,
		Decode: DecodeHTJPEG2000, Encode: EncodeHTJPEG2000})
	Register(&Codec{Name: "htj2k", Syntax: transfer.HTJ2K,
		Decode: DecodeHTJPEG2000, Encode: EncodeHTJPEG2000})
}
