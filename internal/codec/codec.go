// Package codec holds the payload decoding framework for the uplink
// transform pipeline: the canonical payload normalization (frame reader),
// the model-name to decoder registry, and the error taxonomy shared by all
// device codecs.
package codec

import "strings"

// Fields is the semantic field mapping produced by a device codec.
// Values are scalars: numbers, booleans, or strings.
type Fields map[string]any

// DecodeFunc decodes one device model's binary frame for a given LoRaWAN
// FPort. Implementations are pure: no I/O, no retained state, and any
// malformed frame is reported as an *InvalidFrameError.
type DecodeFunc func(payload []byte, port int) (Fields, error)

// Registry maps device model names to their decode functions. It is built
// once at startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	codecs map[string]DecodeFunc
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]DecodeFunc)}
}

// Register binds a model name to a decoder. Names are canonicalized the same
// way Resolve canonicalizes them, so registration and lookup agree on case
// and surrounding whitespace.
func (r *Registry) Register(name string, fn DecodeFunc) {
	r.codecs[canonicalName(name)] = fn
}

// Resolve returns the decoder for a model name, or a *CodecNotFoundError
// carrying the requested name.
func (r *Registry) Resolve(name string) (DecodeFunc, error) {
	fn, ok := r.codecs[canonicalName(name)]
	if !ok {
		return nil, &CodecNotFoundError{Name: name}
	}
	return fn, nil
}

// Names returns every registered model name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	return names
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
