// Package pipeline implements the staged enrichment and unpacking state
// machine over the enrichment log, plus the decode dispatcher that forms the
// error boundary between codecs and the rest of the service.
package pipeline

import (
	"fmt"

	"lorawan-transform-service/internal/codec"
	"lorawan-transform-service/internal/domain/uplink"
)

// DecodeError is the single failure shape the dispatcher produces. Whatever
// went wrong below it — missing payload, registry miss, invalid frame, even
// a codec panic — is wrapped here so the batch never crashes on a bad frame.
type DecodeError struct {
	DevEUI string
	Port   *int
	Cause  error
}

func (e *DecodeError) Error() string {
	port := "<nil>"
	if e.Port != nil {
		port = fmt.Sprintf("%d", *e.Port)
	}
	return fmt.Sprintf("decode failed for DevEUI=%s Port=%s: %v", e.DevEUI, port, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// SafeUnpack resolves the codec for an uplink and decodes its payload.
// It validates payload and port presence, coalesces the payload to canonical
// bytes, resolves the codec by name, and invokes it with panics recovered.
// On failure the returned *DecodeError carries the device, port and cause;
// the raw codec error never propagates past this boundary.
func SafeUnpack(reg *codec.Registry, codecName string, up *uplink.Uplink) (fields codec.Fields, derr *DecodeError) {
	fail := func(cause error) (codec.Fields, *DecodeError) {
		return nil, &DecodeError{DevEUI: up.DevEUI, Port: up.FPort, Cause: cause}
	}

	defer func() {
		if r := recover(); r != nil {
			fields = nil
			derr = &DecodeError{
				DevEUI: up.DevEUI,
				Port:   up.FPort,
				Cause:  fmt.Errorf("codec panic: %v", r),
			}
		}
	}()

	if len(up.Payload) == 0 {
		return fail(codec.ErrMissingPayload)
	}
	if up.FPort == nil {
		return fail(codec.ErrMissingPort)
	}

	b, err := codec.NormalizePayload(up.Payload)
	if err != nil {
		return fail(err)
	}

	fn, err := reg.Resolve(codecName)
	if err != nil {
		return fail(err)
	}

	decoded, err := fn(b, *up.FPort)
	if err != nil {
		return fail(err)
	}

	return decoded, nil
}
