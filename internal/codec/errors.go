package codec

import (
	"errors"
	"fmt"
)

var (
	ErrMissingPayload         = errors.New("missing payload")
	ErrMissingPort            = errors.New("missing fport")
	ErrMalformedPayload       = errors.New("malformed payload")
	ErrUnsupportedPayloadType = errors.New("unsupported payload type")
)

// CodecNotFoundError is returned by Registry.Resolve for names that were
// never registered. It carries the requested name for diagnosis.
type CodecNotFoundError struct {
	Name string
}

func (e *CodecNotFoundError) Error() string {
	return fmt.Sprintf("codec %q not found in registry", e.Name)
}

// InvalidFrameError reports a frame a codec refused to decode: wrong port,
// wrong length for the frame variant, or an unrecognized discriminator byte.
type InvalidFrameError struct {
	Reason string
}

func (e *InvalidFrameError) Error() string {
	return e.Reason
}

// InvalidFramef builds an InvalidFrameError from a format string. Codecs use
// it for every length/port/discriminator mismatch so callers can match the
// error type regardless of which check failed.
func InvalidFramef(format string, args ...any) error {
	return &InvalidFrameError{Reason: fmt.Sprintf(format, args...)}
}
