package uplink

import "errors"

var (
	ErrUplinkNotFound  = errors.New("uplink not found")
	ErrReadingNotFound = errors.New("reading not found")
)
