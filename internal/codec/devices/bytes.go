// Package devices contains the per-model payload codecs and the static
// registry binding model names to them. Every codec follows the same
// contract: pure decoding of one canonical byte slice for one declared set
// of FPorts, with *codec.InvalidFrameError for any frame that does not
// match the device's documented layout.
package devices

import "encoding/binary"

func be16(b []byte) int {
	return int(binary.BigEndian.Uint16(b))
}

func be16s(b []byte) int {
	return int(int16(binary.BigEndian.Uint16(b)))
}

func be32(b []byte) int {
	return int(binary.BigEndian.Uint32(b))
}

func le16(b []byte) int {
	return int(binary.LittleEndian.Uint16(b))
}

func le16s(b []byte) int {
	return int(int16(binary.LittleEndian.Uint16(b)))
}

// le24 reads a 3-byte little-endian counter, a layout several Browan and
// MerryIoT frames use for event counts.
func le24(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

func le32(b []byte) int {
	return int(binary.LittleEndian.Uint32(b))
}
