// Package byteorder probes the host byte order and provides the 16 and
// 32-bit swaps used to normalize foreign-endian records.
package byteorder

import (
	"encoding/binary"
	"unsafe"
)

var native = func() binary.ByteOrder {
	probe := uint16(0xaa55)
	if *(*byte)(unsafe.Pointer(&probe)) == 0x55 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()

// Native returns the byte order of the host, probed once at startup.
func Native() binary.ByteOrder {
	return native
}

// Swap16 reverses the byte order of a 16-bit value.
func Swap16(v uint16) uint16 {
	return v<<8 | v>>8
}

// Swap32 reverses the byte order of a 32-bit value.
func Swap32(v uint32) uint32 {
	return v<<24 | (v&0xff00)<<8 | (v>>8)&0xff00 | v>>24
}

// Swap32S is Swap32 for signed values, for records that carry int32
// fields such as relocation addends.
func Swap32S(v int32) int32 {
	return int32(Swap32(uint32(v)))
}
