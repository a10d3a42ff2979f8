// Package endian provides the byte order used by EvtFile containers.
//
// Producers of the original format wrote integers in the host byte order. Every
// supported producer host was little-endian, so containers are read and written
// as little-endian everywhere, and the host order is only reported for
// diagnostics.
//
//	engine := endian.FileEngine()
//	buf = engine.AppendUint32(buf, magic)
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder.
//
// Both binary.LittleEndian and binary.BigEndian satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness reports the byte order of the running host.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// FileEngine returns the engine used for all on-disk integers and floats.
func FileEngine() EndianEngine {
	return binary.LittleEndian
}

// HostMatchesFile reports whether the host order equals the container order,
// in which case raw section bytes can be reinterpreted without swapping.
func HostMatchesFile() bool {
	return IsNativeLittleEndian()
}

// HostOrderName returns "little-endian" or "big-endian" for the running host.
func HostOrderName() string {
	if IsNativeLittleEndian() {
		return "little-endian"
	}

	return "big-endian"
}
