package pixelops

import "unsafe"

// bytePtr returns the address of a byte slice's backing array as a
// uintptr, used only to detect overlapping buffers in UnpackRow.
func bytePtr(s []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(s)))
}
