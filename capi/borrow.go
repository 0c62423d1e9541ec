package main

import (
	"unsafe"

	"github.com/opd-ai/tring/media"
)

// copyBytes copies n bytes starting at p into Go memory.
func copyBytes(p unsafe.Pointer, n uint64) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return append([]byte(nil), unsafe.Slice((*byte)(p), n)...)
}

// borrowFrame views the media.InputSize bytes of an outgoing frame at raw.
// The view is only valid until the entry point returns. It is nil when raw
// is nil or the frame description is unsupported.
func borrowFrame(raw unsafe.Pointer, width, height uint32, format media.PixelFormat) []byte {
	if raw == nil || media.Check(width, height, format) != nil {
		return nil
	}
	return unsafe.Slice((*byte)(raw), media.InputSize(width, height, format))
}
