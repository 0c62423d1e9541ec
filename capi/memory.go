package main

/*
#include "tring.h"
*/
import "C"

import (
	"unsafe"

	"github.com/opd-ai/tring/codec"
)

// newJArrayByte copies b into malloc'd memory. The data pointer is never
// NULL, even for an empty buffer.
func newJArrayByte(b []byte) C.JArrayByte {
	return C.JArrayByte{len: C.size_t(len(b)), data: cbytes(b)}
}

func newRString(s string) C.RString {
	return C.RString{len: C.size_t(len(s)), buff: (*C.uint8_t)(cbytes([]byte(s)))}
}

func newJPString(s string) C.JPString {
	return C.JPString{len: C.size_t(len(s)), buff: (*C.uint8_t)(cbytes([]byte(s)))}
}

func cbytes(b []byte) unsafe.Pointer {
	p := C.malloc(C.size_t(max(len(b), 1)))
	if len(b) > 0 {
		copy(unsafe.Slice((*byte)(p), len(b)), b)
	}
	return p
}

func freeJPString(s C.JPString) {
	C.free(unsafe.Pointer(s.buff))
}

func releaseJArrayByte(a C.JArrayByte) {
	C.free(a.data)
}

func goBytes(a C.JByteArray) []byte {
	return copyBytes(unsafe.Pointer(a.buff), uint64(a.len))
}

func goString(s C.JPString) string {
	return string(copyBytes(unsafe.Pointer(s.buff), uint64(s.len)))
}

// goBatch copies a host batch. Rows past the batch capacity are never read;
// a len beyond it is left for codec.DecodeBatch to reject.
func goBatch(pack *C.JByteArray2D) codec.Batch {
	var b codec.Batch
	if pack == nil {
		return b
	}
	b.Len = int(pack.len)
	if pack.len > codec.BatchCapacity {
		return b
	}
	for i := 0; i < b.Len; i++ {
		row := goBytes(pack.buff[i])
		b.Rows[i] = codec.Buffer{Len: len(row), Data: row}
	}
	return b
}

func newTringDevice(d codec.Descriptor) C.TringDevice {
	return C.TringDevice{
		index:     C.uint32_t(d.Index),
		name:      newRString(string(d.Name.Bytes())),
		unique_id: newRString(string(d.UniqueID.Bytes())),
		int_key:   newRString(string(d.LocalizationKey.Bytes())),
	}
}

// freeJArrayByte releases a buffer the library handed to the host.
//
//export freeJArrayByte
func freeJArrayByte(a C.JArrayByte) {
	releaseJArrayByte(a)
}

// freeTringDevice releases the strings of a device descriptor.
//
//export freeTringDevice
func freeTringDevice(d *C.TringDevice) {
	if d == nil {
		return
	}
	C.free(unsafe.Pointer(d.name.buff))
	C.free(unsafe.Pointer(d.unique_id.buff))
	C.free(unsafe.Pointer(d.int_key.buff))
	*d = C.TringDevice{}
}
