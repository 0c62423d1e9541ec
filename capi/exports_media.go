package main

/*
#include "tring.h"
*/
import "C"

import (
	"unsafe"

	"github.com/opd-ai/tring"
	"github.com/opd-ai/tring/codec"
	"github.com/opd-ai/tring/handle"
	"github.com/opd-ai/tring/media"
)

// deviceLookup fills out with the descriptor lookup returns. out is left
// untouched on failure; on success the host owns its strings and releases
// them with freeTringDevice.
func deviceLookup(out *C.TringDevice, lookup func(b *tring.Bridge) (codec.Descriptor, error)) C.int64_t {
	if out == nil {
		return C.int64_t(tring.StatusDecode)
	}
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		d, err := lookup(b)
		if err != nil {
			return err
		}
		*out = newTringDevice(d)
		return nil
	}))
}

// getAudioInputs writes recording device idx, or the index 99 sentinel when
// there is none, into out.
//
//export getAudioInputs
func getAudioInputs(endpoint C.int64_t, idx C.uint32_t, out *C.TringDevice) C.int64_t {
	return deviceLookup(out, func(b *tring.Bridge) (codec.Descriptor, error) {
		return b.AudioInput(handle.Handle(endpoint), uint32(idx))
	})
}

// getAudioOutputs writes playout device idx, or the sentinel, into out.
//
//export getAudioOutputs
func getAudioOutputs(endpoint C.int64_t, idx C.uint32_t, out *C.TringDevice) C.int64_t {
	return deviceLookup(out, func(b *tring.Bridge) (codec.Descriptor, error) {
		return b.AudioOutput(handle.Handle(endpoint), uint32(idx))
	})
}

//export setAudioInput
func setAudioInput(endpoint C.int64_t, index C.uint16_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SetAudioInput(handle.Handle(endpoint), uint16(index))
	}))
}

//export setAudioOutput
func setAudioOutput(endpoint C.int64_t, index C.uint16_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SetAudioOutput(handle.Handle(endpoint), uint16(index))
	}))
}

//export setOutgoingAudioEnabled
func setOutgoingAudioEnabled(endpoint C.int64_t, enable C.bool) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SetOutgoingAudioEnabled(handle.Handle(endpoint), bool(enable))
	}))
}

//export setOutgoingVideoEnabled
func setOutgoingVideoEnabled(endpoint C.int64_t, enable C.bool) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SetOutgoingVideoEnabled(handle.Handle(endpoint), bool(enable))
	}))
}

// sendVideoFrame reads media.InputSize(width, height, pixelFormat) bytes
// from raw. Unsupported dimensions are rejected before raw is touched.
//
//export sendVideoFrame
func sendVideoFrame(endpoint C.int64_t, width, height C.uint32_t, pixelFormat C.int32_t, raw *C.uint8_t) C.int64_t {
	frame := borrowFrame(unsafe.Pointer(raw), uint32(width), uint32(height), media.PixelFormat(pixelFormat))
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SendVideoFrame(handle.Handle(endpoint), uint32(width), uint32(height), int32(pixelFormat), frame)
	}))
}

// fillRemoteVideoFrame writes the latest frame of demuxID as RGBA into
// videoBufferOut. It returns width<<16 | height, 0 when no frame was
// waiting, or a negative status.
//
//export fillRemoteVideoFrame
func fillRemoteVideoFrame(endpoint C.int64_t, demuxID C.int64_t, videoBufferOut *C.uint8_t, length C.size_t) C.int64_t {
	var out []byte
	if videoBufferOut != nil {
		out = unsafe.Slice((*byte)(unsafe.Pointer(videoBufferOut)), int(length))
	}
	return C.int64_t(fillFrame(handle.Handle(endpoint), uint32(demuxID), out))
}
