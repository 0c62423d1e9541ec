package main

/*
#include "tring.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/opd-ai/tring/host"
)

// ErrHostCall indicates a host runtime function returned a failure code.
var ErrHostCall = errors.New("host runtime call failed")

// cRuntime adapts a host-supplied HostRuntime to host.Runtime. The struct
// is copied into C memory so it outlives the initRingRTC call.
type cRuntime struct {
	rt *C.HostRuntime
}

func newCRuntime(rt *C.HostRuntime) *cRuntime {
	p := (*C.HostRuntime)(C.malloc(C.sizeof_HostRuntime))
	*p = *rt
	return &cRuntime{rt: p}
}

func (r *cRuntime) free() {
	C.free(unsafe.Pointer(r.rt))
}

func hostResult(function string, rc C.int32_t) error {
	if rc != 0 {
		return fmt.Errorf("%w: %s returned %d", ErrHostCall, function, int32(rc))
	}
	return nil
}

// AttachCurrentThread asks the host to attach the calling thread. Hosts
// without an attach function are always attached.
func (r *cRuntime) AttachCurrentThread() (host.Env, error) {
	if err := hostResult("attachCurrentThread", C.call_attach(r.rt)); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *cRuntime) RemoteDevicesChanged(clientID uint32, demuxIDs []int64) error {
	var ids *C.int64_t
	if len(demuxIDs) > 0 {
		ids = (*C.int64_t)(unsafe.Pointer(&demuxIDs[0]))
	}
	return hostResult("remoteDevicesChanged",
		C.call_remote_devices(r.rt, C.uint32_t(clientID), ids, C.size_t(len(demuxIDs))))
}

// peekRecord is a PeekArgs laid out in C memory for one host call.
type peekRecord struct {
	members  *C.JArrayByte
	count    C.size_t
	creator  C.JArrayByte
	eraID    C.JPString
	hasEraID C.bool
}

func newPeekRecord(args host.PeekArgs) *peekRecord {
	rec := &peekRecord{count: C.size_t(len(args.Members)), creator: newJArrayByte(args.Creator)}
	if len(args.Members) > 0 {
		rec.members = (*C.JArrayByte)(C.malloc(C.size_t(len(args.Members)) * C.size_t(C.sizeof_JArrayByte)))
		rows := unsafe.Slice(rec.members, len(args.Members))
		for i, m := range args.Members {
			rows[i] = newJArrayByte(m)
		}
	}
	if args.EraID != nil {
		rec.eraID = newJPString(*args.EraID)
		rec.hasEraID = true
	} else {
		rec.eraID = newJPString("")
	}
	return rec
}

func (rec *peekRecord) free() {
	if rec.members != nil {
		for _, m := range unsafe.Slice(rec.members, int(rec.count)) {
			releaseJArrayByte(m)
		}
		C.free(unsafe.Pointer(rec.members))
	}
	releaseJArrayByte(rec.creator)
	freeJPString(rec.eraID)
}

func (r *cRuntime) PeekResult(requestID uint32, args host.PeekArgs) error {
	rec := newPeekRecord(args)
	defer rec.free()
	return hostResult("peekResult", C.call_peek_result(r.rt, C.uint32_t(requestID),
		rec.members, rec.count, rec.creator, rec.eraID, rec.hasEraID,
		C.int64_t(args.MaxDevices), C.int64_t(args.DeviceCount)))
}

func (r *cRuntime) PeekChanged(clientID uint32, args host.PeekArgs) error {
	rec := newPeekRecord(args)
	defer rec.free()
	return hostResult("peekChanged", C.call_peek_changed(r.rt, C.uint32_t(clientID),
		rec.members, rec.count, rec.creator, rec.eraID, rec.hasEraID,
		C.int64_t(args.MaxDevices), C.int64_t(args.DeviceCount)))
}

func (r *cRuntime) MakeHTTPRequest(args host.HTTPRequestArgs) error {
	url := newJPString(args.URL)
	headers := newJArrayByte(args.Headers)
	body := newJArrayByte(args.Body)
	defer func() {
		freeJPString(url)
		releaseJArrayByte(headers)
		releaseJArrayByte(body)
	}()
	return hostResult("makeHttpRequest", C.call_http(r.rt, url, C.int8_t(args.Method),
		C.int32_t(args.RequestID), headers, body))
}
