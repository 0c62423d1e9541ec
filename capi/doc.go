// Package main provides the C entry points of tring, so that a managed host
// (a JVM through its foreign function API, or plain C) can drive the call
// engine through opaque endpoint handles.
//
// # Build Instructions
//
// To build as a C shared library:
//
//	go build -buildmode=c-shared -o libtring.so ./capi/
//
// This generates:
//   - libtring.so: The shared library
//   - libtring.h: Auto-generated C header file with function declarations
//
// The record layouts (JByteArray, JArrayByte, JByteArray2D, JPString,
// RString, TringDevice, AppInterface, HostRuntime) live in tring.h.
//
// # C API Usage
//
//	HostRuntime runtime = {
//	    .remoteDevicesChanged = on_devices,
//	    .peekResult = on_peek_result,
//	    .peekChanged = on_peek_changed,
//	    .makeHttpRequest = on_http,
//	};
//	if (initRingRTC(&runtime) != 1) {
//	    return 1;
//	}
//
//	AppInterface app = { .destroy = on_destroy, .signalingMessageOffer = on_offer, ... };
//	int64_t endpoint = createCallEndpoint(&app, on_status);
//	if (endpoint < 0) {
//	    return 1;
//	}
//
//	createOutgoingCall(endpoint, peer, false, 1, call_id);
//	...
//	destroyCallEndpoint(endpoint);
//	shutdownRingRTC();
//
// # Status Codes
//
// Entry points return 1 on success and a negative code on failure:
//
//	-1  invalid handle (null, unknown, destroyed, or library not initialized)
//	-2  host input could not be decoded
//	-3  a batch exceeded its 32 rows
//	-4  the call engine rejected the operation
//	-5  anything else
//
// createCallEndpoint and createGroupCallClient return the new handle or
// client id, which are always positive. fillRemoteVideoFrame returns
// width<<16 | height, or 0 when no frame was waiting.
//
// # Memory
//
// Input buffers are borrowed and copied before the call returns. Buffers
// handed to AppInterface entries are allocated with malloc and owned by the
// host, which releases them with freeJArrayByte. Device descriptors filled
// by getAudioInputs and getAudioOutputs are released with freeTringDevice.
// Buffers passed to HostRuntime functions are only valid during the call.
//
// # Thread Safety
//
// Entry points may be called from any thread. AppInterface and HostRuntime
// functions are invoked on engine threads and must be reentrant.
package main
