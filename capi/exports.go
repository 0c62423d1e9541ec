package main

/*
#include "tring.h"
*/
import "C"

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring"
	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/handle"
)

func main() {} // Required for c-shared build mode

// initRingRTC binds the library to the host runtime. It must run before
// any endpoint is created. Options are read from TRING_* variables.
//
//export initRingRTC
func initRingRTC(runtime *C.HostRuntime) C.int64_t {
	if runtime == nil || runtime.remoteDevicesChanged == nil || runtime.peekResult == nil ||
		runtime.peekChanged == nil || runtime.makeHttpRequest == nil {
		logrus.WithField("function", "initRingRTC").Error("Incomplete host runtime")
		return C.int64_t(tring.StatusOther)
	}
	rt := newCRuntime(runtime)
	if err := initBridge(rt); err != nil {
		rt.free()
		logrus.WithFields(logrus.Fields{
			"function": "initRingRTC",
			"error":    err.Error(),
		}).Error("Failed to initialize")
		return C.int64_t(tring.StatusCode(err))
	}
	logrus.WithField("function", "initRingRTC").Info("Initialized RingRTC")
	return C.int64_t(tring.StatusOK)
}

// shutdownRingRTC destroys every endpoint and unbinds the host runtime.
//
//export shutdownRingRTC
func shutdownRingRTC() C.int64_t {
	return C.int64_t(tring.StatusCode(shutdownBridge()))
}

//export getVersion
func getVersion() C.int64_t {
	return libraryVersion
}

// createCallEndpoint returns a positive endpoint handle or a negative
// status. The interface's destroy runs once, when the endpoint is gone.
//
//export createCallEndpoint
func createCallEndpoint(appInterface *C.AppInterface, statusCallback C.tring_status_cb) C.int64_t {
	if appInterface == nil {
		return C.int64_t(tring.StatusCode(callback.ErrIncompleteTable))
	}
	app := newAppTable(appInterface, statusCallback)
	h, err := createEndpoint(app.table())
	if err != nil {
		if !accepted(err) {
			app.free()
		}
		return C.int64_t(tring.StatusCode(err))
	}
	logrus.WithFields(logrus.Fields{
		"function": "createCallEndpoint",
		"handle":   int64(h),
	}).Info("CallEndpoint created")
	return C.int64_t(h)
}

//export destroyCallEndpoint
func destroyCallEndpoint(endpoint C.int64_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.DestroyCallEndpoint(handle.Handle(endpoint))
	}))
}

//export setSelfUuid
func setSelfUuid(endpoint C.int64_t, me C.JByteArray) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SetSelfUUID(handle.Handle(endpoint), goBytes(me))
	}))
}

//export receivedOffer
func receivedOffer(endpoint C.int64_t, peerID C.JPString, callID C.uint64_t, offerType C.int32_t,
	senderDeviceID, receiverDeviceID C.uint32_t, senderKey, receiverKey, opaque C.JByteArray, ageSec C.uint64_t,
) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.ReceivedOffer(handle.Handle(endpoint), goString(peerID), uint64(callID), int32(offerType),
			uint32(senderDeviceID), uint32(receiverDeviceID),
			goBytes(senderKey), goBytes(receiverKey), goBytes(opaque), uint64(ageSec))
	}))
}

//export receivedOpaqueMessage
func receivedOpaqueMessage(endpoint C.int64_t, senderUUID C.JByteArray, senderDeviceID, localDeviceID C.uint32_t,
	opaque C.JByteArray, messageAgeSec C.uint64_t,
) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.ReceivedOpaqueMessage(handle.Handle(endpoint), goBytes(senderUUID),
			uint32(senderDeviceID), uint32(localDeviceID), goBytes(opaque), uint64(messageAgeSec))
	}))
}

//export receivedAnswer
func receivedAnswer(endpoint C.int64_t, peerID C.JPString, callID C.uint64_t, senderDeviceID C.uint32_t,
	senderKey, receiverKey, opaque C.JByteArray,
) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.ReceivedAnswer(handle.Handle(endpoint), goString(peerID), uint64(callID), uint32(senderDeviceID),
			goBytes(senderKey), goBytes(receiverKey), goBytes(opaque))
	}))
}

//export createOutgoingCall
func createOutgoingCall(endpoint C.int64_t, peerID C.JPString, videoEnabled C.bool, localDeviceID C.uint32_t,
	callID C.int64_t,
) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.CreateOutgoingCall(handle.Handle(endpoint), goString(peerID), bool(videoEnabled),
			uint32(localDeviceID), uint64(callID))
	}))
}

//export proceedCall
func proceedCall(endpoint C.int64_t, callID C.uint64_t, dataMode, audioLevelsIntervalMillis C.int32_t,
	iceUser, icePassword, iceHostname C.JPString, icePack C.JByteArray2D,
) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.ProceedCall(handle.Handle(endpoint), uint64(callID), int32(dataMode), int32(audioLevelsIntervalMillis),
			goString(iceUser), goString(icePassword), goString(iceHostname), goBatch(&icePack))
	}))
}

//export receivedIce
func receivedIce(endpoint C.int64_t, callID C.uint64_t, senderDeviceID C.uint32_t, icePack C.JByteArray2D) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.ReceivedIce(handle.Handle(endpoint), uint64(callID), uint32(senderDeviceID), goBatch(&icePack))
	}))
}

//export acceptCall
func acceptCall(endpoint C.int64_t, callID C.uint64_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.AcceptCall(handle.Handle(endpoint), uint64(callID))
	}))
}

//export ignoreCall
func ignoreCall(endpoint C.int64_t, callID C.uint64_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.IgnoreCall(handle.Handle(endpoint), uint64(callID))
	}))
}

//export hangupCall
func hangupCall(endpoint C.int64_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.HangupCall(handle.Handle(endpoint))
	}))
}

//export signalMessageSent
func signalMessageSent(endpoint C.int64_t, callID C.uint64_t) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.SignalMessageSent(handle.Handle(endpoint), uint64(callID))
	}))
}

//export panamaReceivedHttpResponse
func panamaReceivedHttpResponse(endpoint C.int64_t, requestID C.uint32_t, statusCode C.uint32_t, body C.JByteArray) C.int64_t {
	return C.int64_t(withBridge(func(b *tring.Bridge) error {
		return b.ReceivedHTTPResponse(handle.Handle(endpoint), uint32(requestID), uint32(statusCode), goBytes(body))
	}))
}
