package tring

import (
	"errors"

	"github.com/opd-ai/tring/codec"
	"github.com/opd-ai/tring/handle"
	"github.com/opd-ai/tring/media"
	"github.com/opd-ai/tring/peerconn"
)

var (
	// ErrInvalidHandle indicates an entry point received a null, unknown or
	// destroyed endpoint handle.
	ErrInvalidHandle = handle.ErrInvalidHandle

	// ErrDecode indicates an input the host passed could not be decoded.
	ErrDecode = errors.New("decode failed")

	// ErrEngine wraps an error returned by the call engine.
	ErrEngine = errors.New("engine error")

	// ErrBridgeClosed indicates the bridge has been closed.
	ErrBridgeClosed = errors.New("bridge closed")

	// ErrNoEngine indicates no engine factory is available.
	ErrNoEngine = errors.New("no call engine registered")
)

// Status codes returned across the foreign boundary.
const (
	StatusOK            int64 = 1
	StatusInvalidHandle int64 = -1
	StatusDecode        int64 = -2
	StatusCapacity      int64 = -3
	StatusEngine        int64 = -4
	StatusOther         int64 = -5
)

// Error classes used in logs and metric labels.
const (
	ClassInvalidHandle = "invalid_handle"
	ClassDecode        = "decode"
	ClassCapacity      = "capacity"
	ClassEngine        = "engine"
	ClassOther         = "other"
)

var decodeErrors = []error{
	ErrDecode,
	codec.ErrShortBuffer,
	codec.ErrInvalidGroupMemberBuffer,
	codec.ErrMalformedHeaders,
	codec.ErrMalformedBody,
	media.ErrInvalidDimensions,
	media.ErrUnsupportedFormat,
	media.ErrShortFrame,
	media.ErrBufferTooSmall,
	peerconn.ErrInvalidICEConfig,
}

// Classify returns the error class of err. A nil error has no class.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidHandle):
		return ClassInvalidHandle
	case errors.Is(err, codec.ErrCapacityExceeded):
		return ClassCapacity
	case errors.Is(err, ErrEngine):
		return ClassEngine
	}
	for _, target := range decodeErrors {
		if errors.Is(err, target) {
			return ClassDecode
		}
	}
	return ClassOther
}

// StatusCode maps err to the status code an entry point returns.
func StatusCode(err error) int64 {
	switch Classify(err) {
	case "":
		return StatusOK
	case ClassInvalidHandle:
		return StatusInvalidHandle
	case ClassDecode:
		return StatusDecode
	case ClassCapacity:
		return StatusCapacity
	case ClassEngine:
		return StatusEngine
	default:
		return StatusOther
	}
}
