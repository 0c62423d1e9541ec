package peerconn

import "errors"

var (
	// ErrFactoryClosed indicates use of a closed factory.
	ErrFactoryClosed = errors.New("media factory closed")

	// ErrDeviceIndex indicates a device index beyond the enumerated devices.
	ErrDeviceIndex = errors.New("device index out of range")

	// ErrForeignSource indicates a video source not created by this factory.
	ErrForeignSource = errors.New("video source not created by this factory")

	// ErrInvalidICEConfig indicates ICE servers a peer connection rejected.
	ErrInvalidICEConfig = errors.New("invalid ICE configuration")
)
