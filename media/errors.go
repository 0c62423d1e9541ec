package media

import "errors"

var (
	// ErrInvalidDimensions indicates a zero or oversized width or height.
	ErrInvalidDimensions = errors.New("invalid frame dimensions")

	// ErrUnsupportedFormat indicates an unknown pixel format value.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrShortFrame indicates the frame data is smaller than its format requires.
	ErrShortFrame = errors.New("frame data too short")

	// ErrBufferTooSmall indicates the destination buffer cannot hold the frame.
	ErrBufferTooSmall = errors.New("destination buffer too small")
)
