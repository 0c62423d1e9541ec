package media

import (
	"fmt"
	"time"
)

// MaxDimension bounds width and height so both fit the packed
// dimensions returned to the host.
const MaxDimension = 0xFFFF

// PixelFormat is the layout of VideoFrame.Data.
type PixelFormat int32

const (
	PixelFormatI420 PixelFormat = 0 // Y plane, then U and V quarter planes
	PixelFormatRGBA PixelFormat = 1 // packed, 4 bytes per pixel
	PixelFormatNV12 PixelFormat = 2 // Y plane, then interleaved UV plane
)

// String returns the format name.
func (p PixelFormat) String() string {
	switch p {
	case PixelFormatI420:
		return "I420"
	case PixelFormatRGBA:
		return "RGBA"
	case PixelFormatNV12:
		return "NV12"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int32(p))
	}
}

// Valid reports whether p is a known format.
func (p PixelFormat) Valid() bool {
	return p == PixelFormatI420 || p == PixelFormatRGBA || p == PixelFormatNV12
}

// Rotation is the clockwise rotation needed to display a frame upright.
type Rotation int32

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// VideoFrame is a single raw video frame in one contiguous buffer.
type VideoFrame struct {
	Width     uint32
	Height    uint32
	Format    PixelFormat
	Rotation  Rotation
	Data      []byte
	Timestamp time.Duration
}

// FrameSize returns the exact number of bytes a frame of the given format
// occupies.
func FrameSize(width, height uint32, format PixelFormat) int {
	w, h := int(width), int(height)
	switch format {
	case PixelFormatI420, PixelFormatNV12:
		cw, ch := (w+1)/2, (h+1)/2
		return w*h + 2*cw*ch
	case PixelFormatRGBA:
		return w * h * 4
	default:
		return 0
	}
}

// InputSize returns how many bytes the host supplies for an outgoing frame:
// width*height*2, doubled again for pixel format value 1.
func InputSize(width, height uint32, format PixelFormat) int {
	size := int(width) * int(height) * 2
	if format == PixelFormatRGBA {
		size *= 2
	}
	return size
}

// PackDimensions encodes a frame size as (width << 16) + height.
func PackDimensions(width, height uint32) int64 {
	return int64(width)<<16 + int64(height)
}

// UnpackDimensions is the inverse of PackDimensions.
func UnpackDimensions(packed int64) (width, height uint32) {
	return uint32(packed >> 16), uint32(packed & 0xFFFF)
}

// Check reports whether width, height and format describe a supported
// frame.
func Check(width, height uint32, format PixelFormat) error {
	return validate(width, height, format)
}

func validate(width, height uint32, format PixelFormat) error {
	if width == 0 || height == 0 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, int32(format))
	}
	return nil
}

// CopyFromSlice builds a frame by copying the pixel data out of src.
// src may be longer than the frame requires; the excess is ignored.
//
// Parameters:
//   - width, height: frame dimensions in pixels
//   - format: layout of src
//   - src: borrowed bytes, not retained
//
// Returns:
//   - *VideoFrame: a frame owning its data
//   - error: ErrInvalidDimensions, ErrUnsupportedFormat or ErrShortFrame
func CopyFromSlice(width, height uint32, format PixelFormat, src []byte) (*VideoFrame, error) {
	if err := validate(width, height, format); err != nil {
		return nil, err
	}
	size := FrameSize(width, height, format)
	if len(src) < size {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortFrame, len(src), size)
	}
	data := make([]byte, size)
	copy(data, src[:size])
	return &VideoFrame{Width: width, Height: height, Format: format, Data: data}, nil
}

// Clone returns a deep copy of the frame.
func (f *VideoFrame) Clone() *VideoFrame {
	clone := *f
	clone.Data = append([]byte(nil), f.Data...)
	return &clone
}

// Validate checks the frame's dimensions, format and data length.
func (f *VideoFrame) Validate() error {
	if err := validate(f.Width, f.Height, f.Format); err != nil {
		return err
	}
	if need := FrameSize(f.Width, f.Height, f.Format); len(f.Data) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortFrame, len(f.Data), need)
	}
	return nil
}
