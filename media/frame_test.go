package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputSize(t *testing.T) {
	assert.Equal(t, 640*480*2, InputSize(640, 480, PixelFormatI420))
	assert.Equal(t, 640*480*4, InputSize(640, 480, PixelFormatRGBA))
	assert.Equal(t, 640*480*2, InputSize(640, 480, PixelFormatNV12))
}

func TestFrameSize(t *testing.T) {
	assert.Equal(t, 4*4+2*2*2, FrameSize(4, 4, PixelFormatI420))
	assert.Equal(t, 3*3+2*2*2, FrameSize(3, 3, PixelFormatNV12))
	assert.Equal(t, 16, FrameSize(2, 2, PixelFormatRGBA))
	assert.Equal(t, 0, FrameSize(2, 2, PixelFormat(9)))
}

func TestPackDimensions(t *testing.T) {
	packed := PackDimensions(640, 480)
	assert.Equal(t, int64(640<<16+480), packed)

	w, h := UnpackDimensions(packed)
	assert.Equal(t, uint32(640), w)
	assert.Equal(t, uint32(480), h)
}

func TestCopyFromSlice(t *testing.T) {
	src := make([]byte, InputSize(4, 4, PixelFormatI420))
	for i := range src {
		src[i] = byte(i)
	}

	frame, err := CopyFromSlice(4, 4, PixelFormatI420, src)
	require.NoError(t, err)
	assert.Len(t, frame.Data, FrameSize(4, 4, PixelFormatI420))
	assert.Equal(t, src[:len(frame.Data)], frame.Data)

	src[0] = 0xAA
	assert.NotEqual(t, byte(0xAA), frame.Data[0], "frame must not alias the input")
}

func TestCopyFromSliceErrors(t *testing.T) {
	_, err := CopyFromSlice(0, 4, PixelFormatI420, make([]byte, 64))
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = CopyFromSlice(4, 4, PixelFormat(7), make([]byte, 64))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = CopyFromSlice(4, 4, PixelFormatRGBA, make([]byte, 10))
	assert.ErrorIs(t, err, ErrShortFrame)
}

func TestToRGBAFromI420(t *testing.T) {
	data := make([]byte, FrameSize(2, 2, PixelFormatI420))
	for i := range data {
		data[i] = 128
	}
	frame := &VideoFrame{Width: 2, Height: 2, Format: PixelFormatI420, Data: data}

	dst := make([]byte, 16)
	require.NoError(t, frame.ToRGBA(dst))
	for px := 0; px < 4; px++ {
		assert.Equal(t, []byte{128, 128, 128, 255}, dst[px*4:px*4+4])
	}
}

func TestToRGBAFromNV12(t *testing.T) {
	data := []byte{
		255, 255, 255, 255, // Y
		128, 128, // UV
	}
	frame := &VideoFrame{Width: 2, Height: 2, Format: PixelFormatNV12, Data: data}

	dst := make([]byte, 16)
	require.NoError(t, frame.ToRGBA(dst))
	assert.Equal(t, []byte{255, 255, 255, 255}, dst[:4])
}

func TestToRGBABufferTooSmall(t *testing.T) {
	frame := &VideoFrame{Width: 2, Height: 2, Format: PixelFormatRGBA, Data: make([]byte, 16)}
	err := frame.ToRGBA(make([]byte, 15))
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestApplyRotation(t *testing.T) {
	left := []byte{1, 2, 3, 255}
	right := []byte{4, 5, 6, 255}
	frame := &VideoFrame{
		Width:  2,
		Height: 1,
		Format: PixelFormatRGBA,
		Data:   append(append([]byte{}, left...), right...),
	}

	t.Run("none", func(t *testing.T) {
		out, err := frame.ApplyRotation()
		require.NoError(t, err)
		assert.Same(t, frame, out)
	})

	t.Run("90", func(t *testing.T) {
		rotated := frame.Clone()
		rotated.Rotation = Rotation90
		out, err := rotated.ApplyRotation()
		require.NoError(t, err)
		assert.Equal(t, uint32(1), out.Width)
		assert.Equal(t, uint32(2), out.Height)
		assert.Equal(t, left, out.Data[:4])
		assert.Equal(t, right, out.Data[4:])
		assert.Equal(t, Rotation0, out.Rotation)
	})

	t.Run("180", func(t *testing.T) {
		rotated := frame.Clone()
		rotated.Rotation = Rotation180
		out, err := rotated.ApplyRotation()
		require.NoError(t, err)
		assert.Equal(t, uint32(2), out.Width)
		assert.Equal(t, right, out.Data[:4])
		assert.Equal(t, left, out.Data[4:])
	})

	t.Run("270", func(t *testing.T) {
		rotated := frame.Clone()
		rotated.Rotation = Rotation270
		out, err := rotated.ApplyRotation()
		require.NoError(t, err)
		assert.Equal(t, uint32(2), out.Height)
		assert.Equal(t, right, out.Data[:4])
		assert.Equal(t, left, out.Data[4:])
	})

	t.Run("invalid", func(t *testing.T) {
		rotated := frame.Clone()
		rotated.Rotation = Rotation(45)
		_, err := rotated.ApplyRotation()
		assert.Error(t, err)
	})
}
