package media

import (
	"fmt"
	"image"
	"image/color"
)

// ToRGBA writes the frame as packed RGBA into dst, row by row without
// padding. Rotation is not applied; see ApplyRotation.
func (f *VideoFrame) ToRGBA(dst []byte) error {
	if err := f.Validate(); err != nil {
		return err
	}
	w, h := int(f.Width), int(f.Height)
	need := w * h * 4
	if len(dst) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrBufferTooSmall, len(dst), need)
	}

	switch f.Format {
	case PixelFormatRGBA:
		copy(dst, f.Data[:need])
	case PixelFormatI420:
		img := f.ycbcr()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.YCbCrAt(x, y)
				putRGB(dst[(y*w+x)*4:], c.Y, c.Cb, c.Cr)
			}
		}
	case PixelFormatNV12:
		ySize := w * h
		uvStride := ((w + 1) / 2) * 2
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				uv := ySize + (y/2)*uvStride + (x/2)*2
				putRGB(dst[(y*w+x)*4:], f.Data[y*w+x], f.Data[uv], f.Data[uv+1])
			}
		}
	}
	return nil
}

func (f *VideoFrame) ycbcr() *image.YCbCr {
	w, h := int(f.Width), int(f.Height)
	ySize := w * h
	cw, ch := (w+1)/2, (h+1)/2
	cSize := cw * ch
	return &image.YCbCr{
		Y:              f.Data[:ySize],
		Cb:             f.Data[ySize : ySize+cSize],
		Cr:             f.Data[ySize+cSize : ySize+2*cSize],
		YStride:        w,
		CStride:        cw,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, w, h),
	}
}

func putRGB(px []byte, y, cb, cr uint8) {
	r, g, b := color.YCbCrToRGB(y, cb, cr)
	px[0], px[1], px[2], px[3] = r, g, b, 0xFF
}

// RGBA returns the frame converted to packed RGBA. RGBA frames are returned
// as a copy.
func (f *VideoFrame) RGBA() (*VideoFrame, error) {
	out := &VideoFrame{
		Width:     f.Width,
		Height:    f.Height,
		Format:    PixelFormatRGBA,
		Rotation:  f.Rotation,
		Timestamp: f.Timestamp,
		Data:      make([]byte, int(f.Width)*int(f.Height)*4),
	}
	if err := f.ToRGBA(out.Data); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyRotation returns an upright frame. Unrotated frames are returned
// unchanged; rotated ones are converted to RGBA and turned clockwise by
// their Rotation, swapping width and height for 90 and 270.
func (f *VideoFrame) ApplyRotation() (*VideoFrame, error) {
	switch f.Rotation {
	case Rotation0:
		return f, nil
	case Rotation90, Rotation180, Rotation270:
	default:
		return nil, fmt.Errorf("unsupported rotation %d", int32(f.Rotation))
	}

	src, err := f.RGBA()
	if err != nil {
		return nil, err
	}
	w, h := int(src.Width), int(src.Height)
	out := &VideoFrame{
		Width:     src.Width,
		Height:    src.Height,
		Format:    PixelFormatRGBA,
		Rotation:  Rotation0,
		Timestamp: src.Timestamp,
		Data:      make([]byte, len(src.Data)),
	}
	if f.Rotation != Rotation180 {
		out.Width, out.Height = src.Height, src.Width
	}
	ow := int(out.Width)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch f.Rotation {
			case Rotation90:
				dx, dy = h-1-y, x
			case Rotation180:
				dx, dy = w-1-x, h-1-y
			case Rotation270:
				dx, dy = y, w-1-x
			}
			copy(out.Data[(dy*ow+dx)*4:(dy*ow+dx)*4+4], src.Data[(y*w+x)*4:(y*w+x)*4+4])
		}
	}
	return out, nil
}
