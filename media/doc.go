// Package media provides the raw video frame representation shared by the
// bridge, the frame sink and the media factory.
//
// Frames enter the bridge in two directions:
//
//   - Outgoing: the host hands a captured frame to sendVideoFrame. The
//     bytes are copied with CopyFromSlice and pushed to the outgoing
//     video source.
//   - Incoming: the engine delivers decoded remote frames to the frame
//     sink; fillRemoteVideoFrame pops one, rotates it upright with
//     ApplyRotation and converts it into the host's RGBA buffer with ToRGBA.
//
// # Pixel Formats
//
// The wire values are I420 = 0, RGBA = 1 and NV12 = 2. InputSize returns
// the number of bytes the host must supply for a frame; the boundary sizes
// every frame at two bytes per pixel, doubled for RGBA.
//
// # Color Conversion
//
// YUV to RGB uses BT.601 full-range coefficients from image/color.
package media
