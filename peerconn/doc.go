// Package peerconn implements engine.MediaFactory on top of pion/webrtc.
//
// The factory creates the outgoing audio and video tracks of a call
// endpoint as pion local tracks (Opus and VP8), the outgoing video source
// that receives host-captured frames, and manages audio device selection.
//
// Device enumeration is delegated to a DeviceProvider. Hosts that enumerate
// devices themselves install a provider with RegisterDeviceProvider; the
// default provider reports a single "default" device in each direction.
package peerconn
