package codec

import "github.com/opd-ai/tring/engine"

// EmptyDeviceIndex is the index of the sentinel descriptor.
const EmptyDeviceIndex = 99

const emptyDeviceString = "empty"

// Descriptor describes an audio device at the boundary.
type Descriptor struct {
	Index           uint32
	Name            Buffer
	UniqueID        Buffer
	LocalizationKey Buffer
}

// EmptyDescriptor returns the sentinel reported for a missing device.
func EmptyDescriptor() Descriptor {
	return Descriptor{
		Index:           EmptyDeviceIndex,
		Name:            EncodeString(emptyDeviceString),
		UniqueID:        EncodeString(emptyDeviceString),
		LocalizationKey: EncodeString(emptyDeviceString),
	}
}

// EncodeDevice encodes a device at the given list position.
func EncodeDevice(index uint32, d engine.AudioDevice) Descriptor {
	return Descriptor{
		Index:           index,
		Name:            EncodeString(d.Name),
		UniqueID:        EncodeString(d.UniqueID),
		LocalizationKey: EncodeString(d.I18nKey),
	}
}

// LookupDevice returns the descriptor of the device at the 0-based position
// index, or the sentinel when there is none.
func LookupDevice(devices []engine.AudioDevice, index uint32) Descriptor {
	if int64(index) >= int64(len(devices)) {
		return EmptyDescriptor()
	}
	return EncodeDevice(index, devices[index])
}

// Found reports whether d describes a real device.
func (d Descriptor) Found() bool {
	return !(d.Index == EmptyDeviceIndex && string(d.Name.Bytes()) == emptyDeviceString &&
		string(d.UniqueID.Bytes()) == emptyDeviceString)
}

// Device decodes the descriptor back into a device.
func (d Descriptor) Device() engine.AudioDevice {
	return engine.AudioDevice{
		Name:     string(d.Name.Bytes()),
		UniqueID: string(d.UniqueID.Bytes()),
		I18nKey:  string(d.LocalizationKey.Bytes()),
	}
}
