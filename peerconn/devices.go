package peerconn

import (
	"sync"

	"github.com/opd-ai/tring/engine"
)

// DeviceProvider enumerates audio devices.
type DeviceProvider interface {
	AudioRecordingDevices() ([]engine.AudioDevice, error)
	AudioPlayoutDevices() ([]engine.AudioDevice, error)
}

// StaticDevices is a DeviceProvider with fixed device lists.
type StaticDevices struct {
	Recording []engine.AudioDevice
	Playout   []engine.AudioDevice
}

// AudioRecordingDevices implements DeviceProvider.
func (s StaticDevices) AudioRecordingDevices() ([]engine.AudioDevice, error) {
	return append([]engine.AudioDevice(nil), s.Recording...), nil
}

// AudioPlayoutDevices implements DeviceProvider.
func (s StaticDevices) AudioPlayoutDevices() ([]engine.AudioDevice, error) {
	return append([]engine.AudioDevice(nil), s.Playout...), nil
}

// DefaultDevices reports one default device in each direction.
var DefaultDevices = StaticDevices{
	Recording: []engine.AudioDevice{{Name: "Default", UniqueID: "default", I18nKey: "default_communication_device"}},
	Playout:   []engine.AudioDevice{{Name: "Default", UniqueID: "default", I18nKey: "default_communication_device"}},
}

var deviceRegistry struct {
	mu       sync.RWMutex
	provider DeviceProvider
}

// RegisterDeviceProvider installs the provider used by factories created
// without an explicit one.
func RegisterDeviceProvider(provider DeviceProvider) {
	deviceRegistry.mu.Lock()
	defer deviceRegistry.mu.Unlock()
	deviceRegistry.provider = provider
}

// RegisteredDeviceProvider returns the installed provider or DefaultDevices.
func RegisteredDeviceProvider() DeviceProvider {
	deviceRegistry.mu.RLock()
	defer deviceRegistry.mu.RUnlock()
	if deviceRegistry.provider == nil {
		return DefaultDevices
	}
	return deviceRegistry.provider
}
