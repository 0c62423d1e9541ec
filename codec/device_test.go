package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opd-ai/tring/engine"
)

func TestLookupDevice(t *testing.T) {
	devices := []engine.AudioDevice{
		{Name: "Built-in Microphone", UniqueID: "mic-0", I18nKey: "default"},
		{Name: "USB Headset", UniqueID: "usb-1", I18nKey: "usb"},
	}

	d := LookupDevice(devices, 1)
	assert.True(t, d.Found())
	assert.Equal(t, uint32(1), d.Index)
	assert.Equal(t, devices[1], d.Device())
}

func TestLookupDeviceMissing(t *testing.T) {
	devices := []engine.AudioDevice{{Name: "only"}}

	for _, idx := range []uint32{1, 5, 99} {
		d := LookupDevice(devices, idx)
		assert.False(t, d.Found())
		assert.Equal(t, uint32(EmptyDeviceIndex), d.Index)
		assert.Equal(t, "empty", string(d.Name.Bytes()))
		assert.Equal(t, "empty", string(d.UniqueID.Bytes()))
		assert.Equal(t, "empty", string(d.LocalizationKey.Bytes()))
	}

	assert.False(t, LookupDevice(nil, 0).Found())
}
