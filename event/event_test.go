package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opd-ai/tring/engine"
)

func TestKindNames(t *testing.T) {
	events := []Event{
		SendSignaling{}, SendCallMessage{}, SendCallMessageToGroup{}, CallStateChanged{},
		RemoteAudioStateChanged{}, RemoteVideoStateChanged{}, RemoteSharingScreenChanged{},
		NetworkRouteChanged{}, AudioLevels{}, LowBandwidthForVideo{}, SendHTTPRequest{}, GroupUpdate{},
	}

	seen := make(map[string]bool)
	for _, e := range events {
		name := e.Kind().String()
		assert.NotContains(t, name, "kind(", "missing name for %T", e)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "call_state", Label(CallStateChanged{}))
	assert.Equal(t, "group_ring", Label(GroupUpdate{Update: engine.Ring{}}))
	assert.Equal(t, "group_update", Label(GroupUpdate{}))
}
