package peerconn

import (
	"fmt"

	"github.com/pion/webrtc/v3"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/engine"
)

// NewConnection opens the peer connection of a 1:1 call. pion validates
// servers, so malformed URLs and TURN entries without credentials fail
// here. With hideIP only relayed candidates are gathered. The outgoing
// tracks created by a Factory are attached; other implementations are
// skipped.
//
// Returns:
//   - *webrtc.PeerConnection: owned by the caller, which must Close it
//   - error: ErrInvalidICEConfig wrapping pion's reason
func NewConnection(servers []webrtc.ICEServer, hideIP bool, audio engine.AudioTrack, video engine.VideoTrack) (*webrtc.PeerConnection, error) {
	config := webrtc.Configuration{ICEServers: servers}
	if hideIP {
		config.ICETransportPolicy = webrtc.ICETransportPolicyRelay
	}
	pc, err := webrtc.NewPeerConnection(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidICEConfig, err)
	}

	for _, track := range []any{audio, video} {
		local, ok := track.(webrtc.TrackLocal)
		if !ok {
			continue
		}
		if _, err := pc.AddTrack(local); err != nil {
			_ = pc.Close()
			return nil, fmt.Errorf("add track %s: %w", local.ID(), err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":    "NewConnection",
		"ice_servers": len(servers),
		"senders":     len(pc.GetSenders()),
		"hide_ip":     hideIP,
	}).Debug("Peer connection opened")
	return pc, nil
}
