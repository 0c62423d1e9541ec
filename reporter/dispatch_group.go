package reporter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/callback"
	"github.com/opd-ai/tring/codec"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/event"
	"github.com/opd-ai/tring/host"
)

type groupHandlerFunc func(r *Reporter, env host.Env, update engine.GroupUpdate) error

var groupDispatchTable = map[engine.GroupUpdateKind]groupHandlerFunc{
	engine.GroupRequestMembershipProof:    dispatchRequestMembershipProof,
	engine.GroupRequestGroupMembers:       dispatchRequestGroupMembers,
	engine.GroupConnectionStateChanged:    dispatchConnectionState,
	engine.GroupJoinStateChanged:          dispatchJoinState,
	engine.GroupRemoteDeviceStatesChanged: dispatchRemoteDevices,
	engine.GroupPeekChanged:               dispatchPeekChanged,
	engine.GroupPeekResult:                dispatchPeekResult,
	engine.GroupEnded:                     dispatchGroupEnded,
	engine.GroupRing:                      dispatchRing,
	engine.GroupNetworkRouteChanged:       dispatchGroupLogOnly,
	engine.GroupAudioLevels:               dispatchGroupLogOnly,
	engine.GroupLowBandwidthForVideo:      dispatchGroupLogOnly,
}

func dispatchGroupUpdate(r *Reporter, env host.Env, ev event.Event) error {
	update := ev.(event.GroupUpdate).Update
	if update == nil {
		return fmt.Errorf("%w: empty group update", errUnhandled)
	}
	handler, ok := groupDispatchTable[update.GroupUpdateKind()]
	if !ok {
		return fmt.Errorf("%w: group update %s", errUnhandled, update.GroupUpdateKind())
	}
	return handler(r, env, update)
}

func dispatchRequestMembershipProof(r *Reporter, _ host.Env, update engine.GroupUpdate) error {
	u := update.(engine.RequestMembershipProof)
	return r.invoke("GroupRequestMembershipProof", func(t *callback.Table) {
		t.GroupRequestMembershipProof(u.ClientID)
	})
}

func dispatchRequestGroupMembers(r *Reporter, _ host.Env, update engine.GroupUpdate) error {
	u := update.(engine.RequestGroupMembers)
	return r.invoke("GroupRequestGroupMembers", func(t *callback.Table) {
		t.GroupRequestGroupMembers(u.ClientID)
	})
}

func dispatchConnectionState(r *Reporter, _ host.Env, update engine.GroupUpdate) error {
	u := update.(engine.ConnectionStateChanged)
	logrus.WithFields(logrus.Fields{
		"function":  "dispatchConnectionState",
		"client_id": u.ClientID,
		"state":     int32(u.State),
	}).Info("Group connection state changed")
	return r.invoke("GroupConnectionStateChanged", func(t *callback.Table) {
		t.GroupConnectionStateChanged(u.ClientID, int32(u.State))
	})
}

func dispatchJoinState(r *Reporter, _ host.Env, update engine.GroupUpdate) error {
	u := update.(engine.JoinStateChanged)
	logrus.WithFields(logrus.Fields{
		"function":  "dispatchJoinState",
		"client_id": u.ClientID,
		"state":     u.State.Ordinal(),
		"demux_id":  u.State.DemuxID,
	}).Info("Group join state changed")
	return r.invoke("GroupJoinStateChanged", func(t *callback.Table) {
		t.GroupJoinStateChanged(u.ClientID, u.State.Ordinal())
	})
}

func dispatchRemoteDevices(_ *Reporter, env host.Env, update engine.GroupUpdate) error {
	u := update.(engine.RemoteDeviceStatesChanged)
	demuxIDs := make([]int64, len(u.States))
	for i, state := range u.States {
		demuxIDs[i] = int64(state.DemuxID)
	}
	return env.RemoteDevicesChanged(u.ClientID, demuxIDs)
}

func (r *Reporter) peekArgs(info engine.PeekInfo) host.PeekArgs {
	users := info.UniqueUsers()
	members := make([][]byte, len(users))
	for i, u := range users {
		members[i] = owned(u)
	}
	args := host.PeekArgs{
		Members:     members,
		Creator:     owned(info.Creator),
		MaxDevices:  r.maxPeekDevices,
		DeviceCount: int64(info.DeviceCountIncludingPending()),
	}
	if info.EraID != "" {
		era := info.EraID
		args.EraID = &era
	}
	return args
}

func dispatchPeekChanged(r *Reporter, env host.Env, update engine.GroupUpdate) error {
	u := update.(engine.PeekChanged)
	args := r.peekArgs(u.Info)
	logrus.WithFields(logrus.Fields{
		"function":  "dispatchPeekChanged",
		"client_id": u.ClientID,
		"joined":    len(args.Members),
		"devices":   args.DeviceCount,
	}).Debug("Peek changed")
	return env.PeekChanged(u.ClientID, args)
}

func dispatchPeekResult(r *Reporter, env host.Env, update engine.GroupUpdate) error {
	u := update.(engine.PeekResult)
	var info engine.PeekInfo
	if u.Info != nil {
		info = *u.Info
	} else {
		logrus.WithFields(logrus.Fields{
			"function":   "dispatchPeekResult",
			"request_id": u.RequestID,
			"status":     u.FailureStatus,
		}).Warn("Peek failed, reporting empty call")
	}
	return env.PeekResult(u.RequestID, r.peekArgs(info))
}

func dispatchGroupEnded(r *Reporter, _ host.Env, update engine.GroupUpdate) error {
	u := update.(engine.GroupCallEnded)
	logrus.WithFields(logrus.Fields{
		"function":  "dispatchGroupEnded",
		"client_id": u.ClientID,
		"reason":    int32(u.Reason),
	}).Info("Group call ended")
	return r.invoke("GroupEnded", func(t *callback.Table) {
		t.GroupEnded(u.ClientID, int32(u.Reason))
	})
}

func dispatchRing(r *Reporter, _ host.Env, update engine.GroupUpdate) error {
	u := update.(engine.Ring)
	return r.invoke("GroupRing", func(t *callback.Table) {
		t.GroupRing(codec.EncodeBuffer(owned(u.GroupID)), u.RingID, codec.EncodeBuffer(owned(u.SenderID)), int32(u.Update))
	})
}

func dispatchGroupLogOnly(_ *Reporter, _ host.Env, update engine.GroupUpdate) error {
	logrus.WithFields(logrus.Fields{
		"function": "dispatchGroupLogOnly",
		"update":   update.GroupUpdateKind().String(),
	}).Debug("Group notification")
	return nil
}
