package codec

import (
	"fmt"

	"github.com/opd-ai/tring/engine"
)

// GroupMemberRecordSize is the size of one packed group member.
const GroupMemberRecordSize = engine.UserIDSize + engine.MemberIDSize

// DecodeGroupMembers splits a packed member buffer into members. An empty
// buffer yields no members.
func DecodeGroupMembers(buf []byte) ([]engine.GroupMember, error) {
	if len(buf)%GroupMemberRecordSize != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d",
			ErrInvalidGroupMemberBuffer, len(buf), GroupMemberRecordSize)
	}
	members := make([]engine.GroupMember, 0, len(buf)/GroupMemberRecordSize)
	for off := 0; off < len(buf); off += GroupMemberRecordSize {
		record := buf[off : off+GroupMemberRecordSize]
		members = append(members, engine.GroupMember{
			UserID:   append([]byte(nil), record[:engine.UserIDSize]...),
			MemberID: append([]byte(nil), record[engine.UserIDSize:]...),
		})
	}
	return members, nil
}

// EncodeGroupMembers packs members into consecutive records.
func EncodeGroupMembers(members []engine.GroupMember) ([]byte, error) {
	buf := make([]byte, 0, len(members)*GroupMemberRecordSize)
	for i, m := range members {
		if len(m.UserID) != engine.UserIDSize || len(m.MemberID) != engine.MemberIDSize {
			return nil, fmt.Errorf("%w: member %d has user id %d bytes, member id %d bytes",
				ErrInvalidGroupMemberBuffer, i, len(m.UserID), len(m.MemberID))
		}
		buf = append(buf, m.UserID...)
		buf = append(buf, m.MemberID...)
	}
	return buf, nil
}
