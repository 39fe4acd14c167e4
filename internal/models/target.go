package models

import "github.com/google/uuid"

// TargetKind discriminates the two message-bearing scopes.
type TargetKind string

const (
	TargetChannel      TargetKind = "channel"
	TargetConversation TargetKind = "conversation"
)

// MessageTarget is the scope a message is sent to: a channel or a
// conversation, never both and never neither. Constructing one through
// ChannelTarget or ConversationTarget makes the invariant hold by
// type, so the send path has no both/neither branch to validate —
// that check lives only where optional ids come off the wire.
type MessageTarget struct {
	kind TargetKind
	id   uuid.UUID
}

func ChannelTarget(channelID uuid.UUID) MessageTarget {
	return MessageTarget{kind: TargetChannel, id: channelID}
}

func ConversationTarget(conversationID uuid.UUID) MessageTarget {
	return MessageTarget{kind: TargetConversation, id: conversationID}
}

func (t MessageTarget) Kind() TargetKind { return t.kind }
func (t MessageTarget) ID() uuid.UUID    { return t.id }

// IsZero reports whether the target was never constructed. A zero
// target is invalid input, not a scope.
func (t MessageTarget) IsZero() bool { return t.kind == "" }
