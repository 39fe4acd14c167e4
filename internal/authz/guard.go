// Package authz centralizes the membership checks that gate access to
// message scopes. Every handler that reads or writes within a channel
// or conversation goes through one of the two guards here instead of
// doing its own membership lookup.
package authz

import (
	"context"

	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/repository"
)

// Guard decides whether a caller may read or write within a scope.
// callerID == uuid.Nil means "anonymous" and always fails.
type Guard interface {
	CanRead(ctx context.Context, callerID, scopeID uuid.UUID) error
	CanWrite(ctx context.Context, callerID, scopeID uuid.UUID) error
}

// ChannelScope guards channel access. Reading channel history only
// requires an authenticated caller — channels are public-read to
// signed-in users, membership gates writing.
type ChannelScope struct {
	members repository.ChannelMembershipRepository
}

func NewChannelScope(members repository.ChannelMembershipRepository) *ChannelScope {
	return &ChannelScope{members: members}
}

func (g *ChannelScope) CanRead(ctx context.Context, callerID, channelID uuid.UUID) error {
	if callerID == uuid.Nil {
		return models.ErrUnauthenticated
	}
	return nil
}

func (g *ChannelScope) CanWrite(ctx context.Context, callerID, channelID uuid.UUID) error {
	if callerID == uuid.Nil {
		return models.ErrUnauthenticated
	}
	isMember, err := g.members.IsMember(ctx, callerID, channelID)
	if err != nil {
		return err
	}
	if !isMember {
		return models.ErrNotMember
	}
	return nil
}

// ConversationScope guards conversation access. Both reading and
// writing require a participation row.
type ConversationScope struct {
	members repository.ConversationMembershipRepository
}

func NewConversationScope(members repository.ConversationMembershipRepository) *ConversationScope {
	return &ConversationScope{members: members}
}

func (g *ConversationScope) require(ctx context.Context, callerID, conversationID uuid.UUID) error {
	if callerID == uuid.Nil {
		return models.ErrUnauthenticated
	}
	isParticipant, err := g.members.IsParticipant(ctx, callerID, conversationID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return models.ErrNotParticipant
	}
	return nil
}

func (g *ConversationScope) CanRead(ctx context.Context, callerID, conversationID uuid.UUID) error {
	return g.require(ctx, callerID, conversationID)
}

func (g *ConversationScope) CanWrite(ctx context.Context, callerID, conversationID uuid.UUID) error {
	return g.require(ctx, callerID, conversationID)
}
