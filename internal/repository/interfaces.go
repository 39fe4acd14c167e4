package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/models"
)

// Every method takes a context so request cancellation propagates into
// the queries, and every "get one" method returns nil, nil when no row
// exists — callers decide whether absence is a 404 or a fallback.

// UserRepository handles account rows.
type UserRepository interface {
	Create(ctx context.Context, email, displayName, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProfileRepository handles user profile rows and the display-name search.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)

	// GetByUserIDs is the batched author lookup used when enriching a
	// page of messages: one query for all distinct author ids instead
	// of one lookup per row. Missing profiles are simply absent from
	// the returned map.
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.UserProfile, error)

	Create(ctx context.Context, profile *models.UserProfile) error

	// Update applies a partial patch and returns the updated row.
	// Returns nil, nil when no profile row exists for the user.
	Update(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.UserProfile, error)

	// Search matches profiles by display name, best matches first.
	Search(ctx context.Context, term string, limit int) ([]models.UserProfile, error)
}

// ChannelRepository handles the seeded channel directory.
type ChannelRepository interface {
	GetByID(ctx context.Context, channelID uuid.UUID) (*models.Channel, error)
	GetBySlug(ctx context.Context, slug string) (*models.Channel, error)
	ListByType(ctx context.Context, channelType models.ChannelType) ([]models.Channel, error)
	ListByIDs(ctx context.Context, channelIDs []uuid.UUID) ([]models.Channel, error)
	ListDefault(ctx context.Context) ([]models.Channel, error)

	// ListAvailable returns channels of the given type the user has
	// NOT joined, in directory order.
	ListAvailable(ctx context.Context, userID uuid.UUID, channelType models.ChannelType) ([]models.Channel, error)
}

// ChannelMembershipRepository handles who belongs to which channel.
type ChannelMembershipRepository interface {
	// Join is idempotent: joining an already-joined channel returns the
	// existing membership id without inserting a second row.
	Join(ctx context.Context, userID, channelID uuid.UUID) (int64, error)

	// Leave removes the membership. No-op if none exists.
	Leave(ctx context.Context, userID, channelID uuid.UUID) error

	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.ChannelMembership, error)

	// IsMember is the write-path guard check, hot on every send.
	IsMember(ctx context.Context, userID, channelID uuid.UUID) (bool, error)
}

// ConversationRepository handles direct-message conversations.
type ConversationRepository interface {
	GetByID(ctx context.Context, conversationID uuid.UUID) (*models.Conversation, error)

	// GetByPair looks up the conversation for a sorted participant pair.
	GetByPair(ctx context.Context, userAID, userBID uuid.UUID) (*models.Conversation, error)

	// CreateWithParticipants inserts the conversation row and both
	// membership rows in one transaction: all three land or none do.
	// The pair must already be sorted (userAID < userBID).
	CreateWithParticipants(ctx context.Context, userAID, userBID uuid.UUID) (*models.Conversation, error)
}

// ConversationMembershipRepository handles conversation participation.
type ConversationMembershipRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.ConversationMembership, error)
	IsParticipant(ctx context.Context, userID, conversationID uuid.UUID) (bool, error)
}

// MessageRepository handles the append-only message log.
type MessageRepository interface {
	Create(ctx context.Context, target models.MessageTarget, authorID uuid.UUID, content string) (*models.Message, error)

	// ListByChannel returns messages newest first. before=0 means "from
	// the latest"; otherwise only messages with id < before are returned.
	ListByChannel(ctx context.Context, channelID uuid.UUID, before int64, limit int) ([]models.Message, error)
	ListByConversation(ctx context.Context, conversationID uuid.UUID, before int64, limit int) ([]models.Message, error)

	// LatestInConversation returns the newest message, nil if none.
	LatestInConversation(ctx context.Context, conversationID uuid.UUID) (*models.Message, error)
}
