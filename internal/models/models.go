package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. Created at signup, looked up at login.
// PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile is the public-facing profile, at most one row per user.
// Created lazily: on first onboarding or first profile update.
type UserProfile struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Bio         *string   `json:"bio,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Location    *string   `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	Location    *string `json:"location"`
}

// ChannelType splits the channel directory into topical channels and
// geographic regions. Same table, same behavior, separate listings.
type ChannelType string

const (
	ChannelTypeChannel ChannelType = "channel"
	ChannelTypeRegion  ChannelType = "region"
)

// Valid reports whether t is one of the two known channel types.
func (t ChannelType) Valid() bool {
	return t == ChannelTypeChannel || t == ChannelTypeRegion
}

// Channel is a named group scope for messages. Rows are seeded, not
// created by end users. Slug is globally unique.
type Channel struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Type        ChannelType `json:"type"`
	Icon        string      `json:"icon"`
	IconLibrary string      `json:"icon_library"`
	Description *string     `json:"description,omitempty"`
	IsDefault   bool        `json:"is_default"`
	SortOrder   int         `json:"sort_order"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ChannelMembership links a user to a channel. At most one row per
// (user, channel) pair.
type ChannelMembership struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ChannelID uuid.UUID `json:"channel_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Conversation is a two-participant direct-message scope. The pair is
// stored sorted (UserAID < UserBID) so that (A,B) and (B,A) hit the
// same row; a unique index on the pair enforces at-most-one.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	UserAID   uuid.UUID `json:"user_a_id"`
	UserBID   uuid.UUID `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OtherParticipant returns the participant that is not userID.
func (c Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// ConversationMembership links a participant to a conversation. Rows are
// created in pairs, atomically with the conversation itself.
type ConversationMembership struct {
	UserID         uuid.UUID `json:"user_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

// Message is a single chat message. Exactly one of ChannelID and
// ConversationID is set (see MessageTarget). Messages are append-only:
// there is no edit or delete.
//
// IDs are bigserial: monotonically increasing, so ordering by id equals
// ordering by creation time, and the id doubles as the pagination cursor.
type Message struct {
	ID             int64      `json:"id"`
	ChannelID      *uuid.UUID `json:"channel_id,omitempty"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	AuthorID       uuid.UUID  `json:"author_id"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
}

// MessageWithAuthor is a message enriched with denormalized author
// profile fields for display. AuthorName falls back to "Unknown" when
// the author has no profile row.
type MessageWithAuthor struct {
	Message
	AuthorName      string  `json:"author_name"`
	AuthorAvatarURL *string `json:"author_avatar_url,omitempty"`
}

// MessagePage is one page of a scope's history, newest first.
// NextCursor is the id of the oldest message in the page; pass it as
// "before" to fetch the next page. Zero when the page is empty.
type MessagePage struct {
	Messages   []MessageWithAuthor `json:"messages"`
	NextCursor int64               `json:"next_cursor"`
	IsDone     bool                `json:"is_done"`
}

// ParticipantInfo is the denormalized identity of the other side of a
// conversation, resolved from their profile.
type ParticipantInfo struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
}

// MessagePreview carries just enough of the latest message for a
// conversation list row.
type MessagePreview struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationSummary is one row of the caller's conversation list:
// the conversation, who the other participant is, and the latest
// message (nil when nothing has been sent yet).
type ConversationSummary struct {
	Conversation
	OtherUser   ParticipantInfo `json:"other_user"`
	LastMessage *MessagePreview `json:"last_message"`
}

// LastActivity is the sort key for the conversation list: the latest
// message's timestamp, or the conversation's creation time when empty.
func (s ConversationSummary) LastActivity() time.Time {
	if s.LastMessage != nil {
		return s.LastMessage.CreatedAt
	}
	return s.CreatedAt
}

// JoinedChannels is the caller's memberships split by type.
type JoinedChannels struct {
	Channels []Channel `json:"channels"`
	Regions  []Channel `json:"regions"`
}

// AuthUserInfo is the account identity included in the profile bundle.
type AuthUserInfo struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"name"`
	Email       string    `json:"email"`
}

// ProfileBundle pairs the account identity with the (possibly absent)
// profile row, mirroring what the profile screen needs in one call.
type ProfileBundle struct {
	AuthUser AuthUserInfo `json:"auth_user"`
	Profile  *UserProfile `json:"profile"`
}
