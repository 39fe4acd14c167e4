package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/repository"
)

// ChannelService covers the channel directory and membership actions.
// callerID == uuid.Nil marks an anonymous caller: personalized queries
// answer with empty results, mutations fail with ErrUnauthenticated.
type ChannelService struct {
	channels repository.ChannelRepository
	members  repository.ChannelMembershipRepository
}

func NewChannelService(channels repository.ChannelRepository, members repository.ChannelMembershipRepository) *ChannelService {
	return &ChannelService{channels: channels, members: members}
}

// ListJoined returns the caller's channels split into channels and
// regions. One membership query plus one batched channel fetch.
func (s *ChannelService) ListJoined(ctx context.Context, callerID uuid.UUID) (models.JoinedChannels, error) {
	joined := models.JoinedChannels{
		Channels: []models.Channel{},
		Regions:  []models.Channel{},
	}
	if callerID == uuid.Nil {
		return joined, nil
	}

	memberships, err := s.members.ListForUser(ctx, callerID)
	if err != nil {
		return joined, err
	}

	channelIDs := make([]uuid.UUID, len(memberships))
	for i, m := range memberships {
		channelIDs[i] = m.ChannelID
	}

	channels, err := s.channels.ListByIDs(ctx, channelIDs)
	if err != nil {
		return joined, err
	}

	for _, ch := range channels {
		if ch.Type == models.ChannelTypeRegion {
			joined.Regions = append(joined.Regions, ch)
		} else {
			joined.Channels = append(joined.Channels, ch)
		}
	}
	return joined, nil
}

// ListAvailable returns channels of the given type the caller has not
// joined. Empty for anonymous callers.
func (s *ChannelService) ListAvailable(ctx context.Context, callerID uuid.UUID, channelType models.ChannelType) ([]models.Channel, error) {
	if !channelType.Valid() {
		return nil, fmt.Errorf("%w: unknown channel type %q", models.ErrInvalidInput, channelType)
	}
	if callerID == uuid.Nil {
		return []models.Channel{}, nil
	}
	return s.channels.ListAvailable(ctx, callerID, channelType)
}

// ListByType is the unpersonalized directory listing.
func (s *ChannelService) ListByType(ctx context.Context, channelType models.ChannelType) ([]models.Channel, error) {
	if !channelType.Valid() {
		return nil, fmt.Errorf("%w: unknown channel type %q", models.ErrInvalidInput, channelType)
	}
	return s.channels.ListByType(ctx, channelType)
}

// GetBySlug returns nil when no channel carries the slug.
func (s *ChannelService) GetBySlug(ctx context.Context, slug string) (*models.Channel, error) {
	return s.channels.GetBySlug(ctx, slug)
}

// Join adds the caller to a channel. Calling it again returns the same
// membership id without creating a second row.
func (s *ChannelService) Join(ctx context.Context, callerID, channelID uuid.UUID) (int64, error) {
	if callerID == uuid.Nil {
		return 0, models.ErrUnauthenticated
	}

	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if channel == nil {
		return 0, fmt.Errorf("%w: channel", models.ErrNotFound)
	}

	return s.members.Join(ctx, callerID, channelID)
}

// Leave removes the caller's membership. A no-op when not a member.
func (s *ChannelService) Leave(ctx context.Context, callerID, channelID uuid.UUID) error {
	if callerID == uuid.Nil {
		return models.ErrUnauthenticated
	}
	return s.members.Leave(ctx, callerID, channelID)
}
