package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/repository"
)

// OnboardingService runs the post-login defaults: a profile row and
// membership in every default channel. Clients call it on every login,
// so the whole operation is idempotent.
type OnboardingService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	channels repository.ChannelRepository
	members  repository.ChannelMembershipRepository
}

func NewOnboardingService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	channels repository.ChannelRepository,
	members repository.ChannelMembershipRepository,
) *OnboardingService {
	return &OnboardingService{users: users, profiles: profiles, channels: channels, members: members}
}

// EnsureDefaults creates the caller's profile if absent and joins every
// default channel not already joined. Safe to call repeatedly.
func (s *OnboardingService) EnsureDefaults(ctx context.Context, callerID uuid.UUID) error {
	if callerID == uuid.Nil {
		return models.ErrUnauthenticated
	}

	existing, err := s.profiles.GetByUserID(ctx, callerID)
	if err != nil {
		return err
	}
	if existing == nil {
		displayName := "User"
		user, err := s.users.GetByID(ctx, callerID)
		if err != nil {
			return err
		}
		if user != nil && user.DisplayName != "" {
			displayName = user.DisplayName
		}
		if err := s.profiles.Create(ctx, &models.UserProfile{
			UserID:      callerID,
			DisplayName: displayName,
		}); err != nil {
			return err
		}
	}

	defaults, err := s.channels.ListDefault(ctx)
	if err != nil {
		return err
	}
	for _, channel := range defaults {
		// Join is idempotent, so already-joined defaults are no-ops.
		if _, err := s.members.Join(ctx, callerID, channel.ID); err != nil {
			return err
		}
	}
	return nil
}
