package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/repository"
)

const searchResultLimit = 20

// ProfileService covers the caller's profile bundle, partial updates
// with lazy row creation, and the user search behind the DM screen.
type ProfileService struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	directory *ProfileDirectory
}

func NewProfileService(users repository.UserRepository, profiles repository.ProfileRepository, directory *ProfileDirectory) *ProfileService {
	return &ProfileService{users: users, profiles: profiles, directory: directory}
}

// Get returns the caller's account identity together with their
// profile row (nil profile when none exists yet). Returns nil for
// anonymous callers instead of an error.
func (s *ProfileService) Get(ctx context.Context, callerID uuid.UUID) (*models.ProfileBundle, error) {
	if callerID == uuid.Nil {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	profile, err := s.profiles.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	return &models.ProfileBundle{
		AuthUser: models.AuthUserInfo{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			Email:       user.Email,
		},
		Profile: profile,
	}, nil
}

// GetByUserID returns another user's profile, nil when absent.
func (s *ProfileService) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// Update patches the caller's profile, creating the row on first
// update. Nil patch fields are left untouched. The cache entry is
// invalidated so listings pick up the new display name immediately.
func (s *ProfileService) Update(ctx context.Context, callerID uuid.UUID, patch models.ProfilePatch) (*models.UserProfile, error) {
	if callerID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}

	updated, err := s.profiles.Update(ctx, callerID, patch)
	if err != nil {
		return nil, err
	}

	if updated == nil {
		// First update: create the row, defaulting the display name
		// from the account when the patch doesn't carry one.
		displayName := "User"
		user, err := s.users.GetByID(ctx, callerID)
		if err != nil {
			return nil, err
		}
		if user != nil && user.DisplayName != "" {
			displayName = user.DisplayName
		}
		if patch.DisplayName != nil {
			displayName = *patch.DisplayName
		}

		profile := &models.UserProfile{
			UserID:      callerID,
			DisplayName: displayName,
			Bio:         patch.Bio,
			AvatarURL:   patch.AvatarURL,
			Location:    patch.Location,
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return nil, err
		}
		updated = profile
	}

	s.directory.Invalidate(ctx, callerID)
	return updated, nil
}

// SearchUsers matches profiles by display name for starting a DM. The
// caller is excluded from the results; anonymous callers and blank
// terms get an empty list.
func (s *ProfileService) SearchUsers(ctx context.Context, callerID uuid.UUID, term string) ([]models.UserProfile, error) {
	if callerID == uuid.Nil {
		return []models.UserProfile{}, nil
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.UserProfile{}, nil
	}

	matches, err := s.profiles.Search(ctx, term, searchResultLimit)
	if err != nil {
		return nil, err
	}

	results := make([]models.UserProfile, 0, len(matches))
	for _, p := range matches {
		if p.UserID != callerID {
			results = append(results, p)
		}
	}
	return results, nil
}
