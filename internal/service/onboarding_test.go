package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/service"
)

type onboardingFixture struct {
	svc      *service.OnboardingService
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	channels *fakeChannelRepo
	members  *fakeMembershipRepo
}

func newOnboardingFixture() *onboardingFixture {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	channels := newFakeChannelRepo()
	members := newFakeMembershipRepo()
	return &onboardingFixture{
		svc:      service.NewOnboardingService(users, profiles, channels, members),
		users:    users,
		profiles: profiles,
		channels: channels,
		members:  members,
	}
}

func TestEnsureDefaultsCreatesProfileAndJoinsDefaults(t *testing.T) {
	f := newOnboardingFixture()
	alice := f.users.add("Alice")
	f.channels.add("Ankündigungen", models.ChannelTypeChannel, true, 1)
	f.channels.add("Intros", models.ChannelTypeChannel, true, 2)
	f.channels.add("Berlin", models.ChannelTypeRegion, false, 3) // not a default

	require.NoError(t, f.svc.EnsureDefaults(context.Background(), alice))

	profile, ok := f.profiles.profiles[alice]
	require.True(t, ok)
	require.Equal(t, "Alice", profile.DisplayName)
	require.Len(t, f.members.rows, 2)
}

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	f := newOnboardingFixture()
	alice := f.users.add("Alice")
	f.channels.add("Intros", models.ChannelTypeChannel, true, 1)

	require.NoError(t, f.svc.EnsureDefaults(context.Background(), alice))
	firstProfile := f.profiles.profiles[alice]

	require.NoError(t, f.svc.EnsureDefaults(context.Background(), alice))

	require.Len(t, f.profiles.profiles, 1)
	require.Equal(t, firstProfile, f.profiles.profiles[alice])
	require.Len(t, f.members.rows, 1)
}

func TestEnsureDefaultsKeepsExistingProfile(t *testing.T) {
	f := newOnboardingFixture()
	alice := f.users.add("Alice")
	f.profiles.add(alice, "Custom Name")

	require.NoError(t, f.svc.EnsureDefaults(context.Background(), alice))
	require.Equal(t, "Custom Name", f.profiles.profiles[alice].DisplayName)
}

func TestEnsureDefaultsRequiresAuth(t *testing.T) {
	f := newOnboardingFixture()
	require.ErrorIs(t, f.svc.EnsureDefaults(context.Background(), uuid.Nil), models.ErrUnauthenticated)
}
