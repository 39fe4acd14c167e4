package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/service"
)

func newProfileFixture() (*service.ProfileService, *fakeUserRepo, *fakeProfileRepo) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	directory := service.NewProfileDirectory(profiles, nil)
	return service.NewProfileService(users, profiles, directory), users, profiles
}

func TestGetBundlesAccountAndProfile(t *testing.T) {
	svc, users, profiles := newProfileFixture()
	alice := users.add("Alice")
	profiles.add(alice, "Alice B.")

	bundle, err := svc.Get(context.Background(), alice)
	require.NoError(t, err)
	require.NotNil(t, bundle)
	require.Equal(t, alice, bundle.AuthUser.ID)
	require.Equal(t, "Alice", bundle.AuthUser.DisplayName)
	require.NotNil(t, bundle.Profile)
	require.Equal(t, "Alice B.", bundle.Profile.DisplayName)
}

func TestGetSoftFailsForAnonymousAndMissingProfile(t *testing.T) {
	svc, users, _ := newProfileFixture()
	alice := users.add("Alice")

	bundle, err := svc.Get(context.Background(), uuid.Nil)
	require.NoError(t, err)
	require.Nil(t, bundle)

	// Account exists but no profile row yet: bundle with nil profile.
	bundle, err = svc.Get(context.Background(), alice)
	require.NoError(t, err)
	require.NotNil(t, bundle)
	require.Nil(t, bundle.Profile)
}

func TestUpdateCreatesProfileOnFirstCall(t *testing.T) {
	svc, users, profiles := newProfileFixture()
	alice := users.add("Alice")
	bio := "Hallo aus Berlin"

	updated, err := svc.Update(context.Background(), alice, models.ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, "Alice", updated.DisplayName) // defaulted from the account
	require.NotNil(t, updated.Bio)
	require.Equal(t, bio, *updated.Bio)
	require.Len(t, profiles.profiles, 1)
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	svc, users, profiles := newProfileFixture()
	alice := users.add("Alice")
	profiles.add(alice, "Alice")
	location := "München"

	updated, err := svc.Update(context.Background(), alice, models.ProfilePatch{Location: &location})
	require.NoError(t, err)
	require.Equal(t, "Alice", updated.DisplayName)
	require.NotNil(t, updated.Location)
	require.Equal(t, location, *updated.Location)
	require.Nil(t, updated.Bio)
}

func TestUpdateRequiresAuth(t *testing.T) {
	svc, _, _ := newProfileFixture()
	name := "Nobody"

	_, err := svc.Update(context.Background(), uuid.Nil, models.ProfilePatch{DisplayName: &name})
	require.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestSearchUsersExcludesCaller(t *testing.T) {
	svc, users, profiles := newProfileFixture()
	alice := users.add("Alice")
	bob := users.add("Bob")
	profiles.add(alice, "Anna")
	profiles.add(bob, "Annika")

	results, err := svc.SearchUsers(context.Background(), alice, "ann")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, bob, results[0].UserID)
}

func TestSearchUsersBlankTermAndAnonymous(t *testing.T) {
	svc, users, profiles := newProfileFixture()
	bob := users.add("Bob")
	profiles.add(bob, "Bob")

	results, err := svc.SearchUsers(context.Background(), uuid.New(), "   ")
	require.NoError(t, err)
	require.Empty(t, results)

	results, err = svc.SearchUsers(context.Background(), uuid.Nil, "bob")
	require.NoError(t, err)
	require.Empty(t, results)
}
