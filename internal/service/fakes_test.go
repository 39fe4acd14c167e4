package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/models"
)

// In-memory repository fakes. They mirror the Postgres stores' contracts
// (nil, nil on missing rows, idempotent join, sorted-pair conversations)
// so the services can be exercised without a database.

type fakeUserRepo struct {
	users map[uuid.UUID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]models.User)}
}

func (f *fakeUserRepo) add(displayName string) uuid.UUID {
	id := uuid.New()
	f.users[id] = models.User{
		ID:          id,
		Email:       strings.ToLower(displayName) + "@example.com",
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}
	return id
}

func (f *fakeUserRepo) Create(ctx context.Context, email, displayName, passwordHash string) (*models.User, error) {
	id := uuid.New()
	u := models.User{ID: id, Email: email, DisplayName: displayName, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[id] = u
	return &u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if u, ok := f.users[userID]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]models.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]models.UserProfile)}
}

func (f *fakeProfileRepo) add(userID uuid.UUID, displayName string) {
	now := time.Now()
	f.profiles[userID] = models.UserProfile{
		UserID: userID, DisplayName: displayName, CreatedAt: now, UpdatedAt: now,
	}
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if p, ok := f.profiles[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeProfileRepo) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.UserProfile, error) {
	result := make(map[uuid.UUID]models.UserProfile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	f.profiles[profile.UserID] = *profile
	return nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	if patch.DisplayName != nil {
		p.DisplayName = *patch.DisplayName
	}
	if patch.Bio != nil {
		p.Bio = patch.Bio
	}
	if patch.AvatarURL != nil {
		p.AvatarURL = patch.AvatarURL
	}
	if patch.Location != nil {
		p.Location = patch.Location
	}
	p.UpdatedAt = time.Now()
	f.profiles[userID] = p
	return &p, nil
}

func (f *fakeProfileRepo) Search(ctx context.Context, term string, limit int) ([]models.UserProfile, error) {
	matches := make([]models.UserProfile, 0)
	for _, p := range f.profiles {
		if strings.Contains(strings.ToLower(p.DisplayName), strings.ToLower(term)) {
			matches = append(matches, p)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].DisplayName < matches[j].DisplayName })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

type fakeChannelRepo struct {
	channels map[uuid.UUID]models.Channel
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{channels: make(map[uuid.UUID]models.Channel)}
}

func (f *fakeChannelRepo) add(name string, channelType models.ChannelType, isDefault bool, sortOrder int) uuid.UUID {
	id := uuid.New()
	f.channels[id] = models.Channel{
		ID: id, Name: name, Slug: strings.ToLower(name), Type: channelType,
		Icon: "chatbubble-ellipses-outline", IconLibrary: "Ionicons",
		IsDefault: isDefault, SortOrder: sortOrder, CreatedAt: time.Now(),
	}
	return id
}

func (f *fakeChannelRepo) sorted(filter func(models.Channel) bool) []models.Channel {
	result := make([]models.Channel, 0)
	for _, ch := range f.channels {
		if filter(ch) {
			result = append(result, ch)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result
}

func (f *fakeChannelRepo) GetByID(ctx context.Context, channelID uuid.UUID) (*models.Channel, error) {
	if ch, ok := f.channels[channelID]; ok {
		return &ch, nil
	}
	return nil, nil
}

func (f *fakeChannelRepo) GetBySlug(ctx context.Context, slug string) (*models.Channel, error) {
	for _, ch := range f.channels {
		if ch.Slug == slug {
			return &ch, nil
		}
	}
	return nil, nil
}

func (f *fakeChannelRepo) ListByType(ctx context.Context, channelType models.ChannelType) ([]models.Channel, error) {
	return f.sorted(func(ch models.Channel) bool { return ch.Type == channelType }), nil
}

func (f *fakeChannelRepo) ListByIDs(ctx context.Context, channelIDs []uuid.UUID) ([]models.Channel, error) {
	wanted := make(map[uuid.UUID]struct{}, len(channelIDs))
	for _, id := range channelIDs {
		wanted[id] = struct{}{}
	}
	return f.sorted(func(ch models.Channel) bool {
		_, ok := wanted[ch.ID]
		return ok
	}), nil
}

func (f *fakeChannelRepo) ListDefault(ctx context.Context) ([]models.Channel, error) {
	return f.sorted(func(ch models.Channel) bool { return ch.IsDefault }), nil
}

func (f *fakeChannelRepo) ListAvailable(ctx context.Context, userID uuid.UUID, channelType models.ChannelType) ([]models.Channel, error) {
	// Not wired through the membership fake; channel service tests use
	// a membership fake directly where needed.
	return f.sorted(func(ch models.Channel) bool { return ch.Type == channelType }), nil
}

type membershipKey struct {
	userID    uuid.UUID
	channelID uuid.UUID
}

type fakeMembershipRepo struct {
	nextID int64
	rows   map[membershipKey]models.ChannelMembership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{rows: make(map[membershipKey]models.ChannelMembership)}
}

func (f *fakeMembershipRepo) Join(ctx context.Context, userID, channelID uuid.UUID) (int64, error) {
	key := membershipKey{userID, channelID}
	if m, ok := f.rows[key]; ok {
		return m.ID, nil
	}
	f.nextID++
	f.rows[key] = models.ChannelMembership{
		ID: f.nextID, UserID: userID, ChannelID: channelID, JoinedAt: time.Now(),
	}
	return f.nextID, nil
}

func (f *fakeMembershipRepo) Leave(ctx context.Context, userID, channelID uuid.UUID) error {
	delete(f.rows, membershipKey{userID, channelID})
	return nil
}

func (f *fakeMembershipRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.ChannelMembership, error) {
	result := make([]models.ChannelMembership, 0)
	for _, m := range f.rows {
		if m.UserID == userID {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeMembershipRepo) IsMember(ctx context.Context, userID, channelID uuid.UUID) (bool, error) {
	_, ok := f.rows[membershipKey{userID, channelID}]
	return ok, nil
}

type convMemberKey struct {
	userID         uuid.UUID
	conversationID uuid.UUID
}

type fakeConvMembershipRepo struct {
	rows map[convMemberKey]struct{}
}

func newFakeConvMembershipRepo() *fakeConvMembershipRepo {
	return &fakeConvMembershipRepo{rows: make(map[convMemberKey]struct{})}
}

func (f *fakeConvMembershipRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.ConversationMembership, error) {
	result := make([]models.ConversationMembership, 0)
	for key := range f.rows {
		if key.userID == userID {
			result = append(result, models.ConversationMembership{
				UserID: key.userID, ConversationID: key.conversationID,
			})
		}
	}
	return result, nil
}

func (f *fakeConvMembershipRepo) IsParticipant(ctx context.Context, userID, conversationID uuid.UUID) (bool, error) {
	_, ok := f.rows[convMemberKey{userID, conversationID}]
	return ok, nil
}

type fakeConversationRepo struct {
	convs   map[uuid.UUID]models.Conversation
	members *fakeConvMembershipRepo
}

func newFakeConversationRepo(members *fakeConvMembershipRepo) *fakeConversationRepo {
	return &fakeConversationRepo{convs: make(map[uuid.UUID]models.Conversation), members: members}
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, conversationID uuid.UUID) (*models.Conversation, error) {
	if c, ok := f.convs[conversationID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeConversationRepo) GetByPair(ctx context.Context, userAID, userBID uuid.UUID) (*models.Conversation, error) {
	for _, c := range f.convs {
		if c.UserAID == userAID && c.UserBID == userBID {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationRepo) CreateWithParticipants(ctx context.Context, userAID, userBID uuid.UUID) (*models.Conversation, error) {
	c := models.Conversation{ID: uuid.New(), UserAID: userAID, UserBID: userBID, CreatedAt: time.Now()}
	f.convs[c.ID] = c
	f.members.rows[convMemberKey{userAID, c.ID}] = struct{}{}
	f.members.rows[convMemberKey{userBID, c.ID}] = struct{}{}
	return &c, nil
}

type fakeMessageRepo struct {
	nextID int64
	msgs   []models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

// addToConversation appends a message with an explicit timestamp, for
// tests that need to control ordering.
func (f *fakeMessageRepo) addToConversation(conversationID, authorID uuid.UUID, content string, createdAt time.Time) {
	f.nextID++
	f.msgs = append(f.msgs, models.Message{
		ID: f.nextID, ConversationID: &conversationID, AuthorID: authorID,
		Content: content, CreatedAt: createdAt,
	})
}

func (f *fakeMessageRepo) Create(ctx context.Context, target models.MessageTarget, authorID uuid.UUID, content string) (*models.Message, error) {
	f.nextID++
	msg := models.Message{ID: f.nextID, AuthorID: authorID, Content: content, CreatedAt: time.Now()}
	id := target.ID()
	if target.Kind() == models.TargetChannel {
		msg.ChannelID = &id
	} else {
		msg.ConversationID = &id
	}
	f.msgs = append(f.msgs, msg)
	return &msg, nil
}

func (f *fakeMessageRepo) list(match func(models.Message) bool, before int64, limit int) []models.Message {
	result := make([]models.Message, 0)
	for _, m := range f.msgs {
		if match(m) && (before == 0 || m.ID < before) {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (f *fakeMessageRepo) ListByChannel(ctx context.Context, channelID uuid.UUID, before int64, limit int) ([]models.Message, error) {
	return f.list(func(m models.Message) bool {
		return m.ChannelID != nil && *m.ChannelID == channelID
	}, before, limit), nil
}

func (f *fakeMessageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID, before int64, limit int) ([]models.Message, error) {
	return f.list(func(m models.Message) bool {
		return m.ConversationID != nil && *m.ConversationID == conversationID
	}, before, limit), nil
}

func (f *fakeMessageRepo) LatestInConversation(ctx context.Context, conversationID uuid.UUID) (*models.Message, error) {
	msgs := f.list(func(m models.Message) bool {
		return m.ConversationID != nil && *m.ConversationID == conversationID
	}, 0, 1)
	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[0], nil
}
