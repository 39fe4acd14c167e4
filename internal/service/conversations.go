package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ConversationService covers direct-message conversations: idempotent
// pair creation and the enriched, activity-sorted listing.
type ConversationService struct {
	conversations repository.ConversationRepository
	members       repository.ConversationMembershipRepository
	messages      repository.MessageRepository
	users         repository.UserRepository
	directory     *ProfileDirectory
}

func NewConversationService(
	conversations repository.ConversationRepository,
	members repository.ConversationMembershipRepository,
	messages repository.MessageRepository,
	users repository.UserRepository,
	directory *ProfileDirectory,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		members:       members,
		messages:      messages,
		users:         users,
		directory:     directory,
	}
}

// sortPair orders two user ids the way Postgres orders uuids (bytewise),
// so every caller agrees on the canonical (A,B) for an unordered pair.
func sortPair(x, y uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(x[:], y[:]) < 0 {
		return x, y
	}
	return y, x
}

// GetOrCreate returns the conversation id for the caller and another
// user, creating it (with both membership rows, atomically) on first
// contact. (A,B) and (B,A) always resolve to the same conversation.
func (s *ConversationService) GetOrCreate(ctx context.Context, callerID, otherUserID uuid.UUID) (uuid.UUID, error) {
	if callerID == uuid.Nil {
		return uuid.Nil, models.ErrUnauthenticated
	}
	if otherUserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: missing other user id", models.ErrInvalidInput)
	}
	if otherUserID == callerID {
		return uuid.Nil, fmt.Errorf("%w: cannot create a conversation with yourself", models.ErrInvalidInput)
	}

	other, err := s.users.GetByID(ctx, otherUserID)
	if err != nil {
		return uuid.Nil, err
	}
	if other == nil {
		return uuid.Nil, fmt.Errorf("%w: user", models.ErrNotFound)
	}

	a, b := sortPair(callerID, otherUserID)

	existing, err := s.conversations.GetByPair(ctx, a, b)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	conv, err := s.conversations.CreateWithParticipants(ctx, a, b)
	if err != nil {
		return uuid.Nil, err
	}
	return conv.ID, nil
}

// ListForUser returns the caller's conversations enriched with the
// other participant's profile and a preview of the latest message,
// most recently active first. Empty for anonymous callers.
//
// The per-conversation lookups are independent keyed reads, so they
// fan out concurrently; results land in a positional slice to keep the
// membership order until the final sort.
func (s *ConversationService) ListForUser(ctx context.Context, callerID uuid.UUID) ([]models.ConversationSummary, error) {
	if callerID == uuid.Nil {
		return []models.ConversationSummary{}, nil
	}

	memberships, err := s.members.ListForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	results := make([]*models.ConversationSummary, len(memberships))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range memberships {
		i, m := i, m
		g.Go(func() error {
			summary, err := s.summarize(gctx, callerID, m.ConversationID)
			if err != nil {
				return err
			}
			results[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(results))
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, *r)
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastActivity().After(summaries[j].LastActivity())
	})
	return summaries, nil
}

// summarize builds one list row. Returns nil when the conversation row
// is gone (dangling membership).
func (s *ConversationService) summarize(ctx context.Context, callerID, conversationID uuid.UUID) (*models.ConversationSummary, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, nil
	}

	otherID := conv.OtherParticipant(callerID)

	otherUser := models.ParticipantInfo{UserID: otherID, DisplayName: unknownAuthor}
	profile, err := s.directory.Lookup(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		otherUser.DisplayName = profile.DisplayName
		otherUser.AvatarURL = profile.AvatarURL
	}

	var preview *models.MessagePreview
	last, err := s.messages.LatestInConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		preview = &models.MessagePreview{Content: last.Content, CreatedAt: last.CreatedAt}
	}

	return &models.ConversationSummary{
		Conversation: *conv,
		OtherUser:    otherUser,
		LastMessage:  preview,
	}, nil
}
