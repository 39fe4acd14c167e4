package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/authz"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/repository"
)

const (
	// DefaultPageSize matches what the mobile client requests.
	DefaultPageSize = 30
	MaxPageSize     = 100
)

// MessageService covers sending and the paginated, author-enriched
// history queries for both scopes.
type MessageService struct {
	messages          repository.MessageRepository
	channelGuard      authz.Guard
	conversationGuard authz.Guard
	directory         *ProfileDirectory
}

func NewMessageService(
	messages repository.MessageRepository,
	channelGuard authz.Guard,
	conversationGuard authz.Guard,
	directory *ProfileDirectory,
) *MessageService {
	return &MessageService{
		messages:          messages,
		channelGuard:      channelGuard,
		conversationGuard: conversationGuard,
		directory:         directory,
	}
}

func (s *MessageService) guardFor(kind models.TargetKind) authz.Guard {
	if kind == models.TargetConversation {
		return s.conversationGuard
	}
	return s.channelGuard
}

// Send appends a message to the target scope. Content is trimmed and
// must be non-empty after trimming; the caller must be allowed to
// write in the scope. The timestamp is server-assigned.
func (s *MessageService) Send(ctx context.Context, callerID uuid.UUID, target models.MessageTarget, content string) (*models.Message, error) {
	if callerID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	if target.IsZero() {
		return nil, fmt.Errorf("%w: must specify a channel or conversation", models.ErrInvalidInput)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is empty", models.ErrInvalidInput)
	}

	if err := s.guardFor(target.Kind()).CanWrite(ctx, callerID, target.ID()); err != nil {
		return nil, err
	}

	return s.messages.Create(ctx, target, callerID, content)
}

// ListByChannel returns a page of channel history, newest first.
// Requires an authenticated caller but no membership: channels are
// readable by any signed-in user.
func (s *MessageService) ListByChannel(ctx context.Context, callerID, channelID uuid.UUID, before int64, limit int) (models.MessagePage, error) {
	if err := s.channelGuard.CanRead(ctx, callerID, channelID); err != nil {
		return models.MessagePage{}, err
	}

	limit = clampLimit(limit)
	messages, err := s.messages.ListByChannel(ctx, channelID, before, limit)
	if err != nil {
		return models.MessagePage{}, err
	}
	return s.enrich(ctx, messages, limit)
}

// ListByConversation returns a page of conversation history, newest
// first. Only participants may read.
func (s *MessageService) ListByConversation(ctx context.Context, callerID, conversationID uuid.UUID, before int64, limit int) (models.MessagePage, error) {
	if err := s.conversationGuard.CanRead(ctx, callerID, conversationID); err != nil {
		return models.MessagePage{}, err
	}

	limit = clampLimit(limit)
	messages, err := s.messages.ListByConversation(ctx, conversationID, before, limit)
	if err != nil {
		return models.MessagePage{}, err
	}
	return s.enrich(ctx, messages, limit)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// enrich joins a page of messages with their authors' profiles via one
// batched directory lookup over the page's distinct author ids.
func (s *MessageService) enrich(ctx context.Context, messages []models.Message, limit int) (models.MessagePage, error) {
	authorIDs := make([]uuid.UUID, len(messages))
	for i, msg := range messages {
		authorIDs[i] = msg.AuthorID
	}

	profiles, err := s.directory.LookupMany(ctx, authorIDs)
	if err != nil {
		return models.MessagePage{}, err
	}

	page := models.MessagePage{
		Messages: make([]models.MessageWithAuthor, len(messages)),
		IsDone:   len(messages) < limit,
	}
	for i, msg := range messages {
		enriched := models.MessageWithAuthor{Message: msg, AuthorName: unknownAuthor}
		if profile, ok := profiles[msg.AuthorID]; ok {
			enriched.AuthorName = profile.DisplayName
			enriched.AuthorAvatarURL = profile.AvatarURL
		}
		page.Messages[i] = enriched
	}
	if len(messages) > 0 {
		page.NextCursor = messages[len(messages)-1].ID
	}
	return page, nil
}
