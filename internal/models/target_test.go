package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/treffchat/treffchat/internal/models"
)

func TestMessageTargetConstructors(t *testing.T) {
	id := uuid.New()

	target := models.ChannelTarget(id)
	require.Equal(t, models.TargetChannel, target.Kind())
	require.Equal(t, id, target.ID())
	require.False(t, target.IsZero())

	target = models.ConversationTarget(id)
	require.Equal(t, models.TargetConversation, target.Kind())
	require.Equal(t, id, target.ID())

	require.True(t, models.MessageTarget{}.IsZero())
}

func TestConversationOtherParticipant(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	conv := models.Conversation{UserAID: a, UserBID: b}

	require.Equal(t, b, conv.OtherParticipant(a))
	require.Equal(t, a, conv.OtherParticipant(b))
}

func TestConversationSummaryLastActivity(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	summary := models.ConversationSummary{
		Conversation: models.Conversation{CreatedAt: created},
	}
	require.Equal(t, created, summary.LastActivity())

	sent := time.Now()
	summary.LastMessage = &models.MessagePreview{CreatedAt: sent}
	require.Equal(t, sent, summary.LastActivity())
}
