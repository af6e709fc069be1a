package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatmates/marketplace/internal/model"
)

func msgAt(id, sender, receiver, content string, min int) model.Message {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return model.Message{
		ID:           id,
		SenderID:     sender,
		ReceiverID:   receiver,
		Content:      content,
		CreatedAt:    base.Add(time.Duration(min) * time.Minute),
		SenderName:   "name-" + sender,
		ReceiverName: "name-" + receiver,
	}
}

func TestBuildConversationsLatestWins(t *testing.T) {
	// Scan order is descending: newest first. A then B replies, then A again.
	msgs := []model.Message{
		msgAt("m3", "b", "a", "sure, tomorrow?", 30),
		msgAt("m2", "a", "b", "can we visit?", 20),
		msgAt("m1", "b", "a", "room is free", 10),
	}
	convs := BuildConversations("a", msgs)
	require.Len(t, convs, 1)
	assert.Equal(t, "b", convs[0].UserID)
	assert.Equal(t, "name-b", convs[0].UserName)
	assert.Equal(t, "sure, tomorrow?", convs[0].LastMessage)
	assert.Equal(t, msgs[0].CreatedAt, convs[0].Timestamp)
}

func TestBuildConversationsMultipleCounterparties(t *testing.T) {
	msgs := []model.Message{
		msgAt("m4", "a", "c", "hello c", 40),
		msgAt("m3", "b", "a", "hello from b", 30),
		msgAt("m2", "a", "b", "hi b", 20),
		msgAt("m1", "c", "a", "hi a", 10),
	}
	convs := BuildConversations("a", msgs)
	require.Len(t, convs, 2)
	// Most recently active conversation first.
	assert.Equal(t, "c", convs[0].UserID)
	assert.Equal(t, "hello c", convs[0].LastMessage)
	assert.Equal(t, "b", convs[1].UserID)
	assert.Equal(t, "hello from b", convs[1].LastMessage)
}

func TestBuildConversationsEmpty(t *testing.T) {
	assert.Empty(t, BuildConversations("a", nil))
}
