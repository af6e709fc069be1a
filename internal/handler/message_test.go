package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatmates/marketplace/internal/model"
)

type mockMessageStore struct {
	sent    []model.Message
	forUser []model.Message
	between []model.Message
}

func (m *mockMessageStore) Create(_ context.Context, senderID, receiverID, content string) (string, error) {
	m.sent = append(m.sent, model.Message{SenderID: senderID, ReceiverID: receiverID, Content: content})
	return "m1", nil
}

func (m *mockMessageStore) ListForUser(_ context.Context, _ string) ([]model.Message, error) {
	return m.forUser, nil
}

func (m *mockMessageStore) ListBetween(_ context.Context, _, _ string) ([]model.Message, error) {
	return m.between, nil
}

type mockUserChecker struct{ existing map[string]bool }

func (m *mockUserChecker) Exists(_ context.Context, id string) (bool, error) {
	return m.existing[id], nil
}

func TestMessageSend(t *testing.T) {
	t.Run("stores a valid message", func(t *testing.T) {
		store := &mockMessageStore{}
		h := NewMessageHandler(store, &mockUserChecker{existing: map[string]bool{"u2": true}})

		c, rec := authedContext(t, http.MethodPost, "/v1/messages",
			`{"receiverId":"u2","content":"hey, is the room still available?"}`, "u1", model.RoleSeeker)
		require.NoError(t, h.Send(c))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Len(t, store.sent, 1)
		assert.Equal(t, "u1", store.sent[0].SenderID)
		assert.Equal(t, "u2", store.sent[0].ReceiverID)
	})

	t.Run("rejects self-send", func(t *testing.T) {
		store := &mockMessageStore{}
		h := NewMessageHandler(store, &mockUserChecker{existing: map[string]bool{"u1": true}})

		c, rec := authedContext(t, http.MethodPost, "/v1/messages",
			`{"receiverId":"u1","content":"note to self"}`, "u1", model.RoleSeeker)
		require.NoError(t, h.Send(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, store.sent)
	})

	t.Run("unknown receiver returns 404", func(t *testing.T) {
		store := &mockMessageStore{}
		h := NewMessageHandler(store, &mockUserChecker{existing: map[string]bool{}})

		c, rec := authedContext(t, http.MethodPost, "/v1/messages",
			`{"receiverId":"ghost","content":"hello?"}`, "u1", model.RoleSeeker)
		require.NoError(t, h.Send(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, store.sent)
	})

	t.Run("empty content fails validation", func(t *testing.T) {
		store := &mockMessageStore{}
		h := NewMessageHandler(store, &mockUserChecker{existing: map[string]bool{"u2": true}})

		c, rec := authedContext(t, http.MethodPost, "/v1/messages",
			`{"receiverId":"u2","content":"   "}`, "u1", model.RoleSeeker)
		require.NoError(t, h.Send(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "content")
	})
}

func TestMessageConversations(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &mockMessageStore{
		// Newest first, as the repository returns them.
		forUser: []model.Message{
			{SenderID: "u2", ReceiverID: "u1", Content: "latest from u2", CreatedAt: base.Add(3 * time.Hour), SenderName: "Bea", ReceiverName: "Ann"},
			{SenderID: "u1", ReceiverID: "u3", Content: "latest to u3", CreatedAt: base.Add(2 * time.Hour), SenderName: "Ann", ReceiverName: "Cal"},
			{SenderID: "u1", ReceiverID: "u2", Content: "older to u2", CreatedAt: base, SenderName: "Ann", ReceiverName: "Bea"},
		},
	}
	h := NewMessageHandler(store, &mockUserChecker{})

	c, rec := authedContext(t, http.MethodGet, "/v1/conversations", "", "u1", model.RoleSeeker)
	require.NoError(t, h.Conversations(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Conversations []struct {
			UserID      string `json:"user_id"`
			UserName    string `json:"user_name"`
			LastMessage string `json:"last_message"`
		} `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Conversations, 2)
	assert.Equal(t, "u2", body.Conversations[0].UserID)
	assert.Equal(t, "Bea", body.Conversations[0].UserName)
	assert.Equal(t, "latest from u2", body.Conversations[0].LastMessage)
	assert.Equal(t, "u3", body.Conversations[1].UserID)
}

func TestMessageThread(t *testing.T) {
	store := &mockMessageStore{
		between: []model.Message{
			{ID: "a", SenderID: "u1", ReceiverID: "u2", Content: "hi"},
			{ID: "b", SenderID: "u2", ReceiverID: "u1", Content: "hello"},
		},
	}
	h := NewMessageHandler(store, &mockUserChecker{})

	c, rec := authedContext(t, http.MethodGet, "/v1/messages/u2", "", "u1", model.RoleSeeker)
	c.SetParamNames("userId")
	c.SetParamValues("u2")
	require.NoError(t, h.Thread(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hi"`)
	assert.Contains(t, rec.Body.String(), `"hello"`)
}
