package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flatmates/marketplace/internal/domain"
	"github.com/flatmates/marketplace/internal/model"
)

// MessageStore is the slice of the message repository the handler needs.
type MessageStore interface {
	Create(ctx context.Context, senderID, receiverID, content string) (string, error)
	ListForUser(ctx context.Context, userID string) ([]model.Message, error)
	ListBetween(ctx context.Context, userID, otherID string) ([]model.Message, error)
}

// UserChecker verifies a receiver exists before a message is accepted.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type MessageHandler struct {
	Store MessageStore
	Users UserChecker
}

func NewMessageHandler(s MessageStore, u UserChecker) *MessageHandler {
	return &MessageHandler{Store: s, Users: u}
}

type sendMessageReq struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

type messageResp struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"senderId"`
	ReceiverID   string    `json:"receiverId"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	SenderName   string    `json:"senderName,omitempty"`
	ReceiverName string    `json:"receiverName,omitempty"`
}

func messageViews(ms []model.Message) []messageResp {
	out := make([]messageResp, 0, len(ms))
	for _, m := range ms {
		out = append(out, messageResp{
			ID:           m.ID,
			SenderID:     m.SenderID,
			ReceiverID:   m.ReceiverID,
			Content:      m.Content,
			CreatedAt:    m.CreatedAt,
			SenderName:   m.SenderName,
			ReceiverName: m.ReceiverName,
		})
	}
	return out
}

// Send stores a message to another user.  Self-messaging is rejected and the
// receiver must exist.
func (h *MessageHandler) Send(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if bad := domain.ValidateMessage(req.ReceiverID, req.Content); len(bad) > 0 {
		return invalidFields(c, bad)
	}
	if domain.IsSelfMessage(uid, req.ReceiverID) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot message yourself"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ok, err := h.Users.Exists(ctx, req.ReceiverID)
	if err != nil {
		return fail(c, err, "check receiver failed")
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "receiver not found"})
	}

	id, err := h.Store.Create(ctx, uid, req.ReceiverID, req.Content)
	if err != nil {
		return fail(c, err, "send message failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Conversations returns one summary entry per counterparty, most recently
// active first.  The view is derived from the raw message scan on every
// request; nothing is stored per conversation.
func (h *MessageHandler) Conversations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	msgs, err := h.Store.ListForUser(ctx, uid)
	if err != nil {
		return fail(c, err, "load messages failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"conversations": domain.BuildConversations(uid, msgs),
	})
}

// Thread returns the full history between the caller and one other user,
// oldest first.
func (h *MessageHandler) Thread(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	msgs, err := h.Store.ListBetween(ctx, uid, c.Param("userId"))
	if err != nil {
		return fail(c, err, "load thread failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": messageViews(msgs)})
}
