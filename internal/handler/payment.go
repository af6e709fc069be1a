package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flatmates/marketplace/internal/config"
	"github.com/flatmates/marketplace/internal/model"
	"github.com/flatmates/marketplace/internal/queue"
)

// PaymentStore is the slice of the payment repository the handler needs.
type PaymentStore interface {
	Create(ctx context.Context, userID string, amount int64, currency, provider string) (string, error)
	SetTransactionID(ctx context.Context, id, txnID string) error
	CompleteByTransactionID(ctx context.Context, txnID string) error
	ListByUser(ctx context.Context, userID string) ([]model.Payment, error)
}

// PaymentGateway creates orders and verifies checkout signatures.
type PaymentGateway interface {
	CreateOrder(amount int64, currency, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Promoter upgrades a user to the premium role.
type Promoter interface {
	PromoteToPremium(ctx context.Context, id string) error
}

type PaymentHandler struct {
	Cfg     config.Config
	Store   PaymentStore
	Users   Promoter
	Gateway PaymentGateway // nil when credentials are absent
	Events  Events
}

func NewPaymentHandler(cfg config.Config, s PaymentStore, u Promoter, g PaymentGateway, ev Events) *PaymentHandler {
	return &PaymentHandler{Cfg: cfg, Store: s, Users: u, Gateway: g, Events: ev}
}

type verifyPaymentReq struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

type paymentResp struct {
	ID            string    `json:"id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Provider      string    `json:"provider"`
	TransactionID string    `json:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateOrder starts the premium purchase: a PENDING payment row is written
// first, then a gateway order is created with the payment id as its receipt
// and recorded as the transaction id.  Credentials are checked before any
// state is written so a misconfigured gateway leaves no orphaned rows.
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Gateway == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment gateway not configured"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	paymentID, err := h.Store.Create(ctx, uid, h.Cfg.PremiumAmount, h.Cfg.PremiumCurrency, "razorpay")
	if err != nil {
		return fail(c, err, "create payment failed")
	}
	orderID, err := h.Gateway.CreateOrder(h.Cfg.PremiumAmount, h.Cfg.PremiumCurrency, paymentID)
	if err != nil {
		return fail(c, err, "create order failed")
	}
	if err := h.Store.SetTransactionID(ctx, paymentID, orderID); err != nil {
		return fail(c, err, "record order failed")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"orderId":  orderID,
		"amount":   h.Cfg.PremiumAmount,
		"currency": h.Cfg.PremiumCurrency,
		"keyId":    h.Cfg.RazorpayKeyID,
	})
}

// Verify checks the checkout confirmation signature.  On a match the payment
// carrying the order id is completed and the caller is promoted to premium;
// both steps are idempotent so a retried confirmation is harmless.  On a
// mismatch nothing changes.
func (h *PaymentHandler) Verify(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Gateway == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment gateway not configured"})
	}
	var req verifyPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var bad []string
	if req.OrderID == "" {
		bad = append(bad, "orderId")
	}
	if req.PaymentID == "" {
		bad = append(bad, "paymentId")
	}
	if req.Signature == "" {
		bad = append(bad, "signature")
	}
	if len(bad) > 0 {
		return invalidFields(c, bad)
	}

	if !h.Gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid signature"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Store.CompleteByTransactionID(ctx, req.OrderID); err != nil {
		return fail(c, err, "complete payment failed")
	}
	if err := h.Users.PromoteToPremium(ctx, uid); err != nil {
		return fail(c, err, "upgrade failed")
	}

	if h.Events != nil {
		h.Events.PaymentCompleted(queue.PaymentCompletedEvent{
			OrderID:     req.OrderID,
			UserID:      uid,
			Amount:      h.Cfg.PremiumAmount,
			Currency:    h.Cfg.PremiumCurrency,
			CompletedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": model.PaymentCompleted,
		"role":   model.RoleListerPremium,
	})
}

// Upgrade is the mock premium flow: a direct role promotion with no gateway
// involvement and no payment row.
func (h *PaymentHandler) Upgrade(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.PromoteToPremium(ctx, uid); err != nil {
		return fail(c, err, "upgrade failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"role": model.RoleListerPremium})
}

// History returns the caller's payments, newest first.
func (h *PaymentHandler) History(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ps, err := h.Store.ListByUser(ctx, uid)
	if err != nil {
		return fail(c, err, "load payments failed")
	}
	out := make([]paymentResp, 0, len(ps))
	for _, p := range ps {
		out = append(out, paymentResp{
			ID:            p.ID,
			Amount:        p.Amount,
			Currency:      p.Currency,
			Status:        p.Status,
			Provider:      p.Provider,
			TransactionID: p.TransactionID,
			CreatedAt:     p.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": out})
}
