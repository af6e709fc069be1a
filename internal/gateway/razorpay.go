// Package gateway wraps the Razorpay payment gateway: order creation through
// the official client and independent verification of the signature the
// client-side checkout reports back.
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// ErrNotConfigured is returned when order creation is attempted without
// gateway credentials.  Callers must check configuration before creating any
// local payment state.
var ErrNotConfigured = errors.New("payment gateway not configured")

// Razorpay creates orders against the live gateway.  KeyID is also exposed
// to clients so the checkout widget can be initialized.
type Razorpay struct {
	KeyID  string
	secret string
	client *razorpay.Client
}

// NewRazorpay builds a gateway adapter.  Returns ErrNotConfigured when either
// credential is missing.
func NewRazorpay(keyID, secret string) (*Razorpay, error) {
	if keyID == "" || secret == "" {
		return nil, ErrNotConfigured
	}
	return &Razorpay{
		KeyID:  keyID,
		secret: secret,
		client: razorpay.NewClient(keyID, secret),
	}, nil
}

// CreateOrder asks the gateway for a new order and returns its id.  The
// receipt is our payment row id, which ties the gateway order back to local
// state.
func (g *Razorpay) CreateOrder(amount int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return "", errors.New("create order: missing order id in gateway response")
	}
	return orderID, nil
}

// VerifySignature recomputes the checkout confirmation signature and compares
// it with the client-submitted one.
func (g *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, g.secret)
}

// VerifySignature checks a Razorpay checkout confirmation: the expected
// signature is HMAC-SHA256 over "orderID|paymentID" keyed with the key
// secret, hex encoded.  Comparison is constant time; a forged signature must
// not be distinguishable by how far it matches.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
