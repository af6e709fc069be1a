package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const (
		secret    = "test_secret_key"
		orderID   = "order_MhYz1vKoJQ3x8p"
		paymentID = "pay_MhZ2qLwEb7T4nr"
	)
	good := sign(orderID, paymentID, secret)
	assert.True(t, VerifySignature(orderID, paymentID, good, secret))

	t.Run("any single character mutation fails", func(t *testing.T) {
		for i := 0; i < len(good); i++ {
			mutated := []byte(good)
			if mutated[i] == '0' {
				mutated[i] = '1'
			} else {
				mutated[i] = '0'
			}
			assert.False(t, VerifySignature(orderID, paymentID, string(mutated), secret),
				"mutation at index %d verified", i)
		}
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		assert.False(t, VerifySignature(orderID, paymentID, good, "other_secret"))
	})

	t.Run("swapped ids fail", func(t *testing.T) {
		assert.False(t, VerifySignature(paymentID, orderID, good, secret))
	})

	t.Run("empty signature fails", func(t *testing.T) {
		assert.False(t, VerifySignature(orderID, paymentID, "", secret))
	})
}

func TestNewRazorpayRequiresCredentials(t *testing.T) {
	_, err := NewRazorpay("", "secret")
	require.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewRazorpay("key", "")
	require.ErrorIs(t, err, ErrNotConfigured)

	g, err := NewRazorpay("key", "secret")
	require.NoError(t, err)
	assert.Equal(t, "key", g.KeyID)
	assert.True(t, g.VerifySignature("o", "p", sign("o", "p", "secret")))
}
