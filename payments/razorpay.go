// Package payments talks to the Razorpay order API and checks the
// signatures Razorpay checkout hands back to the client.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/razorpay/razorpay-go"
)

const currencyINR = "INR"

var ErrNotConfigured = errors.New("razorpay credentials are not configured")

// GatewayOrder is the part of a Razorpay order the client needs to open checkout.
type GatewayOrder struct {
	ID       string `json:"razorpayOrderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, receipt string, amount float64) (*GatewayOrder, error)
	VerifySignature(razorpayOrderID, paymentID, signature string) bool
}

type Razorpay struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// CreateOrder registers an order of amount rupees with Razorpay. Razorpay
// works in paise.
func (r *Razorpay) CreateOrder(_ context.Context, receipt string, amount float64) (*GatewayOrder, error) {
	if r.keyID == "" || r.keySecret == "" {
		return nil, ErrNotConfigured
	}

	data := map[string]interface{}{
		"amount":   ToPaise(amount),
		"currency": currencyINR,
		"receipt":  receipt,
	}
	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay order response has no id")
	}
	return &GatewayOrder{
		ID:       id,
		Amount:   ToPaise(amount),
		Currency: currencyINR,
		KeyID:    r.keyID,
	}, nil
}

func (r *Razorpay) VerifySignature(razorpayOrderID, paymentID, signature string) bool {
	return VerifySignature(r.keySecret, razorpayOrderID, paymentID, signature)
}

// VerifySignature checks the checkout signature, an HMAC-SHA256 of
// "<order id>|<payment id>" keyed with the API secret.
func VerifySignature(secret, razorpayOrderID, paymentID, signature string) bool {
	expected := Sign(secret, razorpayOrderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func Sign(secret, razorpayOrderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(razorpayOrderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
