package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v80"
)

// SessionInput is everything needed to open a hosted checkout session.
type SessionInput struct {
	LineItems         []*stripe.CheckoutSessionLineItemParams
	Metadata          map[string]string
	ClientReferenceID string
}

// Session is the redirect target returned by the provider.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

type SessionStatus struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	AmountTotal   int64  `json:"amountTotal"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	// ClientReferenceID is the cart session the session was opened for.
	ClientReferenceID string `json:"-"`
}

// Paid reports whether the provider considers the session settled.
func (s SessionStatus) Paid() bool {
	return s.PaymentStatus == string(stripe.CheckoutSessionPaymentStatusPaid) ||
		s.PaymentStatus == string(stripe.CheckoutSessionPaymentStatusNoPaymentRequired)
}

type Provider interface {
	CreateSession(ctx context.Context, in SessionInput) (*Session, error)
	GetSession(ctx context.Context, id string) (*SessionStatus, error)
}

// ProviderError carries a provider-reported failure.
type ProviderError struct {
	Message string
	Details interface{}
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
