package payment

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

type sessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeProvider opens Stripe Checkout sessions in payment mode.
type StripeProvider struct {
	sessions   sessionAPI
	successURL string
	cancelURL  string
	logger     *log.Logger
}

// NewStripe builds a provider with its own API client so the secret key is
// never written to stripe.Key.
func NewStripe(secretKey, siteURL string, logger *log.Logger) *StripeProvider {
	sc := client.New(secretKey, nil)
	return newStripeProvider(sc.CheckoutSessions, siteURL, logger)
}

func newStripeProvider(api sessionAPI, siteURL string, logger *log.Logger) *StripeProvider {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	base := strings.TrimRight(siteURL, "/")
	return &StripeProvider{
		sessions:   api,
		successURL: base + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  base + "/checkout?canceled=1",
		logger:     logger,
	}
}

func (p *StripeProvider) CreateSession(ctx context.Context, in SessionInput) (*Session, error) {
	if len(in.LineItems) == 0 {
		return nil, &ProviderError{Message: "no line items"}
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  in.LineItems,
		SuccessURL: stripe.String(p.successURL),
		CancelURL:  stripe.String(p.cancelURL),
	}
	params.Context = ctx
	if in.ClientReferenceID != "" {
		params.ClientReferenceID = stripe.String(in.ClientReferenceID)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := p.sessions.New(params)
	if err != nil {
		p.logger.Printf("stripe: create session line_items=%d error=%v", len(in.LineItems), err)
		return nil, wrapStripeError(err)
	}
	p.logger.Printf("stripe: created session id=%s line_items=%d", sess.ID, len(in.LineItems))
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

func (p *StripeProvider) GetSession(ctx context.Context, id string) (*SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := p.sessions.Get(id, params)
	if err != nil {
		p.logger.Printf("stripe: get session id=%s error=%v", id, err)
		return nil, wrapStripeError(err)
	}
	out := &SessionStatus{
		ID:            sess.ID,
		Status:        string(sess.Status),
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),

		ClientReferenceID: sess.ClientReferenceID,
	}
	if sess.CustomerDetails != nil {
		out.CustomerEmail = sess.CustomerDetails.Email
	}
	return out, nil
}

func wrapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = string(stripeErr.Type)
		}
		return &ProviderError{
			Message: msg,
			Details: map[string]interface{}{
				"type":      string(stripeErr.Type),
				"code":      string(stripeErr.Code),
				"requestId": stripeErr.RequestID,
			},
			Err: err,
		}
	}
	return &ProviderError{Message: err.Error(), Err: err}
}
