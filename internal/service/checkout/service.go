package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"grocery-storefront/internal/domain"
	"grocery-storefront/internal/payment"
	"grocery-storefront/internal/service/cart"
)

type sessionProvider interface {
	CreateSession(ctx context.Context, in payment.SessionInput) (*payment.Session, error)
	GetSession(ctx context.Context, id string) (*payment.SessionStatus, error)
}

type productLookup interface {
	Get(id string) (*domain.Product, error)
}

// Service runs checkout attempts against the payment provider.
type Service struct {
	builder  *Builder
	provider sessionProvider
	products productLookup
	attempts *Attempts
	cleared  *ClearOnce
	logger   *log.Logger
}

func New(builder *Builder, provider sessionProvider, products productLookup, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		builder:  builder,
		provider: provider,
		products: products,
		attempts: NewAttempts(),
		cleared:  NewClearOnce(),
		logger:   logger,
	}
}

// MaxItemQuantity caps a single posted line, duplicates included.
const MaxItemQuantity = 999

// ItemsInput is the checkout body sent by clients that keep the cart
// themselves. DeliveryFee and Total are optional cross-checks.
type ItemsInput struct {
	Items          []domain.CartItem `json:"items"`
	DeliveryMethod string            `json:"deliveryMethod"`
	DeliveryFee    *decimal.Decimal  `json:"deliveryFee,omitempty"`
	Total          *decimal.Decimal  `json:"total,omitempty"`
}

// UnmarshalJSON decodes posted items leniently: an image the server cannot
// read becomes no image instead of failing the checkout. Catalog prices and
// images replace the posted ones anyway.
func (in *ItemsInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Items []struct {
			domain.CartItem
			Image json.RawMessage `json:"image"`
		} `json:"items"`
		DeliveryMethod string           `json:"deliveryMethod"`
		DeliveryFee    *decimal.Decimal `json:"deliveryFee"`
		Total          *decimal.Decimal `json:"total"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := ItemsInput{
		DeliveryMethod: raw.DeliveryMethod,
		DeliveryFee:    raw.DeliveryFee,
		Total:          raw.Total,
	}
	if raw.Items != nil {
		out.Items = make([]domain.CartItem, 0, len(raw.Items))
	}
	for _, posted := range raw.Items {
		item := posted.CartItem
		if len(posted.Image) > 0 {
			if err := json.Unmarshal(posted.Image, &item.Image); err != nil {
				item.Image = domain.ImageRef{}
			}
		}
		out.Items = append(out.Items, item)
	}
	*in = out
	return nil
}

type Confirmation struct {
	SessionID string                 `json:"sessionId"`
	Cleared   bool                   `json:"cleared"`
	Status    *payment.SessionStatus `json:"status,omitempty"`
}

// Checkout builds a request from the server-held cart and opens a provider
// session. The cart is left untouched whatever the outcome.
func (s *Service) Checkout(ctx context.Context, cartKey string, store *cart.Store, method DeliveryMethod) (*payment.Session, error) {
	return s.run(ctx, cartKey, func() (*Request, error) {
		return s.builder.Build(store.Snapshot(), method)
	})
}

// CheckoutItems is Checkout for a client-held cart. Prices come from the
// catalog, never from the posted items.
func (s *Service) CheckoutItems(ctx context.Context, cartKey string, in ItemsInput) (*payment.Session, error) {
	return s.run(ctx, cartKey, func() (*Request, error) {
		method, err := ParseDeliveryMethod(in.DeliveryMethod)
		if err != nil {
			return nil, err
		}
		state, err := s.stateFromItems(in.Items)
		if err != nil {
			return nil, err
		}
		req, err := s.builder.Build(state, method)
		if err != nil {
			return nil, err
		}
		if in.DeliveryFee != nil && !in.DeliveryFee.Equal(req.DeliveryFee) {
			return nil, fmt.Errorf("%w: delivery fee %s, expected %s", domain.ErrTotalMismatch, in.DeliveryFee.StringFixed(2), req.DeliveryFee.StringFixed(2))
		}
		if in.Total != nil && !in.Total.Equal(req.Total) {
			return nil, fmt.Errorf("%w: total %s, expected %s", domain.ErrTotalMismatch, in.Total.StringFixed(2), req.Total.StringFixed(2))
		}
		return req, nil
	})
}

func (s *Service) run(ctx context.Context, cartKey string, build func() (*Request, error)) (*payment.Session, error) {
	attempt := s.attempts.For(cartKey)
	if err := attempt.Begin(); err != nil {
		return nil, err
	}

	req, err := build()
	if err != nil {
		attempt.Fail(err)
		s.logger.Printf("checkout: validation cart=%s error=%v", cartKey, err)
		return nil, err
	}
	if charged, shown := req.TotalMinorUnits(), ToMinorUnits(req.Total); charged != shown {
		s.logger.Printf("checkout: rounding cart=%s charged=%d shown=%d", cartKey, charged, shown)
	}

	sess, err := s.provider.CreateSession(ctx, payment.SessionInput{
		LineItems:         ToProviderLineItems(req),
		Metadata:          req.Metadata(),
		ClientReferenceID: cartKey,
	})
	if err != nil {
		attempt.Fail(err)
		s.logger.Printf("checkout: provider cart=%s error=%v", cartKey, err)
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	attempt.Redirect(sess.URL)
	s.logger.Printf("checkout: redirect cart=%s session=%s method=%s total=%s amount=%d line_items=%d",
		cartKey, sess.ID, req.DeliveryMethod, req.Total.StringFixed(2), req.TotalMinorUnits(), len(req.LineItems))
	return sess, nil
}

func (s *Service) stateFromItems(items []domain.CartItem) (cart.State, error) {
	if len(items) == 0 {
		return cart.State{}, domain.ErrEmptyCart
	}
	state := cart.State{}
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return cart.State{}, fmt.Errorf("%w: item without id", domain.ErrInvalidItems)
		}
		if item.Quantity < 1 {
			return cart.State{}, fmt.Errorf("%w: quantity for %q must be positive", domain.ErrInvalidItems, id)
		}
		if item.Quantity > MaxItemQuantity {
			return cart.State{}, fmt.Errorf("%w: quantity for %q exceeds %d", domain.ErrInvalidItems, id, MaxItemQuantity)
		}
		product := item.Product
		if s.products != nil {
			p, err := s.products.Get(id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return cart.State{}, fmt.Errorf("%w: unknown product %q", domain.ErrInvalidItems, id)
				}
				return cart.State{}, err
			}
			product = *p
		}
		existing := 0
		for _, line := range state.Items {
			if line.ID == id {
				existing = line.Quantity
			}
		}
		if existing+item.Quantity > MaxItemQuantity {
			return cart.State{}, fmt.Errorf("%w: quantity for %q exceeds %d", domain.ErrInvalidItems, id, MaxItemQuantity)
		}
		state = cart.Reduce(state, cart.Add{Product: product})
		state = cart.Reduce(state, cart.SetQuantity{ProductID: id, Quantity: existing + item.Quantity})
	}
	return state, nil
}

// Complete handles the provider's success redirect. The cart is cleared the
// first time a paid session belonging to cartKey is seen. An unpaid or
// unknown session, or a failed lookup, leaves the cart as it is.
func (s *Service) Complete(ctx context.Context, cartKey, sessionID string, store *cart.Store) (*Confirmation, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id", domain.ErrNotFound)
	}
	out := &Confirmation{SessionID: sessionID}
	status, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		s.logger.Printf("checkout: status lookup cart=%s session=%s error=%v", cartKey, sessionID, err)
		return out, nil
	}
	out.Status = status
	if !status.Paid() {
		s.logger.Printf("checkout: not paid cart=%s session=%s payment_status=%s", cartKey, sessionID, status.PaymentStatus)
		return out, nil
	}
	if status.ClientReferenceID != "" && status.ClientReferenceID != cartKey {
		s.logger.Printf("checkout: session=%s belongs to another cart, cart=%s", sessionID, cartKey)
		return out, nil
	}
	if store != nil {
		out.Cleared = s.cleared.Do(cartKey, sessionID, func() { store.Clear() })
	}
	if out.Cleared {
		s.logger.Printf("checkout: cleared cart=%s session=%s", cartKey, sessionID)
	}
	return out, nil
}

func (s *Service) Status(cartKey string) AttemptStatus {
	return s.attempts.For(cartKey).Status()
}

// Forget drops attempt and cleared-session state for expired cart sessions.
func (s *Service) Forget(cartKeys ...string) {
	s.attempts.Forget(cartKeys...)
	s.cleared.Forget(cartKeys...)
}

func (s *Service) Options() Options {
	return s.builder.Options()
}
