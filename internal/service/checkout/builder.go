package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"grocery-storefront/internal/domain"
	"grocery-storefront/internal/service/cart"
)

// DeliveryFeeName labels the synthetic delivery line item.
const DeliveryFeeName = "Delivery Fee"

var hundred = decimal.NewFromInt(100)

// LineItem is one priced entry of a checkout request. UnitAmount is in minor
// currency units (pence).
type LineItem struct {
	ProductID  string   `json:"productId,omitempty"`
	Name       string   `json:"name"`
	UnitAmount int64    `json:"unitAmount"`
	Quantity   int64    `json:"quantity"`
	ImageURLs  []string `json:"imageUrls"`
}

// Request is the normalized checkout payload built from a cart.
type Request struct {
	LineItems      []LineItem      `json:"lineItems"`
	DeliveryMethod DeliveryMethod  `json:"deliveryMethod"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
}

// Builder converts cart state into checkout requests. It performs no I/O.
type Builder struct {
	opts   Options
	images *ImageResolver
}

func NewBuilder(opts Options, images *ImageResolver) *Builder {
	if opts.Currency == "" {
		opts.Currency = DefaultOptions().Currency
	}
	if images == nil {
		images = NewImageResolver("", "")
	}
	return &Builder{opts: opts, images: images}
}

func (b *Builder) Options() Options {
	return b.opts
}

// Build fails with domain.ErrEmptyCart when state has no items. Image
// problems never fail a build; the item is sent without an image.
func (b *Builder) Build(state cart.State, method DeliveryMethod) (*Request, error) {
	if method != Delivery && method != Pickup {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDeliveryMethod, method)
	}
	if state.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	items := make([]LineItem, 0, len(state.Items)+1)
	for _, item := range state.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for %q must be positive", domain.ErrInvalidItems, item.ID)
		}
		items = append(items, LineItem{
			ProductID:  item.ID,
			Name:       item.Name,
			UnitAmount: ToMinorUnits(item.Price),
			Quantity:   int64(item.Quantity),
			ImageURLs:  b.images.URLs(item.Image),
		})
	}

	subtotal := state.Total()
	fee := b.opts.DeliveryFee(subtotal, method)
	if fee.IsPositive() {
		items = append(items, LineItem{
			Name:       DeliveryFeeName,
			UnitAmount: ToMinorUnits(fee),
			Quantity:   1,
			ImageURLs:  []string{},
		})
	}

	return &Request{
		LineItems:      items,
		DeliveryMethod: method,
		DeliveryFee:    fee,
		Subtotal:       subtotal,
		Total:          subtotal.Add(fee),
		Currency:       b.opts.Currency,
	}, nil
}

// ToMinorUnits converts a major-unit amount to pence, rounding half away
// from zero (half-up for prices, which are never negative).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// TotalMinorUnits sums unit amount × quantity over every line item.
func (r *Request) TotalMinorUnits() int64 {
	var total int64
	for _, item := range r.LineItems {
		total += item.UnitAmount * item.Quantity
	}
	return total
}

// Metadata is the human-readable summary attached to the provider session.
func (r *Request) Metadata() map[string]string {
	return map[string]string{
		"deliveryMethod": string(r.DeliveryMethod),
		"deliveryFee":    r.DeliveryFee.StringFixed(2),
		"subtotal":       r.Subtotal.StringFixed(2),
		"total":          r.Total.StringFixed(2),
	}
}

// ToProviderLineItems maps a request onto Stripe Checkout line items.
func ToProviderLineItems(r *Request) []*stripe.CheckoutSessionLineItemParams {
	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(r.LineItems))
	for _, item := range r.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if len(item.ImageURLs) > 0 {
			product.Images = stripe.StringSlice(item.ImageURLs)
		}
		out = append(out, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(r.Currency),
				UnitAmount:  stripe.Int64(item.UnitAmount),
				ProductData: product,
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	return out
}
