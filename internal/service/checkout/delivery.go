package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"grocery-storefront/internal/domain"
)

type DeliveryMethod string

const (
	Delivery DeliveryMethod = "delivery"
	Pickup   DeliveryMethod = "pickup"
)

// ParseDeliveryMethod accepts "delivery" or "pickup" in any case. Empty input
// defaults to delivery.
func ParseDeliveryMethod(raw string) (DeliveryMethod, error) {
	switch DeliveryMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Delivery:
		return Delivery, nil
	case Pickup:
		return Pickup, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidDeliveryMethod, raw)
	}
}

// Options configures delivery pricing and the settlement currency.
type Options struct {
	FreeDeliveryThreshold decimal.Decimal
	StandardDeliveryFee   decimal.Decimal
	Currency              string
}

func DefaultOptions() Options {
	return Options{
		FreeDeliveryThreshold: decimal.NewFromInt(50),
		StandardDeliveryFee:   decimal.RequireFromString("4.99"),
		Currency:              "gbp",
	}
}

// DeliveryFee is the fee owed for subtotal under method.
func (o Options) DeliveryFee(subtotal decimal.Decimal, method DeliveryMethod) decimal.Decimal {
	if method != Delivery {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(o.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return o.StandardDeliveryFee
}
