package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"grocery-storefront/internal/domain"
	"grocery-storefront/internal/payment"
	cartsvc "grocery-storefront/internal/service/cart"
	checkoutsvc "grocery-storefront/internal/service/checkout"
)

// Money goes out as JSON numbers, matching the embedded catalog data.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type productView struct {
	domain.Product
	ImageURL string `json:"imageUrl,omitempty"`
}

type cartItemView struct {
	productView
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type cartView struct {
	Items                 []cartItemView             `json:"items"`
	ItemCount             int                        `json:"itemCount"`
	Subtotal              decimal.Decimal            `json:"subtotal"`
	DeliveryMethod        checkoutsvc.DeliveryMethod `json:"deliveryMethod"`
	DeliveryFee           decimal.Decimal            `json:"deliveryFee"`
	Total                 decimal.Decimal            `json:"total"`
	FreeDeliveryThreshold decimal.Decimal            `json:"freeDeliveryThreshold"`
	AmountToFreeDelivery  decimal.Decimal            `json:"amountToFreeDelivery"`
	Checkout              checkoutsvc.AttemptStatus  `json:"checkout"`
}

type errorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func (h *handlers) toProductView(p domain.Product) productView {
	return productView{Product: p, ImageURL: h.images.Resolve(p.Image)}
}

func (h *handlers) toProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, h.toProductView(p))
	}
	return out
}

func (h *handlers) toCartView(state cartsvc.State, method checkoutsvc.DeliveryMethod, status checkoutsvc.AttemptStatus) cartView {
	opts := h.checkout.Options()
	items := make([]cartItemView, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, cartItemView{
			productView: h.toProductView(item.Product),
			Quantity:    item.Quantity,
			LineTotal:   item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	subtotal := state.Total()
	fee := decimal.Zero
	if !state.IsEmpty() {
		fee = opts.DeliveryFee(subtotal, method)
	}
	remaining := opts.FreeDeliveryThreshold.Sub(subtotal)
	if remaining.IsNegative() || method != checkoutsvc.Delivery {
		remaining = decimal.Zero
	}
	return cartView{
		Items:                 items,
		ItemCount:             state.ItemCount(),
		Subtotal:              subtotal,
		DeliveryMethod:        method,
		DeliveryFee:           fee,
		Total:                 subtotal.Add(fee),
		FreeDeliveryThreshold: opts.FreeDeliveryThreshold,
		AmountToFreeDelivery:  remaining,
		Checkout:              status,
	}
}

func writeError(c *gin.Context, status int, msg string, details interface{}) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, Details: details})
}

// writeServiceError maps domain and provider errors onto HTTP status codes.
func (h *handlers) writeServiceError(c *gin.Context, err error) {
	var providerErr *payment.ProviderError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrCheckoutInProgress), errors.Is(err, domain.ErrOutOfStock):
		writeError(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidItems),
		errors.Is(err, domain.ErrInvalidDeliveryMethod),
		errors.Is(err, domain.ErrTotalMismatch):
		writeError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &providerErr):
		writeError(c, http.StatusBadGateway, providerErr.Message, providerErr.Details)
	default:
		h.logger.Printf("http: %s %s error=%v", c.Request.Method, c.FullPath(), err)
		writeError(c, http.StatusInternalServerError, "internal error", nil)
	}
}
