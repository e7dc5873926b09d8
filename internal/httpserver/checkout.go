package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	checkoutsvc "grocery-storefront/internal/service/checkout"
)

type checkoutRequest struct {
	DeliveryMethod string `json:"deliveryMethod"`
}

// checkoutCart opens a provider session for the server-held cart.
func (h *handlers) checkoutCart(c *gin.Context) {
	var req checkoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid request body", nil)
			return
		}
	}
	method, err := checkoutsvc.ParseDeliveryMethod(req.DeliveryMethod)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	sess, err := h.checkout.Checkout(c.Request.Context(), cartKey(c), h.store(c), method)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// checkoutItems opens a provider session for a cart posted by the client.
func (h *handlers) checkoutItems(c *gin.Context) {
	var in checkoutsvc.ItemsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	sess, err := h.checkout.CheckoutItems(c.Request.Context(), cartKey(c), in)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *handlers) checkoutStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.checkout.Status(cartKey(c)))
}

// checkoutSuccess is hit after the provider redirects back. A paid session
// clears the caller's cart once; a session with no cart behind it has
// nothing to clear.
func (h *handlers) checkoutSuccess(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Query("session_id"))
	if sessionID == "" {
		writeError(c, http.StatusBadRequest, "session_id is required", nil)
		return
	}
	store, _ := h.carts.Lookup(cartKey(c))
	conf, err := h.checkout.Complete(c.Request.Context(), cartKey(c), sessionID, store)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}
