package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"grocery-storefront/internal/domain"
	cartsvc "grocery-storefront/internal/service/cart"
	checkoutsvc "grocery-storefront/internal/service/checkout"
)

const (
	cartCookieName = "cart_session"
	cartSessionKey = "cartSession"
)

// cartSession resolves the anonymous cart session from its cookie, issuing a
// new one when the cookie is missing or expired.
func (h *handlers) cartSession(c *gin.Context) {
	current, _ := c.Cookie(cartCookieName)
	id, issued, err := h.sessions.Resolve(c.Request.Context(), current)
	if err != nil {
		h.logger.Printf("http: issue cart session error=%v", err)
		writeError(c, http.StatusInternalServerError, "could not start cart session", nil)
		return
	}
	if issued || id != current {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cartCookieName, id, h.sessions.IdleTTLSeconds(), "/", "", h.settings.SecureCookies, true)
	}
	c.Set(cartSessionKey, id)
	c.Next()
}

func cartKey(c *gin.Context) string {
	return c.GetString(cartSessionKey)
}

func (h *handlers) store(c *gin.Context) *cartsvc.Store {
	return h.carts.Get(cartKey(c))
}

func (h *handlers) respondCart(c *gin.Context, status int, state cartsvc.State) {
	method, err := checkoutsvc.ParseDeliveryMethod(c.Query("deliveryMethod"))
	if err != nil {
		method = checkoutsvc.Delivery
	}
	c.JSON(status, h.toCartView(state, method, h.checkout.Status(cartKey(c))))
}

func (h *handlers) getCart(c *gin.Context) {
	h.respondCart(c, http.StatusOK, h.store(c).Snapshot())
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "productId is required", nil)
		return
	}
	p, err := h.catalog.Get(req.ProductID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !p.InStock {
		h.writeServiceError(c, domain.ErrOutOfStock)
		return
	}
	state := h.store(c).Add(*p)
	h.logger.Printf("cart: add session=%s product=%s items=%d", cartKey(c), p.ID, state.ItemCount())
	h.respondCart(c, http.StatusOK, state)
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

// updateCartItem sets an absolute quantity; zero or less removes the line.
func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		writeError(c, http.StatusBadRequest, "quantity is required", nil)
		return
	}
	state := h.store(c).SetQuantity(c.Param("productId"), *req.Quantity)
	h.respondCart(c, http.StatusOK, state)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	state := h.store(c).Remove(c.Param("productId"))
	h.respondCart(c, http.StatusOK, state)
}

func (h *handlers) clearCart(c *gin.Context) {
	state := h.store(c).Clear()
	h.respondCart(c, http.StatusOK, state)
}
