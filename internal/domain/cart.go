package domain

// CartItem is a product snapshot taken when it was first added, plus the
// quantity held. Quantity is always >= 1 while the item is in a cart.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}
