package cart

import (
	"github.com/shopspring/decimal"
	"grocery-storefront/internal/domain"
)

// State is an ordered list of line items, unique by product id.
// Aggregates are always derived from Items.
type State struct {
	Items []domain.CartItem `json:"items"`
}

// Total is Σ(price × quantity).
func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemCount is Σ(quantity).
func (s State) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s State) indexOf(productID string) int {
	for i, item := range s.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	if s.Items == nil {
		return State{}
	}
	items := make([]domain.CartItem, len(s.Items))
	copy(items, s.Items)
	return State{Items: items}
}

// Action is one of Add, Remove, SetQuantity or Clear.
type Action interface {
	apply(State) State
}

type Add struct {
	Product domain.Product
}

type Remove struct {
	ProductID string
}

type SetQuantity struct {
	ProductID string
	Quantity  int
}

type Clear struct{}

// Reduce returns the state after action. The input state is never modified.
func Reduce(state State, action Action) State {
	if action == nil {
		return state.clone()
	}
	return action.apply(state.clone())
}

// An existing line keeps its first-seen product snapshot.
func (a Add) apply(s State) State {
	if i := s.indexOf(a.Product.ID); i >= 0 {
		s.Items[i].Quantity++
		return s
	}
	s.Items = append(s.Items, domain.CartItem{Product: a.Product, Quantity: 1})
	return s
}

func (a Remove) apply(s State) State {
	i := s.indexOf(a.ProductID)
	if i < 0 {
		return s
	}
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	return s
}

func (a SetQuantity) apply(s State) State {
	if a.Quantity <= 0 {
		return Remove{ProductID: a.ProductID}.apply(s)
	}
	if i := s.indexOf(a.ProductID); i >= 0 {
		s.Items[i].Quantity = a.Quantity
	}
	return s
}

func (Clear) apply(State) State {
	return State{}
}
