package widget

import (
	"fmt"
	"slices"
)

// CartState is a working copy of a cart. Quantity edits and removals live
// here only; the decoded Cart is never touched.
type CartState struct {
	cart  Cart
	items []CartItem
}

func NewCartState(c *Cart) *CartState {
	return &CartState{cart: *c, items: slices.Clone(c.Items)}
}

// Items returns a copy of the current line items.
func (s *CartState) Items() []CartItem { return slices.Clone(s.items) }

// Currency returns the cart currency or DefaultCurrency.
func (s *CartState) Currency() string {
	if s.cart.Currency != "" {
		return s.cart.Currency
	}
	return DefaultCurrency
}

// ItemCurrency prefers the item's own currency.
func (s *CartState) ItemCurrency(item CartItem) string {
	if item.Currency != "" {
		return item.Currency
	}
	return s.Currency()
}

// Format renders amount with two decimals behind the currency symbol.
func (s *CartState) Format(amount float64) string {
	return fmt.Sprintf("%s%.2f", s.Currency(), amount)
}

func (s *CartState) Subtotal() float64 {
	if s.cart.Subtotal != nil {
		return *s.cart.Subtotal
	}
	var sum float64
	for _, item := range s.items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

func (s *CartState) Tax() float64 {
	tax := s.cart.Tax
	switch {
	case tax == nil:
		return 0
	case tax.Amount != nil:
		return *tax.Amount
	case tax.Percentage != nil:
		return s.Subtotal() * (*tax.Percentage / 100)
	}
	return 0
}

func (s *CartState) Shipping() float64 {
	if s.cart.Shipping == nil || s.cart.Shipping.Free {
		return 0
	}
	return s.cart.Shipping.Amount
}

func (s *CartState) Discount() float64 {
	d := s.cart.Discount
	switch {
	case d == nil:
		return 0
	case d.Amount != nil:
		return *d.Amount
	case d.Percentage != nil:
		return s.Subtotal() * (*d.Percentage / 100)
	}
	return 0
}

// Total is subtotal + tax + shipping - discount unless the cart fixes it.
func (s *CartState) Total() float64 {
	if s.cart.Total != nil {
		return *s.cart.Total
	}
	return s.Subtotal() + s.Tax() + s.Shipping() - s.Discount()
}

// Snapshot captures the current computed state.
func (s *CartState) Snapshot() *CartSnapshot {
	return &CartSnapshot{
		Items:    s.Items(),
		Currency: s.Currency(),
		Subtotal: s.Subtotal(),
		Tax:      s.Tax(),
		Shipping: s.Shipping(),
		Discount: s.Discount(),
		Total:    s.Total(),
	}
}

func (s *CartState) find(id string) (int, error) {
	idx := slices.IndexFunc(s.items, func(item CartItem) bool { return item.ID == id })
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return idx, nil
}

// UpdateQuantity sets item id to n and raises update-quantity with the
// updated snapshot.
func (s *CartState) UpdateQuantity(id string, n int) (ActionEvent, error) {
	idx, err := s.find(id)
	if err != nil {
		return ActionEvent{}, err
	}
	item := s.items[idx]
	if !item.CanEdit() {
		return ActionEvent{}, fmt.Errorf("%w: %s", ErrItemLocked, id)
	}
	if n < 1 || (item.MaxQuantity > 0 && n > item.MaxQuantity) {
		return ActionEvent{}, fmt.Errorf("%w: %d", ErrQuantityRange, n)
	}

	s.items[idx].Quantity = n
	return ActionEvent{
		Type: ActionCart,
		Data: &CartActionData{Action: CartUpdateQuantity, ItemID: id, NewQuantity: n, CartData: s.Snapshot()},
	}, nil
}

// Remove raises remove-item. The snapshot is taken before the item is
// dropped so consumers can still resolve its name.
func (s *CartState) Remove(id string) (ActionEvent, error) {
	idx, err := s.find(id)
	if err != nil {
		return ActionEvent{}, err
	}
	if !s.items[idx].CanRemove() {
		return ActionEvent{}, fmt.Errorf("%w: %s", ErrItemLocked, id)
	}

	snap := s.Snapshot()
	s.items = slices.Delete(s.items, idx, idx+1)
	return ActionEvent{
		Type: ActionCart,
		Data: &CartActionData{Action: CartRemoveItem, ItemID: id, CartData: snap},
	}, nil
}

func (s *CartState) Checkout() ActionEvent {
	return ActionEvent{Type: ActionCart, Data: &CartActionData{Action: CartCheckout, CartData: s.Snapshot()}}
}

func (s *CartState) ContinueShopping() ActionEvent {
	return ActionEvent{Type: ActionCart, Data: &CartActionData{Action: CartContinueShopping}}
}
