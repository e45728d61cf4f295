package cart

import (
	"github.com/google/uuid"

	"laynie-fae-storefront/internal/models"
)

// AddRequest describes a product configuration being added to the cart.
// The line id is assigned by the store; callers never supply one.
type AddRequest struct {
	ProductID      string
	Name           string
	UnitPrice      int // in cents
	Quantity       int
	Image          string
	VariationID    string
	VariationName  string
	Customizations []models.CartCustomization
}

// Store holds the working state of a single shopper's cart and applies
// mutations to it. Every accessor and mutator returns a fresh snapshot,
// so a caller can never corrupt the totals by editing a returned cart.
type Store struct {
	items []models.CartItem
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreFromCart seeds a store from a previously saved cart, e.g. one
// loaded out of the session. Totals are recomputed from the items rather
// than trusted from the snapshot.
func NewStoreFromCart(c models.Cart) *Store {
	s := &Store{}
	if len(c.Items) > 0 {
		s.items = make([]models.CartItem, len(c.Items))
		copy(s.items, c.Items)
	}
	return s
}

// Cart returns an immutable snapshot of the current cart with derived
// totals computed from the items.
func (s *Store) Cart() models.Cart {
	return snapshot(s.items)
}

// Add merges the request into an existing line with the same identity,
// or appends a new line with a generated id. A quantity below one is
// treated as one.
func (s *Store) Add(req AddRequest) models.Cart {
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}
	incoming := models.CartItem{
		ProductID:      req.ProductID,
		Name:           req.Name,
		UnitPrice:      req.UnitPrice,
		Quantity:       qty,
		Image:          req.Image,
		VariationID:    req.VariationID,
		VariationName:  req.VariationName,
		Customizations: canonicalCustomizations(req.Customizations),
	}
	for i := range s.items {
		if sameLine(s.items[i], incoming) {
			s.items[i].Quantity += qty
			return snapshot(s.items)
		}
	}
	incoming.ID = uuid.New().String()
	s.items = append(s.items, incoming)
	return snapshot(s.items)
}

// UpdateQuantity sets the quantity of the line with the given id. A
// quantity of zero or less removes the line. Unknown ids are a no-op.
func (s *Store) UpdateQuantity(lineID string, quantity int) models.Cart {
	if quantity <= 0 {
		return s.Remove(lineID)
	}
	for i := range s.items {
		if s.items[i].ID == lineID {
			s.items[i].Quantity = quantity
			break
		}
	}
	return snapshot(s.items)
}

// Remove deletes the line with the given id. Unknown ids are a no-op.
func (s *Store) Remove(lineID string) models.Cart {
	for i := range s.items {
		if s.items[i].ID == lineID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return snapshot(s.items)
}

// Clear empties the cart.
func (s *Store) Clear() models.Cart {
	s.items = nil
	return snapshot(s.items)
}

// snapshot copies the items and recomputes every derived total. Shipping
// is quoted separately, so total equals subtotal here.
func snapshot(items []models.CartItem) models.Cart {
	c := models.Cart{Items: make([]models.CartItem, len(items))}
	copy(c.Items, items)
	for i := range c.Items {
		if len(c.Items[i].Customizations) > 0 {
			cs := make([]models.CartCustomization, len(c.Items[i].Customizations))
			copy(cs, c.Items[i].Customizations)
			c.Items[i].Customizations = cs
		}
		c.Subtotal += c.Items[i].LineTotal()
		c.ItemCount += c.Items[i].Quantity
	}
	c.Total = c.Subtotal
	return c
}
