package models

// CartCustomization is a single customization attached to a cart line,
// e.g. a rose color choice or an engraved blessing.
type CartCustomization struct {
	OptionID        string `json:"optionId"`
	OptionName      string `json:"optionName"`
	Value           string `json:"value"`
	AdditionalPrice int    `json:"additionalPrice,omitempty"` // in cents
}

// CartItem represents one line in the shopping cart: a product
// configuration (variation + customizations) and a quantity.
type CartItem struct {
	ID             string              `json:"id"`
	ProductID      string              `json:"productId"`
	Name           string              `json:"name"`
	UnitPrice      int                 `json:"unitPrice"` // in cents
	Quantity       int                 `json:"quantity"`
	Image          string              `json:"image,omitempty"`
	Customizations []CartCustomization `json:"customizations,omitempty"`
	VariationID    string              `json:"variationId,omitempty"`
	VariationName  string              `json:"variationName,omitempty"`
}

// EffectiveUnitPrice is the unit price including customization surcharges.
func (i CartItem) EffectiveUnitPrice() int {
	price := i.UnitPrice
	for _, c := range i.Customizations {
		price += c.AdditionalPrice
	}
	return price
}

// LineTotal is the effective unit price times the quantity.
func (i CartItem) LineTotal() int {
	return i.EffectiveUnitPrice() * i.Quantity
}

// Cart represents a shopping cart. Subtotal, Total and ItemCount are
// derived from Items and recomputed on every mutation, never stored
// independently of them.
type Cart struct {
	Items     []CartItem `json:"items"`
	Subtotal  int        `json:"subtotal"` // in cents
	Total     int        `json:"total"`    // in cents
	ItemCount int        `json:"itemCount"`
}

// IsEmpty returns true if the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
