package cart

import (
	"sort"

	"laynie-fae-storefront/internal/models"
)

// canonicalCustomizations returns a copy of the customizations sorted by
// option id, so two lines configured in a different order still compare
// equal.
func canonicalCustomizations(customizations []models.CartCustomization) []models.CartCustomization {
	if len(customizations) == 0 {
		return nil
	}
	out := make([]models.CartCustomization, len(customizations))
	copy(out, customizations)
	sort.Slice(out, func(i, j int) bool {
		return out[i].OptionID < out[j].OptionID
	})
	return out
}

// sameLine reports whether two cart items describe the same purchasable
// configuration: same product, same variation and the same set of
// customizations. The display name of an option does not participate in
// identity, only its id, chosen value and surcharge do.
func sameLine(a, b models.CartItem) bool {
	if a.ProductID != b.ProductID || a.VariationID != b.VariationID {
		return false
	}
	ca := canonicalCustomizations(a.Customizations)
	cb := canonicalCustomizations(b.Customizations)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i].OptionID != cb[i].OptionID ||
			ca[i].Value != cb[i].Value ||
			ca[i].AdditionalPrice != cb[i].AdditionalPrice {
			return false
		}
	}
	return true
}
