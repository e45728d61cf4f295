package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laynie-fae-storefront/internal/models"
)

func roseBouquet() AddRequest {
	return AddRequest{
		ProductID: "prod-rose-bouquet",
		Name:      "Sacred Rose Bouquet",
		UnitPrice: 4500,
		Quantity:  1,
	}
}

func customizedCrown(customizations ...models.CartCustomization) AddRequest {
	return AddRequest{
		ProductID:      "prod-flower-crown",
		Name:           "Midsummer Flower Crown",
		UnitPrice:      6800,
		Quantity:       1,
		VariationID:    "var-adult",
		VariationName:  "Adult",
		Customizations: customizations,
	}
}

func TestAddAssignsLineIDAndComputesTotals(t *testing.T) {
	s := NewStore()
	cart := s.Add(roseBouquet())

	require.Len(t, cart.Items, 1)
	assert.NotEmpty(t, cart.Items[0].ID)
	assert.Equal(t, 4500, cart.Subtotal)
	assert.Equal(t, 4500, cart.Total)
	assert.Equal(t, 1, cart.ItemCount)
}

func TestAddMergesIdenticalConfigurations(t *testing.T) {
	s := NewStore()
	s.Add(roseBouquet())

	req := roseBouquet()
	req.Quantity = 2
	cart := s.Add(req)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 13500, cart.Subtotal)
	assert.Equal(t, 3, cart.ItemCount)
}

func TestAddCustomizationOrderDoesNotSplitLines(t *testing.T) {
	ribbon := models.CartCustomization{OptionID: "ribbon", OptionName: "Ribbon", Value: "gold", AdditionalPrice: 300}
	herbs := models.CartCustomization{OptionID: "herbs", OptionName: "Herbs", Value: "rosemary"}

	s := NewStore()
	s.Add(customizedCrown(ribbon, herbs))
	cart := s.Add(customizedCrown(herbs, ribbon))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddDifferentCustomizationValueCreatesNewLine(t *testing.T) {
	gold := models.CartCustomization{OptionID: "ribbon", Value: "gold", AdditionalPrice: 300}
	silver := models.CartCustomization{OptionID: "ribbon", Value: "silver", AdditionalPrice: 300}

	s := NewStore()
	s.Add(customizedCrown(gold))
	cart := s.Add(customizedCrown(silver))

	require.Len(t, cart.Items, 2)
	assert.NotEqual(t, cart.Items[0].ID, cart.Items[1].ID)
}

func TestAddOptionNameIgnoredForIdentity(t *testing.T) {
	a := models.CartCustomization{OptionID: "ribbon", OptionName: "Ribbon", Value: "gold", AdditionalPrice: 300}
	b := models.CartCustomization{OptionID: "ribbon", OptionName: "Ribbon Colour", Value: "gold", AdditionalPrice: 300}

	s := NewStore()
	s.Add(customizedCrown(a))
	cart := s.Add(customizedCrown(b))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddDifferentSurchargeCreatesNewLine(t *testing.T) {
	old := models.CartCustomization{OptionID: "ribbon", Value: "gold", AdditionalPrice: 300}
	repriced := models.CartCustomization{OptionID: "ribbon", Value: "gold", AdditionalPrice: 500}

	s := NewStore()
	s.Add(customizedCrown(old))
	cart := s.Add(customizedCrown(repriced))

	require.Len(t, cart.Items, 2)
}

func TestAddDifferentVariationCreatesNewLine(t *testing.T) {
	s := NewStore()
	s.Add(customizedCrown())

	req := customizedCrown()
	req.VariationID = "var-child"
	req.VariationName = "Child"
	cart := s.Add(req)

	require.Len(t, cart.Items, 2)
}

func TestAddZeroQuantityTreatedAsOne(t *testing.T) {
	s := NewStore()
	req := roseBouquet()
	req.Quantity = 0
	cart := s.Add(req)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	s := NewStore()
	cart := s.Add(roseBouquet())
	lineID := cart.Items[0].ID

	cart = s.UpdateQuantity(lineID, 5)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 22500, cart.Subtotal)

	cart = s.UpdateQuantity("no-such-line", 9)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	s := NewStore()
	cart := s.Add(roseBouquet())

	cart = s.UpdateQuantity(cart.Items[0].ID, 0)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.Subtotal)
	assert.Equal(t, 0, cart.ItemCount)
}

func TestRemove(t *testing.T) {
	s := NewStore()
	s.Add(roseBouquet())
	cart := s.Add(customizedCrown())
	require.Len(t, cart.Items, 2)

	cart = s.Remove(cart.Items[0].ID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "prod-flower-crown", cart.Items[0].ProductID)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Add(roseBouquet())
	s.Add(customizedCrown())

	cart := s.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.Total)
}

func TestSnapshotsAreImmutable(t *testing.T) {
	s := NewStore()
	first := s.Add(roseBouquet())

	// Mutating a returned snapshot must not affect the store.
	first.Items[0].Quantity = 99
	first.Items[0].UnitPrice = 1

	cart := s.Cart()
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, 4500, cart.Items[0].UnitPrice)
	assert.Equal(t, 4500, cart.Subtotal)
}

func TestTotalsIncludeCustomizationSurcharges(t *testing.T) {
	ribbon := models.CartCustomization{OptionID: "ribbon", Value: "gold", AdditionalPrice: 300}

	s := NewStore()
	req := customizedCrown(ribbon)
	req.Quantity = 2
	cart := s.Add(req)

	assert.Equal(t, (6800+300)*2, cart.Subtotal)
	assert.Equal(t, cart.Subtotal, cart.Total)
	assert.Equal(t, 2, cart.ItemCount)
}

func TestNewStoreFromCartRecomputesTotals(t *testing.T) {
	saved := models.Cart{
		Items: []models.CartItem{
			{ID: "line-1", ProductID: "prod-rose-bouquet", Name: "Sacred Rose Bouquet", UnitPrice: 4500, Quantity: 2},
		},
		// Stale totals that must be ignored.
		Subtotal:  1,
		Total:     1,
		ItemCount: 1,
	}

	s := NewStoreFromCart(saved)
	cart := s.Cart()

	assert.Equal(t, 9000, cart.Subtotal)
	assert.Equal(t, 9000, cart.Total)
	assert.Equal(t, 2, cart.ItemCount)
}
