package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/cart"
	"laynie-fae-storefront/internal/models"
)

// ProductCatalog is the slice of the catalog the cart needs: price and
// option lookup for the lines being added.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// CartHandler exposes the session cart over HTTP.
type CartHandler struct {
	sessions *cart.SessionStore
	catalog  ProductCatalog
	logger   *zap.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(sessions *cart.SessionStore, catalog ProductCatalog, logger *zap.Logger) *CartHandler {
	return &CartHandler{sessions: sessions, catalog: catalog, logger: logger}
}

// Routes mounts the cart endpoints.
func (h *CartHandler) Routes(r chi.Router) {
	r.Get("/cart", h.Get)
	r.Post("/cart/items", h.AddItem)
	r.Patch("/cart/items/{lineID}", h.UpdateItem)
	r.Delete("/cart/items/{lineID}", h.RemoveItem)
	r.Delete("/cart", h.Clear)
}

type addItemRequest struct {
	ProductID      string                     `json:"productId"`
	VariationID    string                     `json:"variationId,omitempty"`
	Quantity       int                        `json:"quantity"`
	Customizations []models.CartCustomization `json:"customizations,omitempty"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// Get returns the current cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessions.Load(r))
}

// AddItem resolves the product server-side, prices the line and adds it
// to the cart. Client-supplied prices are never trusted.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		respondFieldErrors(w, map[string]string{"productId": "product id is required"})
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to load product for cart", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}
	if !product.IsActive || !product.InStock() {
		respondError(w, http.StatusConflict, "product is not available")
		return
	}

	add := cart.AddRequest{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  req.Quantity,
	}
	if len(product.Images) > 0 {
		add.Image = product.Images[0].URL
	}

	if req.VariationID != "" {
		variation := findVariation(product, req.VariationID)
		if variation == nil {
			respondFieldErrors(w, map[string]string{"variationId": "unknown variation"})
			return
		}
		add.VariationID = variation.ID
		add.VariationName = variation.Name
		add.UnitPrice = variation.Price
	}

	customizations, err := resolveCustomizations(product, req.Customizations)
	if err != nil {
		respondFieldErrors(w, map[string]string{"customizations": err.Error()})
		return
	}
	add.Customizations = customizations

	store := cart.NewStoreFromCart(h.sessions.Load(r))
	updated := store.Add(add)

	if err := h.sessions.Save(w, r, updated); err != nil {
		h.logger.Error("failed to save cart", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// UpdateItem changes a line's quantity; zero or less removes it.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store := cart.NewStoreFromCart(h.sessions.Load(r))
	updated := store.UpdateQuantity(chi.URLParam(r, "lineID"), req.Quantity)

	if err := h.sessions.Save(w, r, updated); err != nil {
		h.logger.Error("failed to save cart", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// RemoveItem deletes a line from the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store := cart.NewStoreFromCart(h.sessions.Load(r))
	updated := store.Remove(chi.URLParam(r, "lineID"))

	if err := h.sessions.Save(w, r, updated); err != nil {
		h.logger.Error("failed to save cart", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Error("failed to clear cart", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	respondJSON(w, http.StatusOK, models.Cart{Items: []models.CartItem{}})
}

func findVariation(product *models.Product, variationID string) *models.ProductVariation {
	for i := range product.Variations {
		if product.Variations[i].ID == variationID {
			return &product.Variations[i]
		}
	}
	return nil
}

// resolveCustomizations validates the chosen options against the product
// and prices each from the catalog, ignoring any client-sent surcharge.
func resolveCustomizations(product *models.Product, chosen []models.CartCustomization) ([]models.CartCustomization, error) {
	if len(chosen) == 0 {
		return nil, nil
	}
	if !product.IsCustomizable {
		return nil, errors.New("product is not customizable")
	}

	options := make(map[string]*models.CustomizationOption, len(product.CustomizationOptions))
	for i := range product.CustomizationOptions {
		options[product.CustomizationOptions[i].ID] = &product.CustomizationOptions[i]
	}

	resolved := make([]models.CartCustomization, 0, len(chosen))
	for _, c := range chosen {
		option, ok := options[c.OptionID]
		if !ok {
			return nil, errors.New("unknown customization option: " + c.OptionID)
		}
		resolved = append(resolved, models.CartCustomization{
			OptionID:        option.ID,
			OptionName:      option.Name,
			Value:           c.Value,
			AdditionalPrice: option.AdditionalPrice,
		})
	}
	return resolved, nil
}
