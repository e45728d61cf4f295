package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/repositories"
	"laynie-fae-storefront/internal/services"
)

// ProductHandler exposes the public catalog.
type ProductHandler struct {
	products   *services.ProductService
	categories *repositories.CategoryRepository
	logger     *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *services.ProductService, categories *repositories.CategoryRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, categories: categories, logger: logger}
}

// Routes mounts the catalog endpoints.
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/categories", h.ListCategories)
	r.Get("/products/filters", h.FilterOptions)
	r.Get("/products/{productID}", h.Get)
}

// List returns a filtered catalog page. Filters arrive as query params.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ProductFilter{
		Category: models.ProductCategory(q.Get("category")),
		InStock:  q.Get("inStock") == "true",
	}
	if v := q.Get("priceMin"); v != "" {
		if cents, err := strconv.Atoi(v); err == nil {
			filter.PriceMin = &cents
		}
	}
	if v := q.Get("priceMax"); v != "" {
		if cents, err := strconv.Atoi(v); err == nil {
			filter.PriceMax = &cents
		}
	}
	if v := q.Get("elements"); v != "" {
		for _, e := range strings.Split(v, ",") {
			filter.Elements = append(filter.Elements, models.Element(e))
		}
	}
	if v := q.Get("intentions"); v != "" {
		filter.Intentions = strings.Split(v, ",")
	}
	if v := q.Get("tags"); v != "" {
		filter.Tags = strings.Split(v, ",")
	}
	if v := q.Get("customizable"); v != "" {
		b := v == "true"
		filter.IsCustomizable = &b
	}
	if v := q.Get("page"); v != "" {
		filter.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	result, err := h.products.SearchProducts(r.Context(), filter)
	if err != nil {
		h.logger.Error("product search failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Get returns one product.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("product load failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	if !product.IsActive {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// ListCategories returns the shop's categories for navigation.
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List()
	if err != nil {
		h.logger.Error("category list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// FilterOptions returns the distinct filter values for the catalog sidebar.
func (h *ProductHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.products.FilterOptions(r.Context())
	if err != nil {
		h.logger.Error("filter options load failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load filters")
		return
	}
	respondJSON(w, http.StatusOK, options)
}
