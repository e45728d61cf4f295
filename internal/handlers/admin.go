package handlers

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/config"
	"laynie-fae-storefront/internal/middleware"
	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/repositories"
	"laynie-fae-storefront/internal/services"
	"laynie-fae-storefront/internal/utils"
)

// AdminHandler is the back office: catalog management, order tracking,
// consultation inbox and gift card oversight.
type AdminHandler struct {
	cfg           config.AdminConfig
	products      *services.ProductService
	categories    *repositories.CategoryRepository
	orders        *services.OrderService
	giftCards     *services.GiftCardService
	consultations *repositories.ConsultationRepository
	images        *services.ImageService
	logger        *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	cfg config.AdminConfig,
	products *services.ProductService,
	categories *repositories.CategoryRepository,
	orders *services.OrderService,
	giftCards *services.GiftCardService,
	consultations *repositories.ConsultationRepository,
	images *services.ImageService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		cfg:           cfg,
		products:      products,
		categories:    categories,
		orders:        orders,
		giftCards:     giftCards,
		consultations: consultations,
		images:        images,
		logger:        logger,
	}
}

// PublicRoutes mounts the admin login endpoint.
func (h *AdminHandler) PublicRoutes(r chi.Router) {
	r.Post("/admin/login", h.Login)
}

// AuthedRoutes mounts endpoints behind admin auth.
func (h *AdminHandler) AuthedRoutes(r chi.Router) {
	r.Post("/admin/products", h.CreateProduct)
	r.Put("/admin/products/{productID}", h.UpdateProduct)
	r.Delete("/admin/products/{productID}", h.DeleteProduct)
	r.Post("/admin/products/images", h.UploadProductImage)

	r.Post("/admin/categories", h.CreateCategory)
	r.Delete("/admin/categories/{categoryID}", h.DeleteCategory)

	r.Get("/admin/orders", h.ListOrders)
	r.Patch("/admin/orders/{orderID}", h.UpdateOrder)

	r.Get("/admin/consultations", h.ListConsultations)
	r.Patch("/admin/consultations/{consultationID}", h.UpdateConsultation)

	r.Get("/admin/gift-cards", h.ListGiftCards)
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies the configured admin credentials and issues a token.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.cfg.Email == "" || h.cfg.PasswordHash == "" {
		respondError(w, http.StatusServiceUnavailable, "admin access is not configured")
		return
	}

	emailMatch := subtle.ConstantTimeCompare(
		[]byte(models.SanitizeEmail(req.Email)), []byte(models.SanitizeEmail(h.cfg.Email))) == 1
	passwordMatch, err := utils.VerifyPassword(req.Password, h.cfg.PasswordHash)
	if err != nil || !emailMatch || !passwordMatch {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	claims := middleware.AdminClaims{
		Email: h.cfg.Email,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "laynie-fae",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.Error("failed to sign admin token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateProduct adds a catalog product.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := decodeJSON(r, &product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.products.CreateProduct(r.Context(), &product)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateProduct replaces a product's fields.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := decodeJSON(r, &product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product.ID = chi.URLParam(r, "productID")

	updated, err := h.products.UpdateProduct(r.Context(), &product)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteProduct deactivates a product.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("product delete failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UploadProductImage processes and stores a product photo, returning the
// URLs of the original and its resized variants.
func (h *AdminHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(12 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "invalid upload")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	result, err := h.images.UploadProductImage(r.Context(), header.Filename, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("product image upload failed", zap.Error(err))
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

type categoryCreateRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateCategory adds a navigation category.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Slug == "" {
		respondFieldErrors(w, map[string]string{"name": "name and slug are required"})
		return
	}

	category, err := h.categories.Create(req.Name, req.Slug)
	if err != nil {
		h.logger.Error("category create failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// DeleteCategory removes a navigation category.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(chi.URLParam(r, "categoryID")); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("category delete failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListOrders returns orders matching the query filters.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := repositories.OrderSearchFilters{
		Email:  q.Get("email"),
		Status: models.OrderStatus(q.Get("status")),
	}
	if v := q.Get("limit"); v != "" {
		filters.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		filters.Offset, _ = strconv.Atoi(v)
	}

	orders, err := h.orders.ListOrders(filters)
	if err != nil {
		h.logger.Error("order list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// UpdateOrder changes an order's status.
func (h *AdminHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.UpdateOrderStatus(chi.URLParam(r, "orderID"), &req)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// ListConsultations returns the consultation inbox.
func (h *AdminHandler) ListConsultations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	consultations, err := h.consultations.List(models.ConsultationStatus(q.Get("status")), limit, offset)
	if err != nil {
		h.logger.Error("consultation list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list consultations")
		return
	}
	respondJSON(w, http.StatusOK, consultations)
}

type consultationUpdateRequest struct {
	Status    models.ConsultationStatus `json:"status"`
	AdminNote string                    `json:"adminNote"`
}

// UpdateConsultation moves an inquiry through the workflow.
func (h *AdminHandler) UpdateConsultation(w http.ResponseWriter, r *http.Request) {
	var req consultationUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	consultation, err := h.consultations.UpdateStatus(chi.URLParam(r, "consultationID"), req.Status, req.AdminNote)
	if err != nil {
		if errors.Is(err, models.ErrConsultationNotFound) {
			respondError(w, http.StatusNotFound, "consultation not found")
			return
		}
		h.logger.Error("consultation update failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to update consultation")
		return
	}
	respondJSON(w, http.StatusOK, consultation)
}

// ListGiftCards returns issued gift cards.
func (h *AdminHandler) ListGiftCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	cards, err := h.giftCards.List(limit, offset)
	if err != nil {
		h.logger.Error("gift card list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list gift cards")
		return
	}
	respondJSON(w, http.StatusOK, cards)
}
