package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/cart"
	"laynie-fae-storefront/internal/models"
)

type stubCatalog struct {
	products map[string]*models.Product
}

func (c *stubCatalog) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if p, ok := c.products[id]; ok {
		return p, nil
	}
	return nil, models.ErrProductNotFound
}

func fixtureCatalog() *stubCatalog {
	return &stubCatalog{products: map[string]*models.Product{
		"prod-rose": {
			ID:       "prod-rose",
			Name:     "Sacred Rose Bouquet",
			Price:    4500,
			Category: models.CategorySacredFlowers,
			IsActive: true,
			Images:   []models.ProductImage{{ID: "img", URL: "/img/rose.jpg", IsPrimary: true}},
		},
		"prod-crown": {
			ID:             "prod-crown",
			Name:           "Midsummer Flower Crown",
			Price:          6800,
			Category:       models.CategoryCeremonyArrangement,
			IsActive:       true,
			IsCustomizable: true,
			Variations: []models.ProductVariation{
				{ID: "var-adult", Name: "Adult", Price: 6800},
				{ID: "var-child", Name: "Child", Price: 5200},
			},
			CustomizationOptions: []models.CustomizationOption{
				{ID: "ribbon", Name: "Ribbon", Type: "select", Options: []string{"gold", "silver"}, AdditionalPrice: 300},
			},
		},
	}}
}

func newCartTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cookies := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!!"))
	sessionStore := cart.NewSessionStore(cookies, "laynie_session", zap.NewNop())
	handler := NewCartHandler(sessionStore, fixtureCatalog(), zap.NewNop())

	r := chi.NewRouter()
	r.Route("/api", handler.Routes)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

// cartClient carries cookies between requests like a browser would.
type cartClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newCartClient(t *testing.T, server *httptest.Server) *cartClient {
	jar := newCookieJar(t)
	return &cartClient{t: t, server: server, client: &http.Client{Jar: jar}}
}

func (c *cartClient) do(method, path string, body interface{}) (*http.Response, models.Cart) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.server.URL+path, &buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var result models.Cart
	if resp.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&result))
	}
	return resp, result
}

func TestCartAddAndMergeOverHTTP(t *testing.T) {
	server := newCartTestServer(t)
	client := newCartClient(t, server)

	resp, result := client.do("POST", "/api/cart/items", map[string]interface{}{
		"productId": "prod-rose",
		"quantity":  1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 4500, result.Items[0].UnitPrice, "price must come from the catalog")

	// The same configuration merges instead of adding a second line.
	resp, result = client.do("POST", "/api/cart/items", map[string]interface{}{
		"productId": "prod-rose",
		"quantity":  2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 3, result.Items[0].Quantity)
	assert.Equal(t, 13500, result.Total)
}

func TestCartVariationAndCustomizationPricing(t *testing.T) {
	server := newCartTestServer(t)
	client := newCartClient(t, server)

	resp, result := client.do("POST", "/api/cart/items", map[string]interface{}{
		"productId":   "prod-crown",
		"variationId": "var-child",
		"quantity":    1,
		"customizations": []map[string]interface{}{
			// The client's price is a lie; the catalog's 300 wins.
			{"optionId": "ribbon", "value": "gold", "additionalPrice": 1},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 5200, result.Items[0].UnitPrice)
	require.Len(t, result.Items[0].Customizations, 1)
	assert.Equal(t, 300, result.Items[0].Customizations[0].AdditionalPrice)
	assert.Equal(t, 5500, result.Total)
}

func TestCartUnknownProduct(t *testing.T) {
	server := newCartTestServer(t)
	client := newCartClient(t, server)

	resp, _ := client.do("POST", "/api/cart/items", map[string]interface{}{
		"productId": "prod-nope",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartUnknownCustomizationRejected(t *testing.T) {
	server := newCartTestServer(t)
	client := newCartClient(t, server)

	resp, _ := client.do("POST", "/api/cart/items", map[string]interface{}{
		"productId": "prod-crown",
		"customizations": []map[string]interface{}{
			{"optionId": "glitter", "value": "lots"},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCartUpdateAndRemoveOverHTTP(t *testing.T) {
	server := newCartTestServer(t)
	client := newCartClient(t, server)

	_, result := client.do("POST", "/api/cart/items", map[string]interface{}{"productId": "prod-rose"})
	lineID := result.Items[0].ID

	resp, result := client.do("PATCH", fmt.Sprintf("/api/cart/items/%s", lineID), map[string]int{"quantity": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, result.Items[0].Quantity)

	// Quantity zero removes the line.
	resp, result = client.do("PATCH", fmt.Sprintf("/api/cart/items/%s", lineID), map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, result.IsEmpty())
}

func TestCartPersistsAcrossRequests(t *testing.T) {
	server := newCartTestServer(t)
	client := newCartClient(t, server)

	client.do("POST", "/api/cart/items", map[string]interface{}{"productId": "prod-rose"})

	resp, result := client.do("GET", "/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Sacred Rose Bouquet", result.Items[0].Name)
}

func TestCartClearOverHTTP(t *testing.T) {
	server := newCartTestServer(t)
	client := newCartClient(t, server)

	client.do("POST", "/api/cart/items", map[string]interface{}{"productId": "prod-rose"})
	resp, result := client.do("DELETE", "/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, result.IsEmpty())

	_, result = client.do("GET", "/api/cart", nil)
	assert.True(t, result.IsEmpty())
}
