package cart

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/models"
)

const sessionCartKey = "cart"

// SessionStore persists carts in the shopper's cookie session as JSON.
// A missing or unreadable value yields an empty cart so a stale or
// tampered cookie never breaks browsing.
type SessionStore struct {
	sessions    sessions.Store
	sessionName string
	logger      *zap.Logger
}

// NewSessionStore creates a session-backed cart store.
func NewSessionStore(store sessions.Store, sessionName string, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions:    store,
		sessionName: sessionName,
		logger:      logger,
	}
}

// Load reads the shopper's cart out of the session. Corrupt data is
// logged and replaced with an empty cart.
func (s *SessionStore) Load(r *http.Request) models.Cart {
	session, err := s.sessions.Get(r, s.sessionName)
	if err != nil {
		s.logger.Warn("failed to read session, starting empty cart", zap.Error(err))
		return models.Cart{Items: []models.CartItem{}}
	}
	raw, ok := session.Values[sessionCartKey].(string)
	if !ok || raw == "" {
		return models.Cart{Items: []models.CartItem{}}
	}
	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.logger.Warn("corrupt cart in session, starting empty cart", zap.Error(err))
		return models.Cart{Items: []models.CartItem{}}
	}
	// Totals are derived; never trust the stored ones.
	return snapshot(cart.Items)
}

// Save writes the cart back into the session.
func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, cart models.Cart) error {
	session, err := s.sessions.Get(r, s.sessionName)
	if err != nil {
		// Get returns a new session alongside decode errors; keep going.
		s.logger.Warn("recreating session for cart save", zap.Error(err))
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	session.Values[sessionCartKey] = string(data)
	return session.Save(r, w)
}

// Clear removes the cart from the session.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := s.sessions.Get(r, s.sessionName)
	if err != nil {
		s.logger.Warn("recreating session for cart clear", zap.Error(err))
	}
	delete(session.Values, sessionCartKey)
	return session.Save(r, w)
}
