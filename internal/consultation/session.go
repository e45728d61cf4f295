package consultation

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const sessionWizardKey = "consultation"

// SessionStore keeps in-progress wizard state in the shopper's cookie
// session, so a page reload resumes where they left off.
type SessionStore struct {
	sessions    sessions.Store
	sessionName string
	logger      *zap.Logger
}

// NewSessionStore creates a session-backed wizard store.
func NewSessionStore(store sessions.Store, sessionName string, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions:    store,
		sessionName: sessionName,
		logger:      logger,
	}
}

// Load reads the wizard from the session. Absent or corrupt state yields
// a fresh wizard.
func (s *SessionStore) Load(r *http.Request) *Wizard {
	session, err := s.sessions.Get(r, s.sessionName)
	if err != nil {
		s.logger.Warn("failed to read session, starting fresh wizard", zap.Error(err))
		return NewWizard()
	}
	raw, ok := session.Values[sessionWizardKey].(string)
	if !ok || raw == "" {
		return NewWizard()
	}
	wizard := &Wizard{}
	if err := json.Unmarshal([]byte(raw), wizard); err != nil {
		s.logger.Warn("corrupt wizard in session, starting fresh", zap.Error(err))
		return NewWizard()
	}
	return wizard
}

// Save writes the wizard back into the session.
func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, wizard *Wizard) error {
	session, err := s.sessions.Get(r, s.sessionName)
	if err != nil {
		s.logger.Warn("recreating session for wizard save", zap.Error(err))
	}
	data, err := json.Marshal(wizard)
	if err != nil {
		return err
	}
	session.Values[sessionWizardKey] = string(data)
	return session.Save(r, w)
}

// Clear drops the wizard from the session, e.g. after submission or when
// the shopper abandons the flow.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := s.sessions.Get(r, s.sessionName)
	if err != nil {
		s.logger.Warn("recreating session for wizard clear", zap.Error(err))
	}
	delete(session.Values, sessionWizardKey)
	return session.Save(r, w)
}
