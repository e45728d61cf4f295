package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/consultation"
	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/repositories"
	"laynie-fae-storefront/internal/services"
)

type consultEmail struct {
	notifications int
	err           error
}

func (e *consultEmail) SendOrderConfirmation(*models.Order) error { return nil }
func (e *consultEmail) SendWelcomeEmail(*models.Customer) error   { return nil }
func (e *consultEmail) SendGiftCardEmail(*models.GiftCard) error  { return nil }
func (e *consultEmail) SendConsultationNotification(*models.ConsultationForm) error {
	e.notifications++
	return e.err
}

type consultFixture struct {
	server *httptest.Server
	client *cartClient
	email  *consultEmail
	mock   sqlmock.Sqlmock
}

func newConsultFixture(t *testing.T) *consultFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	storage, err := services.NewLocalStorageService(t.TempDir(), "/uploads")
	require.NoError(t, err)

	email := &consultEmail{}
	cookies := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!!"))
	handler := NewConsultationHandler(
		consultation.NewSessionStore(cookies, "laynie_session", zap.NewNop()),
		repositories.NewConsultationRepository(db),
		services.NewImageService(storage),
		email,
		zap.NewNop(),
	)

	r := chi.NewRouter()
	r.Route("/api", handler.Routes)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &consultFixture{
		server: server,
		client: newCartClient(t, server),
		email:  email,
		mock:   mock,
	}
}

type wizardState struct {
	Form      models.ConsultationForm `json:"form"`
	Step      string                  `json:"step"`
	StepIndex int                     `json:"stepIndex"`
	Steps     []string                `json:"steps"`
	Submitted bool                    `json:"submitted"`
}

func (f *consultFixture) do(t *testing.T, method, path string, body interface{}) (*http.Response, wizardState) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.client.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var state wizardState
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	}
	return resp, state
}

func TestConsultationStartsAtContactStep(t *testing.T) {
	f := newConsultFixture(t)

	resp, state := f.do(t, "GET", "/api/consultation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "contact", state.Step)
	assert.Len(t, state.Steps, 6)
	assert.False(t, state.Submitted)
}

func TestConsultationNextRequiresContact(t *testing.T) {
	f := newConsultFixture(t)

	resp, _ := f.do(t, "POST", "/api/consultation/next", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	_, state := f.do(t, "GET", "/api/consultation", nil)
	assert.Equal(t, 0, state.StepIndex, "a failed transition must not move the wizard")
}

func TestConsultationServiceTypeSwitchesThirdStep(t *testing.T) {
	f := newConsultFixture(t)

	f.do(t, "PUT", "/api/consultation", map[string]interface{}{
		"name":        "Willow Hart",
		"email":       "willow@example.com",
		"serviceType": "event-flowers",
	})
	_, state := f.do(t, "GET", "/api/consultation", nil)
	assert.Equal(t, "event-details", state.Steps[2])

	// Choosing a non-event service swaps the third screen.
	f.do(t, "PUT", "/api/consultation", map[string]interface{}{
		"name":        "Willow Hart",
		"email":       "willow@example.com",
		"serviceType": "flower-crown",
	})
	_, state = f.do(t, "GET", "/api/consultation", nil)
	assert.Equal(t, "service-details", state.Steps[2])
}

func TestConsultationPrevKeepsAnswers(t *testing.T) {
	f := newConsultFixture(t)

	f.do(t, "PUT", "/api/consultation", map[string]interface{}{
		"name":        "Willow Hart",
		"email":       "willow@example.com",
		"serviceType": "custom-bouquet",
	})
	f.do(t, "POST", "/api/consultation/next", nil)
	resp, state := f.do(t, "POST", "/api/consultation/prev", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, state.StepIndex)
	assert.Equal(t, "Willow Hart", state.Form.Name)
}

func TestConsultationToggleColor(t *testing.T) {
	f := newConsultFixture(t)

	_, state := f.do(t, "POST", "/api/consultation/colors", map[string]string{"color": "moss green"})
	assert.Equal(t, []string{"moss green"}, state.Form.ColorPalette)

	_, state = f.do(t, "POST", "/api/consultation/colors", map[string]string{"color": "moss green"})
	assert.Empty(t, state.Form.ColorPalette)
}

func advanceToFinalStep(t *testing.T, f *consultFixture) {
	t.Helper()
	f.do(t, "PUT", "/api/consultation", map[string]interface{}{
		"name":             "Willow Hart",
		"email":            "willow@example.com",
		"serviceType":      "custom-bouquet",
		"budget":           "$100-$200",
		"consentToContact": true,
	})
	for i := 0; i < 5; i++ {
		resp, _ := f.do(t, "POST", "/api/consultation/next", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestConsultationSubmitOnlyFromFinalStep(t *testing.T) {
	f := newConsultFixture(t)

	f.do(t, "PUT", "/api/consultation", map[string]interface{}{
		"name":        "Willow Hart",
		"email":       "willow@example.com",
		"serviceType": "custom-bouquet",
	})
	resp, _ := f.do(t, "POST", "/api/consultation/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Zero(t, f.email.notifications)
}

func TestConsultationSubmitPersistsAndClears(t *testing.T) {
	f := newConsultFixture(t)
	advanceToFinalStep(t, f)

	now := time.Now()
	form, err := json.Marshal(models.ConsultationForm{
		Name:        "Willow Hart",
		Email:       "willow@example.com",
		ServiceType: models.ServiceBouquet,
	})
	require.NoError(t, err)
	f.mock.ExpectQuery("INSERT INTO consultations").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "form", "status", "admin_note", "created_at", "updated_at",
		}).AddRow("consult-1", form, "new", "", now, now))

	var buf bytes.Buffer
	req, err := http.NewRequest("POST", f.server.URL+"/api/consultation/submit", &buf)
	require.NoError(t, err)
	resp, err := f.client.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var stored models.Consultation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stored))
	assert.Equal(t, "consult-1", stored.ID)
	assert.Equal(t, models.ConsultationNew, stored.Status)
	assert.Equal(t, 1, f.email.notifications, "the owner is notified exactly once")

	// The session wizard is gone; a fresh one greets the next visit.
	_, state := f.do(t, "GET", "/api/consultation", nil)
	assert.Equal(t, 0, state.StepIndex)
	assert.Empty(t, state.Form.Name)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestConsultationNotifierFailureLeavesWizardOpen(t *testing.T) {
	f := newConsultFixture(t)
	f.email.err = errors.New("smtp down")
	advanceToFinalStep(t, f)

	resp, _ := f.do(t, "POST", "/api/consultation/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NoError(t, f.mock.ExpectationsWereMet(), "nothing is stored when notification fails")

	// The shopper can retry once the notifier recovers.
	f.email.err = nil
	now := time.Now()
	form, err := json.Marshal(models.ConsultationForm{Name: "Willow Hart", Email: "willow@example.com", ServiceType: models.ServiceBouquet})
	require.NoError(t, err)
	f.mock.ExpectQuery("INSERT INTO consultations").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "form", "status", "admin_note", "created_at", "updated_at",
		}).AddRow("consult-1", form, "new", "", now, now))

	var buf bytes.Buffer
	req, err := http.NewRequest("POST", f.server.URL+"/api/consultation/submit", &buf)
	require.NoError(t, err)
	retry, err := f.client.client.Do(req)
	require.NoError(t, err)
	retry.Body.Close()
	assert.Equal(t, http.StatusCreated, retry.StatusCode)
	assert.Equal(t, 2, f.email.notifications)
}

func TestConsultationImageUploadAndRemove(t *testing.T) {
	f := newConsultFixture(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="mood.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest("POST", f.server.URL+"/api/consultation/images", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := f.client.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state wizardState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	require.Len(t, state.Form.InspirationImages, 1)
	assert.Equal(t, "mood.jpg", state.Form.InspirationImages[0].Name)
	assert.NotEmpty(t, state.Form.InspirationImages[0].URL)

	_, state = f.do(t, "DELETE", "/api/consultation/images/0", nil)
	assert.Empty(t, state.Form.InspirationImages)
}

func TestConsultationCloseAbandonsWizard(t *testing.T) {
	f := newConsultFixture(t)

	f.do(t, "PUT", "/api/consultation", map[string]interface{}{
		"name":  "Willow Hart",
		"email": "willow@example.com",
	})
	resp, _ := f.do(t, "DELETE", "/api/consultation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, state := f.do(t, "GET", "/api/consultation", nil)
	assert.Empty(t, state.Form.Name)
}
