package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/consultation"
	"laynie-fae-storefront/internal/models"
	"laynie-fae-storefront/internal/repositories"
	"laynie-fae-storefront/internal/services"
)

// ConsultationHandler drives the wizard over HTTP. Wizard state lives in
// the cookie session; only a submitted form is persisted.
type ConsultationHandler struct {
	sessions      *consultation.SessionStore
	consultations *repositories.ConsultationRepository
	images        *services.ImageService
	email         services.EmailService
	logger        *zap.Logger
}

// NewConsultationHandler creates a new consultation handler
func NewConsultationHandler(
	sessions *consultation.SessionStore,
	consultations *repositories.ConsultationRepository,
	images *services.ImageService,
	email services.EmailService,
	logger *zap.Logger,
) *ConsultationHandler {
	return &ConsultationHandler{
		sessions:      sessions,
		consultations: consultations,
		images:        images,
		email:         email,
		logger:        logger,
	}
}

// Routes mounts the wizard endpoints.
func (h *ConsultationHandler) Routes(r chi.Router) {
	r.Get("/consultation", h.State)
	r.Put("/consultation", h.Update)
	r.Post("/consultation/next", h.Next)
	r.Post("/consultation/prev", h.Prev)
	r.Post("/consultation/colors", h.ToggleColor)
	r.Post("/consultation/images", h.UploadImage)
	r.Delete("/consultation/images/{index}", h.RemoveImage)
	r.Post("/consultation/submit", h.Submit)
	r.Delete("/consultation", h.Close)
}

// wizardView is what the client renders: the form plus step context.
type wizardView struct {
	Form      models.ConsultationForm `json:"form"`
	Step      consultation.StepKind   `json:"step"`
	StepIndex int                     `json:"stepIndex"`
	Steps     []consultation.StepKind `json:"steps"`
	Submitted bool                    `json:"submitted"`
}

func viewOf(w *consultation.Wizard) wizardView {
	return wizardView{
		Form:      w.Form,
		Step:      w.CurrentStep(),
		StepIndex: w.StepIndex,
		Steps:     w.Steps(),
		Submitted: w.Submitted,
	}
}

// State returns the current wizard state, starting a fresh wizard if
// none is in progress.
func (h *ConsultationHandler) State(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, viewOf(h.sessions.Load(r)))
}

// Update merges form answers into the wizard.
func (h *ConsultationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var form models.ConsultationForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wizard := h.sessions.Load(r)
	if err := wizard.Update(form); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.save(w, r, wizard)
}

// Next advances the wizard one step.
func (h *ConsultationHandler) Next(w http.ResponseWriter, r *http.Request) {
	wizard := h.sessions.Load(r)
	if err := wizard.Next(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.save(w, r, wizard)
}

// Prev moves the wizard back one step.
func (h *ConsultationHandler) Prev(w http.ResponseWriter, r *http.Request) {
	wizard := h.sessions.Load(r)
	if err := wizard.Prev(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.save(w, r, wizard)
}

type toggleColorRequest struct {
	Color string `json:"color"`
}

// ToggleColor adds or removes a palette color.
func (h *ConsultationHandler) ToggleColor(w http.ResponseWriter, r *http.Request) {
	var req toggleColorRequest
	if err := decodeJSON(r, &req); err != nil || req.Color == "" {
		respondError(w, http.StatusBadRequest, "color is required")
		return
	}

	wizard := h.sessions.Load(r)
	wizard.ToggleColor(req.Color)
	h.save(w, r, wizard)
}

// UploadImage stores an inspiration image and attaches its metadata to
// the wizard.
func (h *ConsultationHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
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

	contentType := header.Header.Get("Content-Type")
	wizard := h.sessions.Load(r)

	img := models.InspirationImage{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: contentType,
	}
	if err := wizard.AddInspirationImage(img); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	url, err := h.images.UploadInspirationImage(r.Context(), header.Filename, data, contentType)
	if err != nil {
		h.logger.Error("inspiration image upload failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	wizard.Form.InspirationImages[len(wizard.Form.InspirationImages)-1].URL = url

	h.save(w, r, wizard)
}

// RemoveImage detaches an inspiration image by index.
func (h *ConsultationHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid image index")
		return
	}

	wizard := h.sessions.Load(r)
	wizard.RemoveInspirationImage(index)
	h.save(w, r, wizard)
}

// Submit finalizes the wizard: the form is persisted, the owner is
// notified, and the session state is cleared.
func (h *ConsultationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	wizard := h.sessions.Load(r)

	notifier := consultation.NotifierFunc(func(form models.ConsultationForm) error {
		return h.email.SendConsultationNotification(&form)
	})
	if err := wizard.Submit(notifier); err != nil {
		switch {
		case errors.Is(err, consultation.ErrAlreadySubmitted):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}

	stored, err := h.consultations.Create(&wizard.Form)
	if err != nil {
		h.logger.Error("failed to persist consultation", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to save consultation")
		return
	}

	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Warn("failed to clear wizard session", zap.Error(err))
	}
	respondJSON(w, http.StatusCreated, stored)
}

// Close abandons the wizard, clearing its state.
func (h *ConsultationHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Error("failed to clear wizard session", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to close consultation")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

func (h *ConsultationHandler) save(w http.ResponseWriter, r *http.Request, wizard *consultation.Wizard) {
	if err := h.sessions.Save(w, r, wizard); err != nil {
		h.logger.Error("failed to save wizard session", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to save progress")
		return
	}
	respondJSON(w, http.StatusOK, viewOf(wizard))
}
