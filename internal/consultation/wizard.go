package consultation

import (
	"errors"

	"laynie-fae-storefront/internal/models"
)

// StepKind names a screen in the consultation wizard.
type StepKind string

const (
	StepContact        StepKind = "contact"
	StepServiceType    StepKind = "service-type"
	StepEventDetails   StepKind = "event-details"
	StepServiceDetails StepKind = "service-details"
	StepBudgetStyle    StepKind = "budget-style"
	StepColors         StepKind = "colors"
	StepFinalDetails   StepKind = "final-details"
)

// Errors returned by wizard transitions.
var (
	ErrContactRequired   = errors.New("name and email are required before continuing")
	ErrAlreadySubmitted  = errors.New("consultation has already been submitted")
	ErrNotOnFinalStep    = errors.New("consultation can only be submitted from the final step")
	ErrNoNextStep        = errors.New("already on the final step")
	ErrNoPreviousStep    = errors.New("already on the first step")
	ErrTooManyImages     = errors.New("at most five inspiration images are allowed")
	ErrImageTooLarge     = errors.New("inspiration images must be 10MB or smaller")
	ErrUnsupportedImage  = errors.New("inspiration images must be JPEG, PNG or WebP")
)

const (
	maxInspirationImages    = 5
	maxInspirationImageSize = 10 << 20
)

// StepSequence returns the six steps for a given service. Every service
// walks the same sequence; only the third slot changes, showing event
// logistics for event work and piece details for everything else.
func StepSequence(serviceType models.ConsultationServiceType) []StepKind {
	third := StepServiceDetails
	if models.IsEventService(serviceType) {
		third = StepEventDetails
	}
	return []StepKind{
		StepContact,
		StepServiceType,
		third,
		StepBudgetStyle,
		StepColors,
		StepFinalDetails,
	}
}

// Wizard tracks a shopper's progress through the consultation flow. It
// is a pure state machine; persistence and notification happen at the
// edges.
type Wizard struct {
	Form      models.ConsultationForm `json:"form"`
	StepIndex int                     `json:"stepIndex"`
	Submitted bool                    `json:"submitted"`
}

// NewWizard starts a fresh consultation at the contact step.
func NewWizard() *Wizard {
	return &Wizard{}
}

// Steps returns the step sequence for the currently selected service.
func (w *Wizard) Steps() []StepKind {
	return StepSequence(w.Form.ServiceType)
}

// CurrentStep returns the kind of the step the wizard is on.
func (w *Wizard) CurrentStep() StepKind {
	steps := w.Steps()
	if w.StepIndex < 0 || w.StepIndex >= len(steps) {
		return steps[0]
	}
	return steps[w.StepIndex]
}

// OnFinalStep reports whether the wizard is on the last step.
func (w *Wizard) OnFinalStep() bool {
	return w.StepIndex == len(w.Steps())-1
}

// Update merges form answers into the wizard. Only fields relevant to
// validation are gated; the shopper may fill ahead freely.
func (w *Wizard) Update(form models.ConsultationForm) error {
	if w.Submitted {
		return ErrAlreadySubmitted
	}
	if form.ServiceType != "" {
		if err := models.ValidateServiceType(form.ServiceType); err != nil {
			return err
		}
	}
	if len(form.InspirationImages) > maxInspirationImages {
		return ErrTooManyImages
	}
	w.Form = form
	return nil
}

// Next advances to the following step. Leaving the contact step requires
// a name and a valid email; switching service type on step two may change
// what the third step shows, which is why the sequence is recomputed on
// every call.
func (w *Wizard) Next() error {
	if w.Submitted {
		return ErrAlreadySubmitted
	}
	if w.CurrentStep() == StepContact {
		if err := w.Form.ValidateContact(); err != nil {
			return ErrContactRequired
		}
	}
	if w.OnFinalStep() {
		return ErrNoNextStep
	}
	w.StepIndex++
	return nil
}

// Prev moves back one step. Answers already given are kept.
func (w *Wizard) Prev() error {
	if w.Submitted {
		return ErrAlreadySubmitted
	}
	if w.StepIndex == 0 {
		return ErrNoPreviousStep
	}
	w.StepIndex--
	return nil
}

// ToggleColor adds the color to the palette, or removes it if already
// chosen.
func (w *Wizard) ToggleColor(color string) {
	for i, c := range w.Form.ColorPalette {
		if c == color {
			w.Form.ColorPalette = append(w.Form.ColorPalette[:i], w.Form.ColorPalette[i+1:]...)
			return
		}
	}
	w.Form.ColorPalette = append(w.Form.ColorPalette, color)
}

// AddInspirationImage attaches reference image metadata, enforcing the
// count, size and type limits.
func (w *Wizard) AddInspirationImage(img models.InspirationImage) error {
	if len(w.Form.InspirationImages) >= maxInspirationImages {
		return ErrTooManyImages
	}
	if img.Size > maxInspirationImageSize {
		return ErrImageTooLarge
	}
	switch img.ContentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return ErrUnsupportedImage
	}
	w.Form.InspirationImages = append(w.Form.InspirationImages, img)
	return nil
}

// RemoveInspirationImage drops the image at the given index.
func (w *Wizard) RemoveInspirationImage(index int) {
	if index < 0 || index >= len(w.Form.InspirationImages) {
		return
	}
	w.Form.InspirationImages = append(
		w.Form.InspirationImages[:index],
		w.Form.InspirationImages[index+1:]...)
}

// Submit finalizes the consultation. It is only valid from the final
// step, requires contact details and a service selection, and fires the
// notifier exactly once.
func (w *Wizard) Submit(notifier Notifier) error {
	if w.Submitted {
		return ErrAlreadySubmitted
	}
	if !w.OnFinalStep() {
		return ErrNotOnFinalStep
	}
	if err := w.Form.ValidateContact(); err != nil {
		return err
	}
	if err := models.ValidateServiceType(w.Form.ServiceType); err != nil {
		return err
	}
	if notifier != nil {
		if err := notifier.ConsultationSubmitted(w.Form); err != nil {
			return err
		}
	}
	w.Submitted = true
	return nil
}
