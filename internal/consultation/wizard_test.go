package consultation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laynie-fae-storefront/internal/models"
)

type recordingNotifier struct {
	calls int
	form  models.ConsultationForm
	err   error
}

func (n *recordingNotifier) ConsultationSubmitted(form models.ConsultationForm) error {
	n.calls++
	n.form = form
	return n.err
}

func contactForm() models.ConsultationForm {
	return models.ConsultationForm{
		Name:  "Rowan Ashby",
		Email: "rowan@example.com",
	}
}

func TestStepSequenceThirdSlotSwitchesOnService(t *testing.T) {
	event := StepSequence(models.ServiceEventFlowers)
	require.Len(t, event, 6)
	assert.Equal(t, StepEventDetails, event[2])

	for _, st := range []models.ConsultationServiceType{
		models.ServiceBouquet,
		models.ServiceFlowerCrown,
		models.ServiceWreath,
		models.ServiceAccessories,
		models.ServiceCustom,
	} {
		seq := StepSequence(st)
		require.Len(t, seq, 6)
		assert.Equal(t, StepServiceDetails, seq[2], "service %s", st)
	}
}

func TestNextRequiresContactDetails(t *testing.T) {
	w := NewWizard()

	err := w.Next()
	assert.ErrorIs(t, err, ErrContactRequired)
	assert.Equal(t, StepContact, w.CurrentStep())

	require.NoError(t, w.Update(contactForm()))
	require.NoError(t, w.Next())
	assert.Equal(t, StepServiceType, w.CurrentStep())
}

func TestNextRejectsInvalidEmail(t *testing.T) {
	w := NewWizard()
	form := contactForm()
	form.Email = "not-an-email"
	require.NoError(t, w.Update(form))

	assert.ErrorIs(t, w.Next(), ErrContactRequired)
}

func TestPrevKeepsAnswers(t *testing.T) {
	w := NewWizard()
	form := contactForm()
	form.ServiceType = models.ServiceBouquet
	form.Budget = "$100-$250"
	require.NoError(t, w.Update(form))

	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	require.NoError(t, w.Prev())

	assert.Equal(t, StepServiceType, w.CurrentStep())
	assert.Equal(t, "$100-$250", w.Form.Budget)
}

func TestPrevOnFirstStep(t *testing.T) {
	w := NewWizard()
	assert.ErrorIs(t, w.Prev(), ErrNoPreviousStep)
}

func TestChangingServiceTypeChangesThirdStep(t *testing.T) {
	w := NewWizard()
	form := contactForm()
	form.ServiceType = models.ServiceEventFlowers
	require.NoError(t, w.Update(form))

	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	assert.Equal(t, StepEventDetails, w.CurrentStep())

	// Going back and picking a bouquet swaps the slot content.
	require.NoError(t, w.Prev())
	form.ServiceType = models.ServiceBouquet
	require.NoError(t, w.Update(form))
	require.NoError(t, w.Next())
	assert.Equal(t, StepServiceDetails, w.CurrentStep())
}

func TestSubmitOnlyFromFinalStep(t *testing.T) {
	w := NewWizard()
	form := contactForm()
	form.ServiceType = models.ServiceWreath
	require.NoError(t, w.Update(form))

	n := &recordingNotifier{}
	assert.ErrorIs(t, w.Submit(n), ErrNotOnFinalStep)
	assert.Zero(t, n.calls)

	for !w.OnFinalStep() {
		require.NoError(t, w.Next())
	}
	require.NoError(t, w.Submit(n))
	assert.True(t, w.Submitted)
	assert.Equal(t, 1, n.calls)
	assert.Equal(t, "rowan@example.com", n.form.Email)
}

func TestSubmitFiresNotifierExactlyOnce(t *testing.T) {
	w := advanceToFinal(t, models.ServiceFlowerCrown)

	n := &recordingNotifier{}
	require.NoError(t, w.Submit(n))
	assert.ErrorIs(t, w.Submit(n), ErrAlreadySubmitted)
	assert.Equal(t, 1, n.calls)
}

func TestSubmitNotifierFailureLeavesWizardOpen(t *testing.T) {
	w := advanceToFinal(t, models.ServiceBouquet)

	n := &recordingNotifier{err: errors.New("smtp down")}
	err := w.Submit(n)
	require.Error(t, err)
	assert.False(t, w.Submitted)

	// A retry after the outage succeeds.
	n.err = nil
	require.NoError(t, w.Submit(n))
	assert.True(t, w.Submitted)
}

func TestSubmitRequiresServiceType(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Update(contactForm()))
	for !w.OnFinalStep() {
		require.NoError(t, w.Next())
	}

	n := &recordingNotifier{}
	require.Error(t, w.Submit(n))
	assert.Zero(t, n.calls)
}

func TestNoTransitionsAfterSubmit(t *testing.T) {
	w := advanceToFinal(t, models.ServiceCustom)
	require.NoError(t, w.Submit(&recordingNotifier{}))

	assert.ErrorIs(t, w.Next(), ErrAlreadySubmitted)
	assert.ErrorIs(t, w.Prev(), ErrAlreadySubmitted)
	assert.ErrorIs(t, w.Update(w.Form), ErrAlreadySubmitted)
}

func TestToggleColor(t *testing.T) {
	w := NewWizard()

	w.ToggleColor("deep plum")
	w.ToggleColor("moss green")
	assert.Equal(t, []string{"deep plum", "moss green"}, w.Form.ColorPalette)

	w.ToggleColor("deep plum")
	assert.Equal(t, []string{"moss green"}, w.Form.ColorPalette)
}

func TestInspirationImageLimits(t *testing.T) {
	w := NewWizard()

	ok := models.InspirationImage{Name: "moodboard.jpg", Size: 1 << 20, ContentType: "image/jpeg"}
	for i := 0; i < 5; i++ {
		require.NoError(t, w.AddInspirationImage(ok))
	}
	assert.ErrorIs(t, w.AddInspirationImage(ok), ErrTooManyImages)

	w.RemoveInspirationImage(0)
	assert.Len(t, w.Form.InspirationImages, 4)

	tooBig := models.InspirationImage{Name: "huge.png", Size: 11 << 20, ContentType: "image/png"}
	assert.ErrorIs(t, w.AddInspirationImage(tooBig), ErrImageTooLarge)

	wrongType := models.InspirationImage{Name: "notes.pdf", Size: 100, ContentType: "application/pdf"}
	assert.ErrorIs(t, w.AddInspirationImage(wrongType), ErrUnsupportedImage)
}

func TestRemoveInspirationImageOutOfRange(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.AddInspirationImage(models.InspirationImage{Name: "a.webp", Size: 1, ContentType: "image/webp"}))

	w.RemoveInspirationImage(-1)
	w.RemoveInspirationImage(5)
	assert.Len(t, w.Form.InspirationImages, 1)
}

func advanceToFinal(t *testing.T, st models.ConsultationServiceType) *Wizard {
	t.Helper()
	w := NewWizard()
	form := contactForm()
	form.ServiceType = st
	require.NoError(t, w.Update(form))
	for !w.OnFinalStep() {
		require.NoError(t, w.Next())
	}
	return w
}
