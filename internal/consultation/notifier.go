package consultation

import (
	"go.uber.org/zap"

	"laynie-fae-storefront/internal/models"
)

// Notifier is told when a consultation is submitted, so the shop owner
// finds out about new inquiries.
type Notifier interface {
	ConsultationSubmitted(form models.ConsultationForm) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(form models.ConsultationForm) error

func (f NotifierFunc) ConsultationSubmitted(form models.ConsultationForm) error {
	return f(form)
}

// LogNotifier records submissions to the application log. It stands in
// when no email notifier is configured, e.g. in development.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) ConsultationSubmitted(form models.ConsultationForm) error {
	n.logger.Info("consultation submitted",
		zap.String("name", form.Name),
		zap.String("email", form.Email),
		zap.String("serviceType", string(form.ServiceType)),
		zap.Int("inspirationImages", len(form.InspirationImages)),
	)
	return nil
}
