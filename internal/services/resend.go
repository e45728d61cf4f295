package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"laynie-fae-storefront/internal/models"
)

// ResendConfig represents Resend email service configuration
type ResendConfig struct {
	APIKey     string
	FromEmail  string
	FromName   string
	OwnerEmail string
}

// ResendEmailService handles email sending via the Resend API
type ResendEmailService struct {
	config  ResendConfig
	client  *http.Client
	baseURL string
}

// NewResendEmailService creates a new Resend email service
func NewResendEmailService(config ResendConfig) *ResendEmailService {
	return &ResendEmailService{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.resend.com",
	}
}

// ResendEmailRequest represents the request structure for the Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendErrorResponse represents an error response from the Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

func (s *ResendEmailService) getFromField() string {
	if s.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}
	return s.config.FromEmail
}

// SendOrderConfirmation emails the buyer their order summary and receipt.
func (s *ResendEmailService) SendOrderConfirmation(order *models.Order) error {
	var lines strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&lines, "<tr><td>%s", item.ProductName)
		if item.VariationName != "" {
			fmt.Fprintf(&lines, " (%s)", item.VariationName)
		}
		for _, c := range item.Customizations {
			fmt.Fprintf(&lines, "<br><small>%s: %s</small>", c.OptionName, c.Value)
		}
		fmt.Fprintf(&lines, "</td><td>%d</td><td>$%.2f</td></tr>", item.Quantity, float64(item.TotalPrice)/100)
	}

	receiptLink := ""
	if order.ReceiptURL != "" {
		receiptLink = fmt.Sprintf(`<p><a href="%s">View your receipt</a></p>`, order.ReceiptURL)
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Order Confirmation</title>
    <style>
        body { font-family: Georgia, serif; line-height: 1.6; color: #3d3d3d; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #5B4B8A; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #faf7f2; }
        table { width: 100%%; border-collapse: collapse; }
        td { padding: 8px; border-bottom: 1px solid #e0d8c8; }
        .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Thank You for Your Order</h1>
        </div>
        <div class="content">
            <p>Dear %s,</p>
            <p>Your order <strong>%s</strong> has been received and is being lovingly prepared.</p>
            <table>%s</table>
            <p><strong>Total: $%.2f</strong></p>
            %s
        </div>
        <div class="footer">
            <p>Laynie Fae &mdash; Sacred Florals for Every Season</p>
        </div>
    </div>
</body>
</html>`, order.CustomerName, order.OrderNumber, lines.String(), order.TotalAmountInCurrency(), receiptLink)

	text := fmt.Sprintf("Thank you for your order %s. Total: $%.2f",
		order.OrderNumber, order.TotalAmountInCurrency())

	return s.send(&ResendEmailRequest{
		From:    s.getFromField(),
		To:      []string{order.CustomerEmail},
		Subject: fmt.Sprintf("Order Confirmation - %s", order.OrderNumber),
		HTML:    html,
		Text:    text,
	})
}

// SendWelcomeEmail greets a newly registered customer.
func (s *ResendEmailService) SendWelcomeEmail(customer *models.Customer) error {
	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #3d3d3d;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #5B4B8A;">Welcome to Laynie Fae</h1>
        <p>Dear %s,</p>
        <p>Your account has been created. You can now track orders, save your
        details for faster checkout, and book consultations for custom ritual
        florals.</p>
        <p>Blessed be,<br>Laynie</p>
    </div>
</body>
</html>`, customer.FullName())

	return s.send(&ResendEmailRequest{
		From:    s.getFromField(),
		To:      []string{customer.Email},
		Subject: "Welcome to Laynie Fae",
		HTML:    html,
		Text:    fmt.Sprintf("Welcome to Laynie Fae, %s! Your account has been created.", customer.FullName()),
	})
}

// SendGiftCardEmail delivers a purchased gift card to its recipient.
func (s *ResendEmailService) SendGiftCardEmail(card *models.GiftCard) error {
	message := ""
	if card.Message != "" {
		message = fmt.Sprintf(`<blockquote style="font-style: italic;">%s</blockquote>`, card.Message)
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #3d3d3d;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #5B4B8A;">You've Received a Gift Card</h1>
        <p>%s has sent you a Laynie Fae gift card worth <strong>$%.2f</strong>.</p>
        %s
        <p>Your code:</p>
        <p style="font-size: 24px; letter-spacing: 2px; text-align: center;"><strong>%s</strong></p>
        <p>Enter it at checkout to apply your balance.</p>
    </div>
</body>
</html>`, card.PurchaserName, float64(card.Amount)/100, message, card.Code)

	to := card.RecipientEmail
	if to == "" {
		to = card.PurchaserEmail
	}

	return s.send(&ResendEmailRequest{
		From:    s.getFromField(),
		To:      []string{to},
		Subject: "A Gift Card from Laynie Fae",
		HTML:    html,
		Text:    fmt.Sprintf("You've received a $%.2f Laynie Fae gift card. Code: %s", float64(card.Amount)/100, card.Code),
	})
}

// SendConsultationNotification tells the shop owner about a new inquiry.
func (s *ResendEmailService) SendConsultationNotification(form *models.ConsultationForm) error {
	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #3d3d3d;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #5B4B8A;">New Consultation Request</h1>
        <p><strong>Name:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        <p><strong>Service:</strong> %s</p>
        <p><strong>Budget:</strong> %s</p>
        <p><strong>Notes:</strong> %s</p>
    </div>
</body>
</html>`, form.Name, form.Email, form.ServiceType, form.Budget, form.AdditionalNotes)

	return s.send(&ResendEmailRequest{
		From:    s.getFromField(),
		To:      []string{s.config.OwnerEmail},
		Subject: fmt.Sprintf("New Consultation Request from %s", form.Name),
		HTML:    html,
		Text:    fmt.Sprintf("New consultation from %s (%s) for %s", form.Name, form.Email, form.ServiceType),
	})
}

func (s *ResendEmailService) send(req *ResendEmailRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", s.baseURL+"/emails", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		var resendErr ResendErrorResponse
		if err := json.Unmarshal(respBody, &resendErr); err == nil && resendErr.Message != "" {
			return fmt.Errorf("email service error: %s", resendErr.Message)
		}
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}
	return nil
}
