package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ConsultationServiceType identifies what kind of floral work is requested.
type ConsultationServiceType string

const (
	ServiceEventFlowers ConsultationServiceType = "event-flowers"
	ServiceBouquet      ConsultationServiceType = "custom-bouquet"
	ServiceFlowerCrown  ConsultationServiceType = "flower-crown"
	ServiceWreath       ConsultationServiceType = "seasonal-wreath"
	ServiceAccessories  ConsultationServiceType = "floral-accessories"
	ServiceCustom       ConsultationServiceType = "something-else"
)

// ConsultationStatus tracks an inquiry through the back office.
type ConsultationStatus string

const (
	ConsultationNew        ConsultationStatus = "new"
	ConsultationContacted  ConsultationStatus = "contacted"
	ConsultationQuoted     ConsultationStatus = "quoted"
	ConsultationBooked     ConsultationStatus = "booked"
	ConsultationCompleted  ConsultationStatus = "completed"
	ConsultationDeclined   ConsultationStatus = "declined"
)

// InspirationImage records metadata for a reference image the client attached.
// Only metadata travels with the form; the bytes stay in object storage.
type InspirationImage struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	URL         string `json:"url,omitempty"`
}

// ConsultationForm holds every answer gathered across the wizard steps.
type ConsultationForm struct {
	// Step 1: contact details
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Pronouns  string `json:"pronouns,omitempty"`
	HowFound  string `json:"howFound,omitempty"`

	// Step 2: service selection
	ServiceType ConsultationServiceType `json:"serviceType"`

	// Step 3 (event services): event details
	EventType    string `json:"eventType,omitempty"`
	EventDate    string `json:"eventDate,omitempty"`
	EventTime    string `json:"eventTime,omitempty"`
	Venue        string `json:"venue,omitempty"`
	GuestCount   string `json:"guestCount,omitempty"`
	Ceremony     string `json:"ceremony,omitempty"`

	// Step 3 (non-event services): piece details
	Occasion     string `json:"occasion,omitempty"`
	NeededBy     string `json:"neededBy,omitempty"`
	Recipient    string `json:"recipient,omitempty"`
	SizeGuide    string `json:"sizeGuide,omitempty"`

	// Step 4: budget and style
	Budget        string `json:"budget,omitempty"`
	Style         string `json:"style,omitempty"`
	Intentions    string `json:"intentions,omitempty"`
	SacredElements string `json:"sacredElements,omitempty"`

	// Step 5: colors and flowers
	ColorPalette    []string `json:"colorPalette,omitempty"`
	FavoriteFlowers string   `json:"favoriteFlowers,omitempty"`
	FlowersToAvoid  string   `json:"flowersToAvoid,omitempty"`
	Allergies       string   `json:"allergies,omitempty"`

	// Step 6: final details
	AdditionalNotes   string             `json:"additionalNotes,omitempty"`
	InspirationImages []InspirationImage `json:"inspirationImages,omitempty"`
	ConsentToContact  bool               `json:"consentToContact"`
}

// Consultation is a submitted consultation request as stored.
type Consultation struct {
	ID        string             `json:"id" db:"id"`
	Form      ConsultationForm   `json:"form"`
	Status    ConsultationStatus `json:"status" db:"status"`
	AdminNote string             `json:"adminNote,omitempty" db:"admin_note"`
	CreatedAt time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" db:"updated_at"`
}

var consultationEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateContact checks the fields gathered on the first wizard step.
func (f *ConsultationForm) ValidateContact() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		return errors.New("email is required")
	}
	if !consultationEmailRegex.MatchString(f.Email) {
		return errors.New("email format is invalid")
	}
	return nil
}

// ValidateServiceType checks the value chosen on the service step.
func ValidateServiceType(st ConsultationServiceType) error {
	switch st {
	case ServiceEventFlowers, ServiceBouquet, ServiceFlowerCrown,
		ServiceWreath, ServiceAccessories, ServiceCustom:
		return nil
	}
	return errors.New("invalid service type")
}

// IsEventService reports whether the service collects event logistics.
func IsEventService(st ConsultationServiceType) bool {
	return st == ServiceEventFlowers
}
