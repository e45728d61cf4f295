package models

import (
	"errors"
	"time"
)

// GiftCardStatus represents the lifecycle state of a gift card.
type GiftCardStatus string

const (
	GiftCardActive    GiftCardStatus = "active"
	GiftCardUsed      GiftCardStatus = "used"
	GiftCardExpired   GiftCardStatus = "expired"
	GiftCardCancelled GiftCardStatus = "cancelled"
)

// GiftCardDesign selects the artwork on a gift card.
type GiftCardDesign string

const (
	DesignMysticalMoon      GiftCardDesign = "mystical-moon"
	DesignSacredRoses       GiftCardDesign = "sacred-roses"
	DesignCrystalEnergy     GiftCardDesign = "crystal-energy"
	DesignElementalHarmony  GiftCardDesign = "elemental-harmony"
	DesignCelestialBlessing GiftCardDesign = "celestial-blessing"
)

// GiftCard represents a purchasable store credit.
type GiftCard struct {
	ID             string         `json:"id" db:"id"`
	Code           string         `json:"code" db:"code"`
	Amount         int            `json:"amount" db:"amount"`   // in cents
	Balance        int            `json:"balance" db:"balance"` // in cents
	PurchaserName  string         `json:"purchaserName,omitempty" db:"purchaser_name"`
	PurchaserEmail string         `json:"purchaserEmail" db:"purchaser_email"`
	RecipientName  string         `json:"recipientName,omitempty" db:"recipient_name"`
	RecipientEmail string         `json:"recipientEmail,omitempty" db:"recipient_email"`
	Message        string         `json:"message,omitempty" db:"message"`
	Design         GiftCardDesign `json:"design" db:"design"`
	Status         GiftCardStatus `json:"status" db:"status"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
}

// GiftCardPurchase is the payload accepted by the gift card endpoint.
type GiftCardPurchase struct {
	Amount         int            `json:"amount"` // in cents
	Design         GiftCardDesign `json:"design"`
	PurchaserName  string         `json:"purchaserName"`
	PurchaserEmail string         `json:"purchaserEmail"`
	RecipientName  string         `json:"recipientName,omitempty"`
	RecipientEmail string         `json:"recipientEmail"`
	Message        string         `json:"message,omitempty"`
}

// Validate validates a gift card purchase request.
func (p *GiftCardPurchase) Validate() error {
	if p.Amount <= 0 {
		return errors.New("gift card amount must be positive")
	}
	if p.Amount > 100000 {
		return errors.New("gift card amount cannot exceed $1,000")
	}
	if p.PurchaserEmail == "" {
		return errors.New("purchaser email is required")
	}
	if p.RecipientEmail == "" {
		return errors.New("recipient email is required")
	}
	return nil
}

// IsRedeemable returns true if the card still carries usable balance.
func (g *GiftCard) IsRedeemable() bool {
	return g.Status == GiftCardActive && g.Balance > 0
}
