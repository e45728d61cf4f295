package models

import (
	"errors"
	"strings"
	"time"
)

// ProductCategory identifies one of the fixed catalog categories.
type ProductCategory string

const (
	CategorySacredFlowers       ProductCategory = "sacred_flowers"
	CategoryCeremonyArrangement ProductCategory = "ceremony_arrangements"
	CategoryAltarPieces         ProductCategory = "altar_pieces"
	CategoryRitualHerbs         ProductCategory = "ritual_herbs"
	CategorySeasonalWreaths     ProductCategory = "seasonal_wreaths"
	CategoryWeddingFlowers      ProductCategory = "wedding_flowers"
	CategoryMemorialTributes    ProductCategory = "memorial_tributes"
	CategorySubscriptionBoxes   ProductCategory = "subscription_boxes"
	CategoryDigitalGuides       ProductCategory = "digital_guides"
	CategoryWorkshops           ProductCategory = "workshops"
)

// Element is one of the five ritual elements a product can be associated with.
type Element string

const (
	ElementEarth  Element = "earth"
	ElementAir    Element = "air"
	ElementFire   Element = "fire"
	ElementWater  Element = "water"
	ElementSpirit Element = "spirit"
)

// Product represents a catalog item.
type Product struct {
	ID                   string                `json:"id" db:"id"`
	Name                 string                `json:"name" db:"name"`
	Description          string                `json:"description" db:"description"`
	LongDescription      string                `json:"longDescription,omitempty" db:"long_description"`
	Price                int                   `json:"price" db:"price"` // in cents
	Category             ProductCategory       `json:"category" db:"category"`
	Subcategory          string                `json:"subcategory,omitempty" db:"subcategory"`
	Images               []ProductImage        `json:"images"`
	Variations           []ProductVariation    `json:"variations,omitempty"`
	Tags                 []string              `json:"tags"`
	IsActive             bool                  `json:"isActive" db:"is_active"`
	IsCustomizable       bool                  `json:"isCustomizable" db:"is_customizable"`
	CustomizationOptions []CustomizationOption `json:"customizationOptions,omitempty"`
	StockQuantity        *int                  `json:"stockQuantity,omitempty" db:"stock_quantity"` // nil = unlimited
	RitualProperties     *RitualProperties     `json:"ritualProperties,omitempty"`
	CreatedAt            time.Time             `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time             `json:"updatedAt" db:"updated_at"`
}

// ProductImage is a display image attached to a product.
type ProductImage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	AltText   string `json:"altText"`
	IsPrimary bool   `json:"isPrimary"`
	SortOrder int    `json:"sortOrder"`
}

// ProductVariation is a purchasable variant (e.g. size) with its own price.
type ProductVariation struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Price         int               `json:"price"` // in cents
	SKU           string            `json:"sku,omitempty"`
	StockQuantity *int              `json:"stockQuantity,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// CustomizationOption describes a customization a buyer can attach to a line.
type CustomizationOption struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"` // text, select, multi-select, color, date
	Required        bool     `json:"required"`
	Options         []string `json:"options,omitempty"`
	AdditionalPrice int      `json:"additionalPrice,omitempty"` // in cents
}

// RitualProperties carries the spiritual metadata used by catalog filters.
type RitualProperties struct {
	Elements   []Element `json:"elements,omitempty"`
	Intentions []string  `json:"intentions,omitempty"`
	Sabbats    []string  `json:"sabbats,omitempty"`
	MoonPhases []string  `json:"moonPhases,omitempty"`
}

// Category is an admin-managed product grouping.
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Category       ProductCategory
	PriceMin       *int
	PriceMax       *int
	Elements       []Element
	Intentions     []string
	Tags           []string
	IsCustomizable *bool
	InStock        bool
	Page           int
	Limit          int
}

// ProductSearchResult is a page of products plus paging metadata.
type ProductSearchResult struct {
	Products []*Product `json:"products"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// ProductFilterOptions lists the distinct filter values present in the
// active catalog, for building the shop's filter sidebar.
type ProductFilterOptions struct {
	Elements   []string `json:"elements"`
	Intentions []string `json:"intentions"`
	Tags       []string `json:"tags"`
}

// InStock returns true if the product (ignoring variations) can be purchased.
func (p *Product) InStock() bool {
	return p.StockQuantity == nil || *p.StockQuantity > 0
}

// Validate validates the product data for create/update.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}
	if len(p.Name) > 255 {
		return errors.New("product name must be less than 255 characters")
	}
	if p.Price < 0 {
		return errors.New("product price cannot be negative")
	}
	if p.Category == "" {
		return errors.New("product category is required")
	}
	for _, v := range p.Variations {
		if strings.TrimSpace(v.Name) == "" {
			return errors.New("variation name is required")
		}
		if v.Price < 0 {
			return errors.New("variation price cannot be negative")
		}
	}
	return nil
}
