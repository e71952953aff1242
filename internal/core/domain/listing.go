package domain

import (
	"fmt"
	"strings"
	"time"
)

// ListingSchemaVersion is written on every stored listing. Documents without a
// version are read as version 1.
//
// v1: title, description, price, category, type, images, owner_id, location,
// rooms, status, created_at, updated_at.
const ListingSchemaVersion = 1

// Category is the property type a listing advertises.
type Category string

const (
	CategoryApartment Category = "Apartament"
	CategoryStudio    Category = "Garsoniera"
	CategoryHouse     Category = "Casa"
	CategoryLand      Category = "Teren"
	CategoryGarage    Category = "Garaj"
	CategoryOther     Category = "Altul"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryApartment,
	CategoryStudio,
	CategoryHouse,
	CategoryLand,
	CategoryGarage,
	CategoryOther,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Transaction says whether a listing is offered for sale or for rent.
type Transaction string

const (
	TransactionSale Transaction = "vanzare"
	TransactionRent Transaction = "inchiriere"
)

// Valid reports whether t is a known transaction kind.
func (t Transaction) Valid() bool {
	return t == TransactionSale || t == TransactionRent
}

// Listing is a single classified advertisement owned by exactly one user.
type Listing struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Category    Category    `json:"category"`
	Transaction Transaction `json:"type,omitempty"`
	Images      []string    `json:"images"`
	OwnerID     string      `json:"ownerId"`
	Location    string      `json:"location,omitempty"`
	Rooms       int         `json:"rooms,omitempty"`
	Status      string      `json:"status,omitempty"` // cosmetic, not a lifecycle state
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// IsOwnedBy reports whether userID may mutate the listing.
func (l *Listing) IsOwnedBy(userID string) bool {
	return userID != "" && l.OwnerID == userID
}

// Validate checks the fields required on every stored listing.
func (l *Listing) Validate() error {
	var missing []string
	if strings.TrimSpace(l.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(l.Description) == "" {
		missing = append(missing, "description")
	}
	if l.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	if l.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if l.Rooms < 0 {
		return fmt.Errorf("%w: rooms must not be negative", ErrValidation)
	}
	if !l.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, l.Category)
	}
	if l.Transaction != "" && !l.Transaction.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrValidation, l.Transaction)
	}
	return nil
}
