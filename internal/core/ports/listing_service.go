package ports

import (
	"context"

	"github.com/oltenita/imobilia-market/internal/core/domain"
)

// ListingFields carries the scalar fields of a listing exactly as received.
// Numbers stay textual so that absence and malformed input can be told apart.
type ListingFields struct {
	Title       string
	Description string
	Price       string
	Category    string
	Transaction string
	Location    string
	Rooms       string
	Status      string
}

// CreateListingInput carries everything needed to create a listing.
type CreateListingInput struct {
	OwnerID        string
	Fields         ListingFields
	Images         []ImageUpload
	IdempotencyKey string
}

// UpdateListingInput carries a partial update. Empty scalar fields keep their
// value; the image list is always rebuilt from KeptImages and NewImages.
type UpdateListingInput struct {
	ID          string
	RequesterID string
	Fields      ListingFields
	NewImages   []ImageUpload
	// KeptImages is the serialized list of existing image URLs to retain.
	// Anything that does not decode to a list, including "", keeps none.
	KeptImages string
}

// ListingService defines the listing use cases.
type ListingService interface {
	Create(ctx context.Context, input CreateListingInput) (*domain.Listing, error)
	List(ctx context.Context) ([]*domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	ListMine(ctx context.Context, ownerID string) ([]*domain.Listing, error)
	Update(ctx context.Context, input UpdateListingInput) (*domain.Listing, error)
	Delete(ctx context.Context, id, requesterID string) error
}
