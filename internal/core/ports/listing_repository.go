package ports

import (
	"context"

	"github.com/oltenita/imobilia-market/internal/core/domain"
)

// ListingRepository persists listings. Every lookup by ID returns
// domain.ErrListingNotFound for unknown or malformed IDs.
type ListingRepository interface {
	// Create assigns ID on the given listing.
	Create(ctx context.Context, l *domain.Listing) error
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	// List returns every listing, newest first.
	List(ctx context.Context) ([]*domain.Listing, error)
	// ListByOwner returns the owner's listings, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error)
	// Update overwrites the mutable fields of an existing listing.
	Update(ctx context.Context, l *domain.Listing) error
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore remembers which listing a client-supplied key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, ownerID, key string) (listingID string, found bool, err error)
	Remember(ctx context.Context, ownerID, key, listingID string) error
}
