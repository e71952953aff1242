package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/oltenita/imobilia-market/internal/core/domain"
	"github.com/oltenita/imobilia-market/internal/core/ports"
)

// DefaultMaxImages caps the number of images a single listing may carry.
const DefaultMaxImages = 10

// ListingService implements listing CRUD with owner-only mutations.
type ListingService struct {
	repo      ports.ListingRepository
	users     ports.UserRepository
	images    ports.ImageStore
	idem      ports.IdempotencyStore // optional
	rec       ports.Recorder
	maxImages int
	logger    zerolog.Logger
	now       func() time.Time
}

func NewListingService(
	repo ports.ListingRepository,
	users ports.UserRepository,
	images ports.ImageStore,
	idem ports.IdempotencyStore,
	rec ports.Recorder,
	maxImages int,
	logger zerolog.Logger,
) *ListingService {
	if maxImages <= 0 {
		maxImages = DefaultMaxImages
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &ListingService{
		repo:      repo,
		users:     users,
		images:    images,
		idem:      idem,
		rec:       rec,
		maxImages: maxImages,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new listing owned by input.OwnerID. When an idempotency key
// is given and was already used by the same owner, the earlier listing is
// returned without side effects.
func (s *ListingService) Create(ctx context.Context, input ports.CreateListingInput) (*domain.Listing, error) {
	if _, err := s.users.FindByID(ctx, input.OwnerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("create listing: %w", err)
	}

	if existing := s.replay(ctx, input.OwnerID, input.IdempotencyKey); existing != nil {
		return existing, nil
	}

	listing, err := newListing(input.Fields)
	if err != nil {
		return nil, err
	}
	if err := s.checkUploads(0, input.Images); err != nil {
		return nil, err
	}

	urls, err := s.storeImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	listing.OwnerID = input.OwnerID
	listing.Images = urls
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if err := s.repo.Create(ctx, listing); err != nil {
		s.deleteImages(ctx, urls)
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to create listing")
		return nil, fmt.Errorf("create listing: %w", err)
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, input.OwnerID, input.IdempotencyKey, listing.ID); err != nil {
			s.logger.Warn().Err(err).Str("listing_id", listing.ID).Msg("failed to remember idempotency key")
		}
	}

	s.rec.ListingCreated(string(listing.Category))
	s.logger.Info().
		Str("listing_id", listing.ID).
		Str("owner_id", listing.OwnerID).
		Int("images", len(listing.Images)).
		Msg("listing created")

	return listing, nil
}

// replay returns the listing an earlier request with the same key created, or nil.
func (s *ListingService) replay(ctx context.Context, ownerID, key string) *domain.Listing {
	if key == "" || s.idem == nil {
		return nil
	}
	id, found, err := s.idem.Lookup(ctx, ownerID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("listing_id", id).Msg("idempotent listing vanished, creating anew")
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("listing_id", id).Msg("idempotent replay")
	return existing
}

// List returns every listing, newest first.
func (s *ListingService) List(ctx context.Context) ([]*domain.Listing, error) {
	listings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.repo.FindByID(ctx, id)
}

// ListMine returns the owner's listings, newest first.
func (s *ListingService) ListMine(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	listings, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list listings of %s: %w", ownerID, err)
	}
	return listings, nil
}

// Update applies a partial update on behalf of the listing's owner and
// reconciles its images: kept images come first, new uploads are appended in
// upload order, and images no longer referenced are deleted after the save.
func (s *ListingService) Update(ctx context.Context, input ports.UpdateListingInput) (*domain.Listing, error) {
	listing, err := s.update(ctx, input)
	s.rec.ListingMutation("update", mutationResult(err))
	return listing, err
}

func (s *ListingService) update(ctx context.Context, input ports.UpdateListingInput) (*domain.Listing, error) {
	listing, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(input.RequesterID) {
		s.logger.Warn().Str("listing_id", listing.ID).Str("requester_id", input.RequesterID).Msg("update by non-owner rejected")
		return nil, domain.ErrForbidden
	}

	updated := *listing
	if err := applyFields(&updated, input.Fields); err != nil {
		return nil, err
	}

	kept, removed := reconcileImages(listing.Images, parseKeptImages(input.KeptImages))
	if err := s.checkUploads(len(kept), input.NewImages); err != nil {
		return nil, err
	}

	uploaded, err := s.storeImages(ctx, input.NewImages)
	if err != nil {
		return nil, err
	}

	final := make([]string, 0, len(kept)+len(uploaded))
	final = append(final, kept...)
	final = append(final, uploaded...)
	updated.Images = final
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, &updated); err != nil {
		s.deleteImages(ctx, uploaded)
		return nil, fmt.Errorf("update listing %s: %w", listing.ID, err)
	}

	s.deleteImages(ctx, removed)

	s.logger.Info().
		Str("listing_id", updated.ID).
		Int("kept", len(kept)).
		Int("added", len(uploaded)).
		Int("removed", len(removed)).
		Msg("listing updated")

	return &updated, nil
}

// Delete removes a listing on behalf of its owner, deleting its images first.
func (s *ListingService) Delete(ctx context.Context, id, requesterID string) error {
	err := s.delete(ctx, id, requesterID)
	s.rec.ListingMutation("delete", mutationResult(err))
	return err
}

func (s *ListingService) delete(ctx context.Context, id, requesterID string) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !listing.IsOwnedBy(requesterID) {
		s.logger.Warn().Str("listing_id", listing.ID).Str("requester_id", requesterID).Msg("delete by non-owner rejected")
		return domain.ErrForbidden
	}

	s.deleteImages(ctx, listing.Images)

	if err := s.repo.Delete(ctx, listing.ID); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return err
		}
		return fmt.Errorf("delete listing %s: %w", listing.ID, err)
	}

	s.logger.Info().Str("listing_id", listing.ID).Msg("listing deleted")
	return nil
}

// checkUploads enforces the image count limit and that uploads are images.
// Uploads without a content type are sniffed and get the detected type.
func (s *ListingService) checkUploads(kept int, uploads []ports.ImageUpload) error {
	if kept+len(uploads) > s.maxImages {
		return fmt.Errorf("%w: at most %d images per listing", domain.ErrValidation, s.maxImages)
	}
	for i := range uploads {
		u := &uploads[i]
		if u.Open == nil {
			return fmt.Errorf("%w: image %q has no content", domain.ErrValidation, u.Filename)
		}
		if u.ContentType == "" {
			detected, err := sniffContentType(*u)
			if err != nil {
				return fmt.Errorf("read image %q: %w", u.Filename, err)
			}
			u.ContentType = detected
		}
		if !strings.HasPrefix(u.ContentType, "image/") {
			return fmt.Errorf("%w: %q is not an image", domain.ErrValidation, u.Filename)
		}
	}
	return nil
}

func sniffContentType(u ports.ImageUpload) (string, error) {
	rc, err := u.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	mt, err := mimetype.DetectReader(rc)
	if err != nil {
		return "", err
	}
	return mt.String(), nil
}

// storeImages saves every upload, in order. On failure the images already
// stored by this call are deleted again.
func (s *ListingService) storeImages(ctx context.Context, uploads []ports.ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		url, err := s.images.Save(ctx, u)
		if err != nil {
			s.deleteImages(ctx, urls)
			return nil, fmt.Errorf("store image %q: %w", u.Filename, err)
		}
		s.rec.ImageStored()
		urls = append(urls, url)
	}
	return urls, nil
}

// deleteImages removes backing objects best-effort. Failures are logged and
// counted, never returned. Cleanup outlives a cancelled request.
func (s *ListingService) deleteImages(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, url := range urls {
		if err := s.images.Delete(ctx, url); err != nil {
			s.rec.ImageDeleted("error")
			s.logger.Warn().Err(err).Str("image", url).Msg("failed to delete image")
			continue
		}
		s.rec.ImageDeleted("ok")
	}
}

// newListing builds a listing from create input. Title, description, price and
// category are required.
func newListing(f ports.ListingFields) (*domain.Listing, error) {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"title", f.Title},
		{"description", f.Description},
		{"price", f.Price},
		{"category", f.Category},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s required", domain.ErrValidation, strings.Join(missing, ", "))
	}

	l := &domain.Listing{}
	if err := applyFields(l, f); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// applyFields overwrites every field of l whose input is non-empty. Empty input
// keeps the previous value.
func applyFields(l *domain.Listing, f ports.ListingFields) error {
	if f.Title != "" {
		l.Title = f.Title
	}
	if f.Description != "" {
		l.Description = f.Description
	}
	if f.Price != "" {
		price, err := parsePrice(f.Price)
		if err != nil {
			return err
		}
		l.Price = price
	}
	if f.Category != "" {
		category := domain.Category(f.Category)
		if !category.Valid() {
			return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, f.Category)
		}
		l.Category = category
	}
	if f.Transaction != "" {
		transaction := domain.Transaction(f.Transaction)
		if !transaction.Valid() {
			return fmt.Errorf("%w: type must be %q or %q", domain.ErrValidation, domain.TransactionSale, domain.TransactionRent)
		}
		l.Transaction = transaction
	}
	if f.Location != "" {
		l.Location = f.Location
	}
	if f.Rooms != "" {
		rooms, err := strconv.Atoi(strings.TrimSpace(f.Rooms))
		if err != nil || rooms < 0 {
			return fmt.Errorf("%w: rooms must be a non-negative integer", domain.ErrValidation)
		}
		l.Rooms = rooms
	}
	if f.Status != "" {
		l.Status = f.Status
	}
	return nil
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: price must be a number", domain.ErrValidation)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return price, nil
}

func mutationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrListingNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
