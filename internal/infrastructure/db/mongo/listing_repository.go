package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oltenita/imobilia-market/internal/core/domain"
)

const collectionListings = "listings"

// newestFirst orders by creation time, breaking ties on the id.
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(collectionListings)}
}

type listingDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	SchemaVersion int                `bson:"schema_version"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	Price         float64            `bson:"price"`
	Category      string             `bson:"category"`
	Transaction   string             `bson:"type,omitempty"`
	Images        []string           `bson:"images"`
	OwnerID       primitive.ObjectID `bson:"owner_id"`
	Location      string             `bson:"location,omitempty"`
	Rooms         int                `bson:"rooms,omitempty"`
	Status        string             `bson:"status,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toListingDoc(l *domain.Listing) (listingDoc, error) {
	owner, err := primitive.ObjectIDFromHex(l.OwnerID)
	if err != nil {
		return listingDoc{}, fmt.Errorf("%w: invalid owner id %q", domain.ErrValidation, l.OwnerID)
	}

	doc := listingDoc{
		SchemaVersion: domain.ListingSchemaVersion,
		Title:         l.Title,
		Description:   l.Description,
		Price:         l.Price,
		Category:      string(l.Category),
		Transaction:   string(l.Transaction),
		Images:        l.Images,
		OwnerID:       owner,
		Location:      l.Location,
		Rooms:         l.Rooms,
		Status:        l.Status,
		CreatedAt:     l.CreatedAt.UTC(),
		UpdatedAt:     l.UpdatedAt.UTC(),
	}
	if doc.Images == nil {
		doc.Images = []string{}
	}
	if l.ID != "" {
		if doc.ID, err = primitive.ObjectIDFromHex(l.ID); err != nil {
			return listingDoc{}, domain.ErrListingNotFound
		}
	}
	return doc, nil
}

func (d listingDoc) toDomain() *domain.Listing {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return &domain.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    domain.Category(d.Category),
		Transaction: domain.Transaction(d.Transaction),
		Images:      images,
		OwnerID:     d.OwnerID.Hex(),
		Location:    d.Location,
		Rooms:       d.Rooms,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Create inserts the listing and assigns its generated id to l.ID.
func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toListingDoc(l)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	l.ID = doc.ID.Hex()
	return nil
}

// FindByID returns ErrListingNotFound for unknown and malformed ids alike.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc listingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) List(ctx context.Context) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{})
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []*domain.Listing{}, nil
	}
	return r.find(ctx, bson.M{"owner_id": oid})
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M) ([]*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	listings := make([]*domain.Listing, 0, len(docs))
	for _, d := range docs {
		listings = append(listings, d.toDomain())
	}
	return listings, nil
}

// Update replaces the stored document, keeping its id and owner.
func (r *ListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	doc, err := toListingDoc(l)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the two list queries.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: newestFirst},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
