package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oltenita/imobilia-market/internal/core/domain"
	"github.com/oltenita/imobilia-market/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[string]*domain.User
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	created := cloneUser(user)
	created.ID = primitive.NewObjectID().Hex()
	r.byID[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) seed(email string) *domain.User {
	u := &domain.User{ID: primitive.NewObjectID().Hex(), Email: email}
	r.byID[u.ID] = u
	return cloneUser(u)
}

// ---------------------------------------------------------------------------
// In-memory listing repository
// ---------------------------------------------------------------------------

type stubListingRepo struct {
	byID      map[string]*domain.Listing
	createErr error
	updateErr error
	updates   int
}

func newStubListingRepo() *stubListingRepo {
	return &stubListingRepo{byID: make(map[string]*domain.Listing)}
}

func cloneListing(l *domain.Listing) *domain.Listing {
	clone := *l
	clone.Images = append([]string(nil), l.Images...)
	return &clone
}

func (r *stubListingRepo) Create(_ context.Context, l *domain.Listing) error {
	if r.createErr != nil {
		return r.createErr
	}
	l.ID = primitive.NewObjectID().Hex()
	r.byID[l.ID] = cloneListing(l)
	return nil
}

func (r *stubListingRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneListing(l), nil
}

// sorted mirrors the Mongo sort: created_at desc, then _id desc.
func (r *stubListingRepo) sorted(keep func(*domain.Listing) bool) []*domain.Listing {
	out := make([]*domain.Listing, 0, len(r.byID))
	for _, l := range r.byID {
		if keep(l) {
			out = append(out, cloneListing(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *stubListingRepo) List(_ context.Context) ([]*domain.Listing, error) {
	return r.sorted(func(*domain.Listing) bool { return true }), nil
}

func (r *stubListingRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Listing, error) {
	return r.sorted(func(l *domain.Listing) bool { return l.OwnerID == ownerID }), nil
}

func (r *stubListingRepo) Update(_ context.Context, l *domain.Listing) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[l.ID]; !ok {
		return domain.ErrListingNotFound
	}
	r.updates++
	r.byID[l.ID] = cloneListing(l)
	return nil
}

func (r *stubListingRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory image store
// ---------------------------------------------------------------------------

type stubImageStore struct {
	mu        sync.Mutex
	objects   map[string]string // url -> content
	saved     []string
	types     []string
	deleted   []string
	saveErrAt int // 1-based index of the Save call that fails; 0 = never
	deleteErr error
	calls     int
}

func newStubImageStore(existing ...string) *stubImageStore {
	s := &stubImageStore{objects: make(map[string]string)}
	for _, url := range existing {
		s.objects[url] = "seed"
	}
	return s
}

func (s *stubImageStore) Save(_ context.Context, u ports.ImageUpload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.saveErrAt != 0 && s.calls == s.saveErrAt {
		return "", errors.New("disk full")
	}
	rc, err := u.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + u.Filename
	s.objects[url] = string(body)
	s.saved = append(s.saved, url)
	s.types = append(s.types, u.ContentType)
	return url, nil
}

func (s *stubImageStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, url)
	return nil
}

func (s *stubImageStore) has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[url]
	return ok
}

func upload(name string) ports.ImageUpload {
	return ports.ImageUpload{
		Filename:    name,
		ContentType: "image/jpeg",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("jpeg:" + name)), nil
		},
	}
}

// ---------------------------------------------------------------------------
// In-memory idempotency store
// ---------------------------------------------------------------------------

type stubIdempotency struct {
	keys      map[string]string
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, ownerID, key string) (string, bool, error) {
	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	id, ok := s.keys[ownerID+"/"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, ownerID, key, listingID string) error {
	s.keys[ownerID+"/"+key] = listingID
	return nil
}

// ---------------------------------------------------------------------------
// Counting recorder
// ---------------------------------------------------------------------------

type stubRecorder struct {
	counts map[string]int
}

func newStubRecorder() *stubRecorder {
	return &stubRecorder{counts: make(map[string]int)}
}

func (r *stubRecorder) Registration(result string) {
	r.counts["registration/"+result]++
}

func (r *stubRecorder) Login(result string) {
	r.counts["login/"+result]++
}

func (r *stubRecorder) ListingCreated(category string) {
	r.counts["created/"+category]++
}

func (r *stubRecorder) ListingMutation(op, result string) {
	r.counts[op+"/"+result]++
}

func (r *stubRecorder) ImageStored() {
	r.counts["image/stored"]++
}

func (r *stubRecorder) ImageDeleted(result string) {
	r.counts["image/deleted/"+result]++
}
