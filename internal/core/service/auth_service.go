package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oltenita/imobilia-market/internal/core/domain"
	"github.com/oltenita/imobilia-market/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	rec    ports.Recorder
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService wires the auth use cases. A nil rec records nothing.
func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, rec ports.Recorder, log zerolog.Logger) *AuthService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, rec: rec, log: log}
}

// Register stores a new identity with a hashed password. The email is kept
// exactly as given; uniqueness is case-sensitive.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		s.rec.Registration("invalid")
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		s.rec.Registration("exists")
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		s.rec.Registration("error")
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.rec.Registration("invalid")
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.rec.Registration("exists")
			return nil, err
		}
		s.rec.Registration("error")
		return nil, fmt.Errorf("register: %w", err)
	}

	s.rec.Registration("ok")
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login checks the credentials and returns a signed token for the identity.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		s.rec.Login("invalid")
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Pay for a comparison anyway so both failures take the same time.
			s.hasher.Verify(password, s.dummyDigest())
			s.rec.Login("not_found")
			return "", nil, err
		}
		s.rec.Login("error")
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.rec.Login("invalid")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.rec.Login("error")
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.rec.Login("ok")
	return token, user, nil
}

func (s *AuthService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("imobilia-market-placeholder")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to build placeholder password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
