package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oltenita/imobilia-market/internal/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("super-secret", time.Hour)
	subject := primitive.NewObjectID().Hex()

	token, err := svc.Issue(subject)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != subject {
		t.Fatalf("subject mismatch: got %q want %q", got, subject)
	}
}

func TestJWTService_DefaultTTL(t *testing.T) {
	if got := NewJWTService("s", 0).TTL(); got != time.Hour {
		t.Fatalf("expected default ttl of 1h, got %v", got)
	}
}

func TestJWTService_ExpiryWindow(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	svc := NewJWTService("secret", ttl)
	svc.now = fixedClock(issued)
	token, err := svc.Issue(primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	cases := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"at issue", issued, true},
		{"mid window", issued.Add(30 * time.Minute), true},
		{"last second", issued.Add(ttl - time.Second), true},
		{"at expiry", issued.Add(ttl), false},
		{"after expiry", issued.Add(ttl + time.Minute), false},
	}

	for _, tc := range cases {
		svc.now = fixedClock(tc.at)
		_, err := svc.Verify(token)
		if tc.valid && err != nil {
			t.Errorf("%s: expected valid token, got %v", tc.name, err)
		}
		if !tc.valid && !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("%s: expected ErrTokenInvalid, got %v", tc.name, err)
		}
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("right-secret", time.Hour).Issue(primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewJWTService("wrong-secret", time.Hour).Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTService_Malformed(t *testing.T) {
	svc := NewJWTService("k", time.Hour)

	for _, token := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("token %q: expected ErrTokenInvalid, got %v", token, err)
		}
	}
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   primitive.NewObjectID().Hex(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewJWTService("k", time.Hour).Verify(unsigned); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTService_RejectsMissingExpiry(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: primitive.NewObjectID().Hex()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewJWTService("k", time.Hour).Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTService_RejectsMalformedSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewJWTService("k", time.Hour).Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := NewJWTService("k", time.Hour).Issue("alice"); err == nil {
		t.Fatalf("expected Issue to refuse a malformed subject")
	}
}
