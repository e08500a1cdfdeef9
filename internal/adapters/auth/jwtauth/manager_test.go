package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"newleash/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123"

func TestIssueVerify_RoundTrip(t *testing.T) {
	m, err := New(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tok, err := m.Issue(context.Background(), auth.Claims{UserID: "u-1", Username: "milo", Email: "milo@example.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	c, err := m.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if c.UserID != "u-1" || c.Username != "milo" || c.Email != "milo@example.com" {
		t.Errorf("claims = %+v", c)
	}
	if c.ExpiresAt.IsZero() {
		t.Error("expected ExpiresAt to be set")
	}
}

func TestVerify_Expired(t *testing.T) {
	m, _ := New(testSecret, time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := m.Issue(context.Background(), auth.Claims{UserID: "u-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	m.now = time.Now
	if _, err := m.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	a, _ := New(testSecret, time.Hour)
	b, _ := New("another-secret-of-16+", time.Hour)

	tok, _ := a.Issue(context.Background(), auth.Claims{UserID: "u-1"})
	if _, err := b.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	m, _ := New(testSecret, time.Hour)

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u-1",
		Issuer:    DefaultIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if _, err := m.Verify(context.Background(), s); err == nil {
		t.Fatal("expected alg=none token to be rejected")
	}
}

func TestNew_WeakSecret(t *testing.T) {
	if _, err := New("short", time.Hour); !errors.Is(err, ErrWeakSecret) {
		t.Fatalf("err = %v, want ErrWeakSecret", err)
	}
	if _, err := NewEphemeral(0); err != nil {
		t.Fatalf("NewEphemeral: %v", err)
	}
}
