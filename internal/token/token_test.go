package token

import (
	"testing"
	"time"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("super-secret"), time.Hour)
	userID := "64f1b2c3d4e5f60718293a4b"

	tok, err := svc.Issue(userID)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, userID)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatalf("expected issued-at and expiry claims to be set")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("secret"), -1*time.Second)
	tok, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := svc.Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewService([]byte("right-secret"), time.Hour).Issue("u2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewService([]byte("wrong-secret"), time.Hour).Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("k"), time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := svc.Verify(tok); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}

func TestDefaultTTL_IsSevenDays(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("secret"), 0)
	tok, err := svc.Issue("u3")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	claims, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}

	got := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if got != 7*24*time.Hour {
		t.Fatalf("expected 7 day validity, got %v", got)
	}
}
