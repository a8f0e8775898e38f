package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

func newTestCodec(t *testing.T, secret string) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(secret)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	return codec
}

func TestTokenCodec_EmptySecret(t *testing.T) {
	if _, err := NewTokenCodec(""); !errors.Is(err, ErrMissingSigningKey) {
		t.Fatalf("expected ErrMissingSigningKey, got %v", err)
	}
}

func TestTokenCodec_IssueVerify_Roundtrip(t *testing.T) {
	codec := newTestCodec(t, "test-secret")

	token, err := codec.Issue("alice", domain.RoleUser, domain.TokenAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := codec.Verify(token, domain.TokenAccess)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if claims.Role != domain.RoleUser {
		t.Fatalf("expected role %s, got %q", domain.RoleUser, claims.Role)
	}
	if claims.Type != domain.TokenAccess {
		t.Fatalf("expected type ACCESS, got %s", claims.Type)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Fatalf("expiry %v not after issuance %v", claims.ExpiresAt, claims.IssuedAt)
	}
}

func TestTokenCodec_TypeMismatch_BothDirections(t *testing.T) {
	codec := newTestCodec(t, "test-secret")

	access, _ := codec.Issue("alice", domain.RoleUser, domain.TokenAccess, time.Hour)
	refresh, _ := codec.Issue("alice", "", domain.TokenRefresh, time.Hour)

	if _, err := codec.Verify(access, domain.TokenRefresh); !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := codec.Verify(refresh, domain.TokenAccess); !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("refresh token accepted as access: %v", err)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := newTestCodec(t, "test-secret")

	token, err := codec.Issue("alice", domain.RoleUser, domain.TokenAccess, -time.Minute)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := codec.Verify(token, domain.TokenAccess); !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected for expired token, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer := newTestCodec(t, "secret-a")
	verifier := newTestCodec(t, "secret-b")

	token, _ := issuer.Issue("alice", domain.RoleUser, domain.TokenAccess, time.Hour)
	if _, err := verifier.Verify(token, domain.TokenAccess); !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected for foreign signature, got %v", err)
	}
}

func TestTokenCodec_VerifyIdempotent(t *testing.T) {
	codec := newTestCodec(t, "test-secret")

	token, _ := codec.Issue("alice", domain.RoleAdmin, domain.TokenAccess, time.Hour)

	first, err := codec.Verify(token, domain.TokenAccess)
	if err != nil {
		t.Fatalf("first Verify failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		claims, err := codec.Verify(token, domain.TokenAccess)
		if err != nil {
			t.Fatalf("Verify #%d failed: %v", i+2, err)
		}
		if claims.Subject != first.Subject || claims.Role != first.Role {
			t.Fatalf("Verify #%d returned different claims: %+v vs %+v", i+2, claims, first)
		}
	}
}

func TestTokenCodec_Garbage(t *testing.T) {
	codec := newTestCodec(t, "test-secret")
	if _, err := codec.Verify("not.a.token", domain.TokenAccess); !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected for garbage token, got %v", err)
	}
}
