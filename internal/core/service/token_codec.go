package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

// ErrMissingSigningKey indicates the codec was constructed without a
// secret. This is a deployment fault, not a request-level condition.
var ErrMissingSigningKey = errors.New("token codec: signing key is empty")

// TokenCodec signs and verifies HS256 bearer tokens carrying subject,
// role, and a type tag. The secret is injected at construction so tests
// can run distinct codecs side by side.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) (*TokenCodec, error) {
	if secret == "" {
		return nil, ErrMissingSigningKey
	}
	return &TokenCodec{secret: []byte(secret)}, nil
}

// Issue produces a signed token valid for ttl from now.
func (c *TokenCodec) Issue(subject, role string, typ domain.TokenType, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"type": string(typ),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks the signature, expiry, and type claim. Signature failures,
// expired tokens, and type mismatches all collapse to ErrAuthRejected so a
// probing client learns nothing about which check failed.
func (c *TokenCodec) Verify(token string, expected domain.TokenType) (*domain.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrAuthRejected
	}

	typ, _ := claims["type"].(string)
	if domain.TokenType(typ) != expected {
		return nil, domain.ErrAuthRejected
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrAuthRejected
	}
	role, _ := claims["role"].(string)

	out := &domain.TokenClaims{
		Subject: sub,
		Role:    role,
		Type:    expected,
	}
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return out, nil
}
