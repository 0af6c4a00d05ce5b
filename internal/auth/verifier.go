package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/plateshare/plateshare/internal/model"
)

// ErrUnauthorized is returned for every verification failure: missing or
// malformed token, bad signature, expired, wrong issuer, missing email
// claim. Callers get no finer distinction; the reason is only logged.
var ErrUnauthorized = errors.New("unauthorized")

// Verifier checks a bearer token and returns the identity it carries.
type Verifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}

// tokenClaims are the claims the verifier inspects. The identity provider
// may include more; they are ignored.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenVerifier verifies HMAC-SHA256 signed tokens issued by the identity
// provider. An empty issuer disables the issuer check.
type TokenVerifier struct {
	signingKey []byte
	issuer     string
}

// NewTokenVerifier creates a TokenVerifier for the given signing key.
func NewTokenVerifier(signingKey, issuer string) *TokenVerifier {
	return &TokenVerifier{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// Verify parses and validates the token. On success it returns the identity
// carrying the email claim. Every failure wraps ErrUnauthorized so the
// caller can treat all of them as a single auth failure.
func (v *TokenVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.signingKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return nil, ErrUnauthorized
	}

	if claims.Email == "" {
		return nil, fmt.Errorf("%w: token has no email claim", ErrUnauthorized)
	}

	return &model.Identity{
		Email:   claims.Email,
		Subject: claims.Subject,
	}, nil
}

// TokenDigest returns a hex SHA-256 digest of the raw token. Used as the
// cache key for verified identities so the token itself is never stored.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
