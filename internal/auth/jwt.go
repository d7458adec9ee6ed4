// Package auth verifies operation origins. An origin is a bearer token whose
// subject is the signing account.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

// JWTAuthenticator verifies HS256 tokens
type JWTAuthenticator struct {
	secret []byte
	issuer string
}

// Verify interface compliance
var _ ledger.Authenticator = (*JWTAuthenticator)(nil)

// NewJWTAuthenticator creates an authenticator for tokens signed with secret
func NewJWTAuthenticator(secret, issuer string) (*JWTAuthenticator, error) {
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	return &JWTAuthenticator{secret: []byte(secret), issuer: issuer}, nil
}

// Authenticate returns the account named by the token subject
func (a *JWTAuthenticator) Authenticate(ctx context.Context, origin ledger.Origin) (models.AccountID, error) {
	raw := strings.TrimSpace(string(origin))
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return "", fmt.Errorf("%w: missing token", ledger.ErrUnauthenticated)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ledger.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ledger.ErrUnauthenticated)
	}
	return models.AccountID(claims.Subject), nil
}

// Issue signs a token for account valid for ttl
func (a *JWTAuthenticator) Issue(account models.AccountID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(account),
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
