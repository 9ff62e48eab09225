package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Token is the credential handed back on register, login and renew.
type Token struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

type tokenClaims struct {
	Email  string            `json:"email"`
	Claims map[string]string `json:"claims,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	key      []byte
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenIssuer(key, issuer string, lifetime time.Duration) *TokenIssuer {
	return &TokenIssuer{
		key:      []byte(key),
		issuer:   issuer,
		lifetime: lifetime,
		now:      time.Now,
	}
}

func (t *TokenIssuer) Issue(userID, email string, claims map[string]string) (Token, error) {
	now := t.now().UTC()
	expiration := now.Add(t.lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email:  email,
		Claims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiration),
		},
	})

	signed, err := token.SignedString(t.key)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Token{Token: signed, Expiration: expiration}, nil
}

// Parse verifies raw and returns the authenticated identity it carries.
func (t *TokenIssuer) Parse(raw string) (Identity, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return t.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Anonymous(), fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Claims == nil {
		claims.Claims = map[string]string{}
	}

	return Identity{
		Authenticated: true,
		UserID:        claims.Subject,
		Email:         claims.Email,
		Claims:        claims.Claims,
	}, nil
}
