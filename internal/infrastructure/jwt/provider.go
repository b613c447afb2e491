package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims holds the session token payload.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens.
type Provider struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewProvider(secret string, expiry time.Duration) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if expiry <= 0 {
		return nil, errors.New("jwt expiry must be positive")
	}
	return &Provider{secret: []byte(secret), expiry: expiry, now: time.Now}, nil
}

// WithClock replaces the time source used for issuing and checking expiry.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// Sign returns a token for email/name and the instant it stops being accepted.
func (p *Provider) Sign(email, name string) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(p.expiry)
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks the signature and expiry and requires both identity claims.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Email == "" || claims.Name == "" {
		return nil, errors.New("token missing identity claims")
	}
	return claims, nil
}
