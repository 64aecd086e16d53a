// Package jwtauth verifica y emite tokens HS256 firmados con un secreto compartido.
package jwtauth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"

	"pet-care-simulator/internal/ports/auth"
)

const DefaultTTL = 24 * time.Hour

type Config struct {
	Secret string
	Issuer string
	// TTL de los tokens emitidos con Sign.
	TTL time.Duration
	Now func() time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

// Verifier implementa auth.AuthVerifier.
type Verifier struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func New(cfg Config) (*Verifier, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("jwt secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Verifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(cfg.Issuer),
		ttl:    ttl,
		now:    now,
	}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, oops.Code("invalid_token").With("reason", err.Error()).Wrap(auth.ErrInvalidToken)
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return auth.Claims{}, oops.Code("invalid_token").With("reason", "missing sub").Wrap(auth.ErrInvalidToken)
	}

	return auth.Claims{
		UserID:   userID,
		Email:    claims.Email,
		TenantID: claims.TenantID,
	}, nil
}

// Sign emite un token para c. Se usa desde el CLI para pruebas locales.
func (v *Verifier) Sign(c auth.Claims) (string, error) {
	userID := strings.TrimSpace(c.UserID)
	if userID == "" {
		return "", oops.Code("validation").Errorf("user id is required")
	}

	now := v.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
		Email:    strings.TrimSpace(c.Email),
		TenantID: strings.TrimSpace(c.TenantID),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", oops.With("user_id", userID).Wrapf(err, "sign token")
	}
	return signed, nil
}
