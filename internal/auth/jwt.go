// Package auth verifies session tokens issued by the hosted auth service.
package auth

import (
	"context"
	"errors"
	"time"

	"tablekart/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSubject   = errors.New("missing subject in claims")
	ErrNotRecovery      = errors.New("link is not a password recovery link")
)

// AppMetadata is the server-controlled part of the session claims.
type AppMetadata struct {
	Role model.Role `json:"role,omitempty"`
}

// Claims are the session token claims the platform relies on.
type Claims struct {
	jwt.RegisteredClaims
	Email       string      `json:"email"`
	AppMetadata AppMetadata `json:"app_metadata"`
}

// Principal is the authenticated caller.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   model.Role
	Token  string
}

// IsSuperadmin reports whether the caller has the platform role.
func (p Principal) IsSuperadmin() bool {
	return p.Role == model.RoleSuperadmin
}

// Verifier validates HS256 session tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify validates tokenString and returns the caller it identifies.
// Tokens without a role claim default to restaurant owner.
func (v *Verifier) Verify(tokenString string) (*Principal, error) {
	claims, err := v.parse(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrMissingSubject
	}

	role := claims.AppMetadata.Role
	if role == "" {
		role = model.RoleRestaurantOwner
	}

	return &Principal{
		UserID: userID,
		Email:  claims.Email,
		Role:   role,
		Token:  tokenString,
	}, nil
}

func (v *Verifier) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Sign issues a token with the same shape as the auth service. It backs
// local tooling and tests.
func Sign(secret string, userID uuid.UUID, email string, role model.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       email,
		AppMetadata: AppMetadata{Role: role},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type principalKey struct{}

// WithPrincipal stores the caller in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the caller stored by WithPrincipal.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
