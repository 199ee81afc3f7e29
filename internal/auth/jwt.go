// Package auth resolves the acting user from bearer tokens.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/casedata-runtime/internal/domain"
)

// JWTManager validates HS256 access tokens issued by the identity provider
// and can mint tokens for local tooling and tests.
type JWTManager struct {
	secret []byte
	issuer string
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type userClaims struct {
	jwt.RegisteredClaims
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
}

// GenerateAccessToken creates a signed HS256 JWT for u valid for ttl.
func (m *JWTManager) GenerateAccessToken(u domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := userClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		GivenName:  u.FirstName,
		FamilyName: u.LastName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates an access token and returns the user it names.
func (m *JWTManager) ValidateToken(tokenString string) (domain.User, error) {
	if tokenString == "" {
		return domain.User{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &userClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return domain.User{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*userClaims)
	if !ok || !token.Valid {
		return domain.User{}, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return domain.User{}, fmt.Errorf("token has no subject")
	}

	return domain.User{
		ID:        claims.Subject,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
	}, nil
}
