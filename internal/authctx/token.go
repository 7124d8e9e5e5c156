package authctx

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/antbox/antbox/internal/permission"
	"github.com/antbox/antbox/internal/result"
)

// Claims is the JWT payload carrying a resolved authentication context:
// tenant, email and groups, since Antbox principals are identified by
// email and group membership rather than a role list.
type Claims struct {
	Tenant string   `json:"tenant"`
	Email  string   `json:"email"`
	Groups []string `json:"groups"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens carrying an
// authentication context.
type TokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewTokenService builds a TokenService. expiration defaults to 24h when zero.
func NewTokenService(secret string, expiration time.Duration) *TokenService {
	if expiration == 0 {
		expiration = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), expiration: expiration, issuer: "antbox/authctx"}
}

// GenerateToken signs a bearer token for ctx.
func (s *TokenService) GenerateToken(ctx Context) (string, error) {
	now := time.Now()
	claims := Claims{
		Tenant: ctx.Tenant,
		Email:  ctx.Principal.Email,
		Groups: ctx.Principal.Groups,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   ctx.Principal.Email,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies tokenString and reconstructs its AuthenticationContext.
func (s *TokenService) ValidateToken(tokenString string) (Context, *result.Error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return Context{}, result.Unauthorized("invalid bearer token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Context{}, result.Unauthorized("invalid bearer token")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return Context{}, result.Unauthorized("bearer token has expired")
	}
	return Context{
		Tenant: claims.Tenant, Mode: ModeDirect,
		Principal: permission.Principal{Email: claims.Email, Groups: claims.Groups},
	}, nil
}

// newOpaqueSecret returns a random URL-safe token, used for ApiKey node
// secrets and refresh-style credentials.
func newOpaqueSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
