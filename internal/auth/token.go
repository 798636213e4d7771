// Package auth covers the boundary with the identity world: JWT
// access/refresh issuance and verification, and the Kakao OAuth code
// exchange. The scheduling core never sees any of this; it receives an
// already-resolved user id.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"weband-backend/config"
	"weband-backend/internal/model"
)

// ErrInvalidToken covers every way a presented token can be unusable:
// bad signature, wrong signing method, expired, malformed.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Claims is the payload carried by both access and refresh tokens:
// the minimum needed to identify the account.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies access and refresh tokens with
// separate HMAC secrets.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService builds a token service from the JWT configuration.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

// IssueAccess signs a short-lived access token for the user.
func (t *TokenService) IssueAccess(u model.User) (string, error) {
	return t.sign(u, t.accessSecret, t.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the user.
func (t *TokenService) IssueRefresh(u model.User) (string, error) {
	return t.sign(u, t.refreshSecret, t.refreshTTL)
}

func (t *TokenService) sign(u model.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccess verifies an access token and returns its claims.
func (t *TokenService) ParseAccess(token string) (*Claims, error) {
	return parse(token, t.accessSecret)
}

// ParseRefresh verifies a refresh token and returns its claims.
func (t *TokenService) ParseRefresh(token string) (*Claims, error) {
	return parse(token, t.refreshSecret)
}

func parse(token string, secret []byte) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
