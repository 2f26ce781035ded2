package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "ugc-marketplace"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is rendered as {"refresh": ..., "access": ...}.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// TokenManager signs and verifies HS256 access and refresh tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager creates a manager. Non-positive TTLs fall back to 15m
// for access and 7 days for refresh tokens.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *TokenManager) Issue(userID uuid.UUID) (TokenPair, error) {
	access, err := m.sign(userID, TokenTypeAccess, m.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.sign(userID, TokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Refresh: refresh, Access: access}, nil
}

func (m *TokenManager) sign(userID uuid.UUID, typ TokenType, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    userID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies signature, expiry and the expected token type.
func (m *TokenManager) Parse(tokenStr string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
