package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dilekiremozbay/2homework/internal/util"
)

var (
	ErrTokenInvalid         = errors.New("token invalid")
	ErrInvalidUserID        = errors.New("invalid userID")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
)

// TokenService signs and verifies the access/refresh token pair. Each kind
// carries its own secret and TTL.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(cfg *util.TokenConfig) *TokenService {
	return &TokenService{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

// AccessClaims embed the user identity and, for login-issued tokens only,
// the browser fingerprint captured at session start.
type AccessClaims struct {
	UserID      string `json:"uid"`
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// CreateAccessToken creates an HS512 signed access token. An empty
// fingerprint produces an unbound token (the refresh path issues these).
func (ts *TokenService) CreateAccessToken(userID int64, fingerprint string, now time.Time) (string, error) {
	claims := &AccessClaims{
		UserID:      strconv.FormatInt(userID, 10),
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(ts.accessSecret)
	if err != nil {
		return "", fmt.Errorf("signed string: %w", err)
	}

	return signedToken, nil
}

func (ts *TokenService) CreateRefreshToken(userID int64, now time.Time) (string, error) {
	// The jti keeps two tokens issued within the same second distinct;
	// the stored-list membership test compares exact values.
	claims := &refreshClaims{
		UserID: strconv.FormatInt(userID, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.refreshTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(ts.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("signed string: %w", err)
	}

	return signedToken, nil
}

// ParseAccessToken verifies signature and expiry and returns the claims.
func (ts *TokenService) ParseAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := ts.parse(token, claims, ts.accessSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseRefreshToken verifies signature and expiry and returns the embedded
// user id.
func (ts *TokenService) ParseRefreshToken(token string) (int64, error) {
	claims := &refreshClaims{}
	if err := ts.parse(token, claims, ts.refreshSecret); err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return 0, ErrInvalidUserID
	}
	return userID, nil
}

func (ts *TokenService) parse(token string, claims jwt.Claims, secret []byte) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithLeeway(util.JWTLeeWay),
		jwt.WithExpirationRequired(),
	}

	parsedToken, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
				return nil, ErrInvalidSigningMethod
			}
			return secret, nil
		},
		opts...,
	)
	if err != nil {
		return fmt.Errorf("parse token claims: %w", err)
	}

	if parsedToken == nil || !parsedToken.Valid {
		return ErrTokenInvalid
	}

	return nil
}
