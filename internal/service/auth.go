package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dilekiremozbay/2homework/internal/models"
	"github.com/dilekiremozbay/2homework/internal/storage"
	"github.com/dilekiremozbay/2homework/internal/util"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAccountDeleted      = errors.New("account deleted")
)

// AuthService owns the refresh-token lifecycle: issue, store with the FIFO
// bound, exchange, and access-token verification against the session
// fingerprint.
type AuthService struct {
	storage    storage.Storage
	sessions   storage.SessionStore
	tokens     *TokenService
	verifier   *CredentialVerifier
	sessionTTL time.Duration
	log        *zap.SugaredLogger
}

func NewAuthService(
	s storage.Storage,
	sessions storage.SessionStore,
	tokens *TokenService,
	verifier *CredentialVerifier,
	sessionCfg *util.SessionConfig,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		storage:    s,
		sessions:   sessions,
		tokens:     tokens,
		verifier:   verifier,
		sessionTTL: sessionCfg.TTL,
		log:        log,
	}
}

// Register creates the user record, then issues and stores an initial token
// pair the way login does. A failure after the user row is committed leaves
// the record without a usable refresh token; the next login repairs that.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	hashed, err := HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := s.storage.CreateUser(ctx, &models.User{
		Username:  req.Username,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	if _, err := s.issueTokenPair(ctx, user.ID, ""); err != nil {
		return err
	}
	return nil
}

// Login verifies credentials, issues a token pair with the browser
// fingerprint bound into the access token, and opens a server-side session
// holding that fingerprint. Returns the pair and the new session id.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, fingerprint string) (*models.TokenPair, string, error) {
	user, err := s.verifier.Verify(ctx, req.Username, req.Password)
	if err != nil {
		return nil, "", err
	}

	pair, err := s.issueTokenPair(ctx, user.ID, fingerprint)
	if err != nil {
		return nil, "", err
	}

	sessionID := uuid.NewString()
	if err := s.sessions.CreateSession(ctx, sessionID, fingerprint, s.sessionTTL); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	return pair, sessionID, nil
}

// Refresh exchanges a refresh token for a new access token. The presented
// token must verify and must still be present in the user's stored list;
// tokens evicted by the FIFO bound are rejected even when their signature
// and expiry are otherwise fine. No rotation happens here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	entries, err := s.storage.GetRefreshTokens(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("get refresh tokens: %w", err)
	}
	user.Tokens = entries

	if !user.HasRefreshToken(refreshToken) {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.CreateAccessToken(user.ID, "", time.Now())
	if err != nil {
		return "", fmt.Errorf("create access token: %w", err)
	}
	return accessToken, nil
}

// Authorize verifies the access token and, when the token carries a
// fingerprint, compares it against the one held by the caller's session.
// Tokens without a fingerprint claim skip the comparison.
func (s *AuthService) Authorize(ctx context.Context, accessToken, sessionFingerprint string) (*AccessClaims, error) {
	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		s.log.Debugw("access token rejected", "error", err)
		return nil, ErrUnauthorized
	}

	if claims.Fingerprint != "" && claims.Fingerprint != sessionFingerprint {
		return nil, ErrUnauthorized
	}

	return claims, nil
}

// Me returns the public projection for the token's user, or
// ErrAccountDeleted when the record no longer exists.
func (s *AuthService) Me(ctx context.Context, claims *AccessClaims) (*models.UserProjection, error) {
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrAccountDeleted
		}
		return nil, err
	}

	projection := models.NewUserProjection(user)
	return &projection, nil
}

func (s *AuthService) Users(ctx context.Context) ([]models.UserProjection, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	projections := make([]models.UserProjection, 0, len(users))
	for i := range users {
		projections = append(projections, models.NewUserProjection(&users[i]))
	}
	return projections, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteSession(ctx, sessionID)
}

// SessionFingerprint resolves the fingerprint recorded for the session, or
// an empty string when no session exists.
func (s *AuthService) SessionFingerprint(ctx context.Context, sessionID string) string {
	if sessionID == "" {
		return ""
	}
	fingerprint, err := s.sessions.GetFingerprint(ctx, sessionID)
	if err != nil {
		return ""
	}
	return fingerprint
}

// issueTokenPair signs both tokens and persists the refresh token before
// reporting success. The store call enforces the FIFO bound.
func (s *AuthService) issueTokenPair(ctx context.Context, userID int64, fingerprint string) (*models.TokenPair, error) {
	now := time.Now()

	accessToken, err := s.tokens.CreateAccessToken(userID, fingerprint, now)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshToken, err := s.tokens.CreateRefreshToken(userID, now)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	if err := s.storage.StoreRefreshToken(ctx, userID, refreshToken, now); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
