package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealwise/deal-assistant/internal/domain/entities"
	"github.com/dealwise/deal-assistant/internal/domain/repositories"
	"github.com/dealwise/deal-assistant/internal/infrastructure/external/oauth"
	"github.com/dealwise/deal-assistant/pkg/jwt"
)

const providerGoogle = "google"

// TokenPair is what a successful login or refresh hands back to the client
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// OAuthService implements Google sign-in with JWT sessions. The first login
// of a brand-new user provisions a tenant for them.
type OAuthService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	google   *oauth.GoogleProvider
	states   *oauth.StateManager
	jwt      *jwt.Manager
	logger   *zap.Logger
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(
	users repositories.UserRepository,
	sessions repositories.SessionRepository,
	google *oauth.GoogleProvider,
	states *oauth.StateManager,
	jwtManager *jwt.Manager,
	logger *zap.Logger,
) *OAuthService {
	return &OAuthService{
		users:    users,
		sessions: sessions,
		google:   google,
		states:   states,
		jwt:      jwtManager,
		logger:   logger,
	}
}

// LoginURL returns the Google consent URL with a one-time CSRF state
func (s *OAuthService) LoginURL(ctx context.Context) (string, error) {
	state, err := s.states.GenerateState(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return s.google.GetAuthURL(state), nil
}

// HandleCallback finishes the OAuth dance: it validates the state, resolves
// the Google identity to a user (creating one on first login), and opens a
// session.
func (s *OAuthService) HandleCallback(ctx context.Context, state, code string) (*TokenPair, *entities.User, error) {
	if !s.states.ValidateState(ctx, state) {
		return nil, nil, entities.ErrOAuthStateMismatch
	}

	token, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}
	info, err := s.google.GetUserInfo(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	if !info.VerifiedEmail {
		return nil, nil, fmt.Errorf("%w: google email not verified", entities.ErrUnauthorized)
	}

	user, err := s.resolveUser(ctx, info)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, entities.ErrUserNotActive
	}

	if token.RefreshToken != "" {
		user.OAuthRefreshToken = &token.RefreshToken
	}
	user.UpdateLastLogin()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// resolveUser maps a Google identity to a user. Matching order: OAuth subject,
// then email (linking a pre-invited user), then a fresh user with a new tenant.
func (s *OAuthService) resolveUser(ctx context.Context, info *oauth.GoogleUserInfo) (*entities.User, error) {
	user, err := s.users.GetByOAuthID(ctx, providerGoogle, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, entities.ErrUserNotFound) {
		return nil, err
	}

	user, err = s.users.GetByEmail(ctx, info.Email)
	if err == nil {
		provider := providerGoogle
		oauthID := info.ID
		user.OAuthProvider = &provider
		user.OAuthID = &oauthID
		return user, nil
	}
	if !errors.Is(err, entities.ErrUserNotFound) {
		return nil, err
	}

	user = entities.NewOAuthUser(info.Email, info.Name, providerGoogle, info.ID)
	if info.Picture != "" {
		user.AvatarURL = &info.Picture
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("provisioned tenant for first-time user",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))
	return user, nil
}

func (s *OAuthService) openSession(ctx context.Context, user *entities.User) (*TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.TenantID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	hash, err := s.jwt.HashToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session := entities.NewSession(user.ID, hash, time.Now().Add(s.jwt.GetRefreshExpiry()))
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwt.GetAccessExpiry().Seconds()),
	}, nil
}

// Refresh rotates a refresh token: the presented session is revoked and a new
// one is opened.
func (s *OAuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}
	hash, err := s.jwt.HashToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByTokenHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID || !session.IsValid() {
		return nil, entities.ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, entities.ErrUserNotActive
	}

	now := time.Now()
	session.RevokedAt = &now
	session.LastUsedAt = &now
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user)
}

// Logout revokes the session behind the presented refresh token
func (s *OAuthService) Logout(ctx context.Context, refreshToken string) error {
	hash, err := s.jwt.HashToken(refreshToken)
	if err != nil {
		return err
	}
	session, err := s.sessions.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	now := time.Now()
	session.RevokedAt = &now
	return s.sessions.Update(ctx, session)
}

// Me returns the profile of the authenticated user
func (s *OAuthService) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return s.users.GetByID(ctx, userID)
}
