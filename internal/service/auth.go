package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/musicbesties/api/internal/identity"
	"github.com/musicbesties/api/internal/model"
	"github.com/musicbesties/api/internal/store"
	"github.com/musicbesties/api/pkg/logger"
)

const minPasswordLength = 6

// AuthService handles signup, login and the current user's profile.
type AuthService struct {
	identity identity.Provider
	store    store.Store
	logger   *logger.Logger
	now      func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(provider identity.Provider, st store.Store, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthService{
		identity: provider,
		store:    st,
		logger:   log.Named("auth"),
		now:      time.Now,
	}
}

// SignUp registers a user and creates their profile row.
func (s *AuthService) SignUp(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, validationError("a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	}
	if username == "" {
		return nil, validationError("username is required")
	}

	session, err := s.identity.SignUp(ctx, email, req.Password, username)
	if err != nil {
		if errors.Is(err, identity.ErrUserExists) || errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, validationError("%v", err)
		}
		s.logger.Error("signup failed", zap.String("email", email), zap.Error(err))
		return nil, upstreamError("signup", err)
	}

	now := s.now().UTC()
	profile := &model.Profile{
		ID:        session.User.ID,
		Username:  username,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		// The account exists either way; the profile can be created later.
		s.logger.Error("failed to create profile",
			zap.String("user_id", session.User.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("user registered", zap.String("user_id", session.User.ID))

	return &model.AuthResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         &model.Profile{ID: session.User.ID, Username: username},
		Message:      "User registered successfully",
	}, nil
}

// Login authenticates with email and password.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, validationError("email and password are required")
	}

	session, err := s.identity.SignIn(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) || errors.Is(err, identity.ErrInvalidToken) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("login failed", zap.Error(err))
		return nil, upstreamError("login", err)
	}

	profile, err := s.store.GetProfile(ctx, session.User.ID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		profile = &model.Profile{ID: session.User.ID}
	default:
		s.logger.Error("failed to fetch profile", zap.String("user_id", session.User.ID), zap.Error(err))
		return nil, upstreamError("fetch profile", err)
	}

	return &model.AuthResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         profile,
		Message:      "Login successful",
	}, nil
}

// Logout revokes the session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrAuthorizationRequired
	}
	if err := s.identity.SignOut(ctx, token); err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return ErrAuthorizationRequired
		}
		s.logger.Error("logout failed", zap.Error(err))
		return upstreamError("logout", err)
	}
	return nil
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrAuthorizationRequired
	}
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to fetch profile", zap.String("user_id", userID), zap.Error(err))
		return nil, upstreamError("fetch profile", err)
	}
	return profile, nil
}
