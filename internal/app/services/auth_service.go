package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/auth"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

// TokenIssuer issues signed token pairs
type TokenIssuer interface {
	GenerateTokenPair(userID int64, email string) (*auth.TokenPair, error)
	GetRefreshTokenExpiry() time.Time
}

// AuthService handles registration, login and token rotation
type AuthService struct {
	users    UserStore
	tokens   TokenStore
	profiles ProfileStore
	jwt      TokenIssuer
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenStore, profiles ProfileStore, jwt TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		profiles: profiles,
		jwt:      jwt,
		logger:   logger,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account with its profile and signs the user in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if !validation.IsStrongPassword(req.Password) {
		return nil, apperrors.NewValidationError("password", "password must be at least 8 characters and contain a letter and a digit")
	}
	if err := validation.RequireText("fullName", req.FullName); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		IsActive:     true,
	}
	profile := &models.Profile{
		Email:       user.Email,
		FullName:    strings.TrimSpace(req.FullName),
		CollegeName: strings.TrimSpace(req.CollegeName),
		Skills:      []string{},
		Interests:   []string{},
	}

	userID, err := s.users.CreateWithProfile(ctx, user, profile)
	if err != nil {
		return nil, err
	}
	user.ID = userID
	profile.UserID = userID

	token, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Msg("User registered")
	return &dto.AuthResponse{
		User:  dto.UserResponse{ID: user.ID, Email: user.Email, Profile: dto.NewProfileResponse(profile, true)},
		Token: *token,
	}, nil
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Ensure(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User:  dto.UserResponse{ID: user.ID, Email: user.Email, Profile: dto.NewProfileResponse(profile, true)},
		Token: *token,
	}, nil
}

// RefreshToken exchanges a usable refresh token for a new pair and revokes the old one
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.GetToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored.IsRevoked {
		s.logger.Warn().Int64("userID", stored.UserID).Msg("Revoked refresh token presented")
		return nil, apperrors.ErrTokenRevoked
	}
	if !stored.IsUsable(s.now()) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	pair, err := s.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}
	if err := s.tokens.RotateToken(ctx, refreshToken, pair.RefreshToken, user.ID, s.jwt.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	resp := newTokenResponse(pair)
	return &resp, nil
}

// Logout revokes a refresh token belonging to userID
func (s *AuthService) Logout(ctx context.Context, userID int64, refreshToken string) error {
	stored, err := s.tokens.GetToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if stored.UserID != userID {
		return apperrors.ErrTokenInvalid
	}
	if stored.IsRevoked {
		return nil
	}
	return s.tokens.RevokeToken(ctx, refreshToken)
}

// Me returns the authenticated account and its profile
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.Ensure(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &dto.UserResponse{ID: user.ID, Email: user.Email, Profile: dto.NewProfileResponse(profile, true)}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	pair, err := s.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}
	if err := s.tokens.CreateToken(ctx, pair.RefreshToken, user.ID, s.jwt.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}
	resp := newTokenResponse(pair)
	return &resp, nil
}

func newTokenResponse(pair *auth.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresIn:        pair.ExpiresIn,
		RefreshExpiresIn: pair.RefreshExpiresIn,
		TokenType:        "Bearer",
	}
}
