package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/models"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

// AuthService talks to the backend auth endpoints.
type AuthService struct {
	api       apiClient
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(api apiClient, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{api: api, validator: validate, logger: logger}
}

// Login exchanges credentials for tokens.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	var resp models.AuthResponse
	if err := s.api.Post(ctx, "auth/login", req, &resp); err != nil {
		return nil, err
	}
	if err := checkAuthResponse(resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns its tokens.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	var resp models.AuthResponse
	if err := s.api.Post(ctx, "auth/register", req, &resp); err != nil {
		return nil, err
	}
	if err := checkAuthResponse(resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the refresh token on the backend.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	req := models.LogoutRequest{RefreshToken: refreshToken}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrNoRefreshToken, "")
	}
	return s.api.Post(ctx, "auth/logout", req, nil)
}

func checkAuthResponse(resp models.AuthResponse) error {
	if resp.AccessToken == "" || resp.User.ID == "" {
		return appErrors.Clone(appErrors.ErrDecode, "auth response is missing tokens or user id")
	}
	return nil
}
