package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/models"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

// UserService reads and patches the signed-in user's profile.
type UserService struct {
	api       apiClient
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(api apiClient, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{api: api, validator: validate, logger: logger}
}

// Profile fetches the user's profile.
func (s *UserService) Profile(ctx context.Context, userID string) (models.Profile, error) {
	if userID == "" {
		return models.Profile{}, appErrors.Clone(appErrors.ErrNoUserID, "")
	}
	var resp models.ProfileResponse
	if err := s.api.Get(ctx, pathOf("user", userID), &resp); err != nil {
		return models.Profile{}, err
	}
	return resp.ToProfile(), nil
}

// UpdateProfile applies a partial update and returns the profile the backend answered with.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (models.Profile, error) {
	if userID == "" {
		return models.Profile{}, appErrors.Clone(appErrors.ErrNoUserID, "")
	}
	if err := s.validator.Struct(update); err != nil {
		return models.Profile{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile update")
	}
	var resp models.ProfileResponse
	if err := s.api.Patch(ctx, pathOf("user", userID), update, &resp); err != nil {
		return models.Profile{}, err
	}
	return resp.ToProfile(), nil
}

// SaveHiddenSubjects replaces the user's hidden subject list.
func (s *UserService) SaveHiddenSubjects(ctx context.Context, userID string, hidden []string) error {
	if userID == "" {
		return appErrors.Clone(appErrors.ErrNoUserID, "")
	}
	if hidden == nil {
		hidden = []string{}
	}
	return s.api.Patch(ctx, pathOf("user", userID), models.HiddenSubjectsUpdate{HiddenSubjects: hidden}, nil)
}
