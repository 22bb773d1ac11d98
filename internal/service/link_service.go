package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/models"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

// LinkService manages reference links on subject schedules.
type LinkService struct {
	api       apiClient
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLinkService constructs a LinkService.
func NewLinkService(api apiClient, validate *validator.Validate, logger *zap.Logger) *LinkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LinkService{api: api, validator: validate, logger: logger}
}

// List returns the links of one subject schedule.
func (s *LinkService) List(ctx context.Context, subjectScheduleID string) ([]models.ScheduleLink, error) {
	var out []models.ScheduleLink
	if err := s.api.Get(ctx, pathOf("link/subject-schedule", subjectScheduleID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a link.
func (s *LinkService) Create(ctx context.Context, req models.CreateLinkRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid link payload")
	}
	return s.api.Post(ctx, "link", req, nil)
}

// Update patches a link.
func (s *LinkService) Update(ctx context.Context, id string, req models.UpdateLinkRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid link update")
	}
	return s.api.Patch(ctx, pathOf("link", id), req, nil)
}

// Delete removes a link.
func (s *LinkService) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, pathOf("link", id), nil)
}
