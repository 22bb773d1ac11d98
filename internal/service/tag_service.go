package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/models"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

// TagService manages tags on subject schedules.
type TagService struct {
	api       apiClient
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTagService constructs a TagService.
func NewTagService(api apiClient, validate *validator.Validate, logger *zap.Logger) *TagService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TagService{api: api, validator: validate, logger: logger}
}

// List returns the tags of one subject schedule.
func (s *TagService) List(ctx context.Context, subjectScheduleID string) ([]models.Tag, error) {
	var out []models.Tag
	if err := s.api.Get(ctx, pathOf("tag/subject-schedule", subjectScheduleID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create attaches a new tag to one subject schedule.
func (s *TagService) Create(ctx context.Context, text, subjectScheduleID string) error {
	req := models.CreateTagRequest{Text: text, SubjectSchedules: []string{subjectScheduleID}}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tag payload")
	}
	return s.api.Post(ctx, "tag", req, nil)
}

// Delete removes a tag.
func (s *TagService) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, pathOf("tag", id), nil)
}
