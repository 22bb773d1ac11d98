package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/models"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

// CommentService manages comments on subject schedules.
type CommentService struct {
	api       apiClient
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCommentService constructs a CommentService.
func NewCommentService(api apiClient, validate *validator.Validate, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CommentService{api: api, validator: validate, logger: logger}
}

// List returns the comments of one subject schedule.
func (s *CommentService) List(ctx context.Context, subjectScheduleID string) ([]models.Comment, error) {
	var out []models.Comment
	if err := s.api.Get(ctx, pathOf("comment/subject-schedule", subjectScheduleID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a comment. req.User must be the signed-in user.
func (s *CommentService) Create(ctx context.Context, req models.CreateCommentRequest) error {
	if req.User == "" {
		return appErrors.Clone(appErrors.ErrNoUserID, "")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}
	return s.api.Post(ctx, "comment", req, nil)
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, pathOf("comment", id), nil)
}
