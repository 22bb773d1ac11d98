package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/models"
)

// SubjectScheduleService reads the backend's personalized subject schedules.
type SubjectScheduleService struct {
	api    apiClient
	logger *zap.Logger
}

// NewSubjectScheduleService constructs a SubjectScheduleService.
func NewSubjectScheduleService(api apiClient, logger *zap.Logger) *SubjectScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectScheduleService{api: api, logger: logger}
}

// ForGroup lists the subject schedules of a group.
func (s *SubjectScheduleService) ForGroup(ctx context.Context, groupID string) ([]models.SubjectSchedule, error) {
	var out []models.SubjectSchedule
	if err := s.api.Get(ctx, pathOf("subject-schedule/group", groupID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ForTeacher lists the subject schedules of a teacher.
func (s *SubjectScheduleService) ForTeacher(ctx context.Context, teacherID string) ([]models.SubjectSchedule, error) {
	var out []models.SubjectSchedule
	if err := s.api.Get(ctx, pathOf("subject-schedule/teacher", teacherID), &out); err != nil {
		return nil, err
	}
	return out, nil
}
