package service

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/models"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

// TimetableService reads the external, unauthenticated timetable API. Every payload is wrapped
// in a {"data": ...} envelope.
type TimetableService struct {
	api    apiClient
	logger *zap.Logger
}

// NewTimetableService constructs a TimetableService over the external client.
func NewTimetableService(api apiClient, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{api: api, logger: logger}
}

// GroupLessons returns the two-week timetable of a group, keyed by its external id.
func (s *TimetableService) GroupLessons(ctx context.Context, externalID string) (models.Schedule, error) {
	if externalID == "" {
		return models.Schedule{}, appErrors.Clone(appErrors.ErrPreconditionFailed, "group has no external schedule id")
	}
	var out envelope[models.Schedule]
	err := s.api.Get(ctx, "schedule/lessons?"+url.Values{"groupId": {externalID}}.Encode(), &out)
	return out.Data, err
}

// LecturerLessons returns the two-week timetable of a lecturer, keyed by their external id.
func (s *TimetableService) LecturerLessons(ctx context.Context, externalID string) (models.Schedule, error) {
	if externalID == "" {
		return models.Schedule{}, appErrors.Clone(appErrors.ErrPreconditionFailed, "teacher has no external schedule id")
	}
	var out envelope[models.Schedule]
	err := s.api.Get(ctx, "schedule/lecturer?"+url.Values{"lecturerId": {externalID}}.Encode(), &out)
	return out.Data, err
}

// GroupExams returns the exam sessions of a group, keyed by its external id.
func (s *TimetableService) GroupExams(ctx context.Context, externalID string) ([]models.ExamSession, error) {
	if externalID == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "group has no external schedule id")
	}
	var out envelope[[]models.ExamSession]
	if err := s.api.Get(ctx, "exams/group?"+url.Values{"groupId": {externalID}}.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CurrentTime returns the current teaching week, day and lesson.
func (s *TimetableService) CurrentTime(ctx context.Context) (models.CurrentTime, error) {
	var out envelope[models.CurrentTime]
	err := s.api.Get(ctx, "time/current", &out)
	return out.Data, err
}
