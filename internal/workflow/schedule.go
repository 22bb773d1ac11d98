package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/saga"
	"github.com/noah-isme/schedule-sync/internal/state"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

func (w *workflows) registerSchedule(o *Orchestrator) {
	saga.TakeEvery(o, "group-schedule", w.fetchGroupSchedule)
	saga.TakeEvery(o, "teacher-schedule", w.fetchTeacherSchedule)
	saga.TakeEvery(o, "group-week", func(ctx context.Context, fx *Effects, _ state.GroupScheduleRequested) {
		w.resolveWeek(ctx, fx)
	})
	saga.TakeEvery(o, "teacher-week", func(ctx context.Context, fx *Effects, _ state.TeacherScheduleRequested) {
		w.resolveWeek(ctx, fx)
	})
	saga.TakeEvery(o, "exam-sessions", w.fetchExamSessions)
	saga.TakeEvery(o, "subject-schedule", w.fetchSubjectSchedule)
	saga.TakeEvery(o, "schedule-save", w.saveSchedule)
}

func (w *workflows) fetchGroupSchedule(ctx context.Context, fx *Effects, e state.GroupScheduleRequested) {
	group, err := w.Directory.Group(ctx, e.GroupID)
	if err != nil {
		fx.Put(state.GroupScheduleFailed{Err: failure(fx, err)})
		return
	}
	schedule, err := w.Timetable.GroupLessons(ctx, group.ExternalScheduleID)
	if err != nil {
		fx.Put(state.GroupScheduleFailed{Err: failure(fx, err)})
		return
	}
	if err := w.Session.SetGroupID(ctx, e.GroupID); err != nil {
		fx.Logger().Warn("failed to persist selected group", zap.Error(err))
	}
	fx.Put(state.GroupScheduleSucceeded{Schedule: schedule})
}

func (w *workflows) fetchTeacherSchedule(ctx context.Context, fx *Effects, e state.TeacherScheduleRequested) {
	teacher, err := w.Directory.Teacher(ctx, e.TeacherID)
	if err != nil {
		fx.Put(state.TeacherScheduleFailed{Err: failure(fx, err)})
		return
	}
	schedule, err := w.Timetable.LecturerLessons(ctx, teacher.ExternalScheduleID)
	if err != nil {
		fx.Put(state.TeacherScheduleFailed{Err: failure(fx, err)})
		return
	}
	if err := w.Session.SetTeacherID(ctx, e.TeacherID); err != nil {
		fx.Logger().Warn("failed to persist selected teacher", zap.Error(err))
	}
	fx.Put(state.TeacherScheduleSucceeded{Schedule: schedule})
}

// resolveWeek has no failure event; a failed lookup only leaves the week unset.
func (w *workflows) resolveWeek(ctx context.Context, fx *Effects) {
	current, err := w.Timetable.CurrentTime(ctx)
	if err != nil {
		fx.Logger().Warn("current week lookup failed", zap.Error(err))
		return
	}
	fx.Put(state.WeekResolved{Week: current.CurrentWeek})
}

func (w *workflows) fetchExamSessions(ctx context.Context, fx *Effects, e state.ExamSessionsRequested) {
	group, err := w.Directory.Group(ctx, e.GroupID)
	if err != nil {
		fx.Put(state.ExamSessionsFailed{Err: failure(fx, err)})
		return
	}
	sessions, err := w.Timetable.GroupExams(ctx, group.ExternalScheduleID)
	if err != nil {
		fx.Put(state.ExamSessionsFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.ExamSessionsSucceeded{Sessions: sessions})
}

// fetchSubjectSchedule resolves with no entries when the profile has no matching selection,
// so the slice never stays loading.
func (w *workflows) fetchSubjectSchedule(ctx context.Context, fx *Effects, e state.SubjectScheduleRequested) {
	var (
		entries []models.SubjectSchedule
		err     error
	)
	switch {
	case e.ScheduleType == models.ScheduleTypeGroup && e.GroupID != "":
		entries, err = w.SubjectSchedule.ForGroup(ctx, e.GroupID)
	case e.ScheduleType == models.ScheduleTypeTeacher && e.TeacherID != "":
		entries, err = w.SubjectSchedule.ForTeacher(ctx, e.TeacherID)
	default:
		fx.Logger().Debug("profile has no schedule selection")
	}
	if err != nil {
		fx.Put(state.SubjectScheduleFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.SubjectScheduleSucceeded{Entries: entries})
}

func (w *workflows) saveSchedule(ctx context.Context, fx *Effects, _ state.ScheduleSaveRequested) {
	userID := w.Session.UserID()
	if userID == "" {
		fx.Put(state.ScheduleSaveFailed{Err: failure(fx, appErrors.Clone(appErrors.ErrNoUserID, ""))})
		return
	}

	snapshot := fx.Select()
	if !state.HiddenSubjectsChanged(snapshot) {
		fx.Logger().Debug("no changes to hidden subjects")
		fx.Put(state.ScheduleSaveSucceeded{NoChanges: true})
		return
	}

	if err := w.Users.SaveHiddenSubjects(ctx, userID, snapshot.EditSchedule.HiddenSubjects); err != nil {
		fx.Put(state.ScheduleSaveFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.ScheduleSaveSucceeded{})
	fx.Put(state.ProfileFetchRequested{UserID: userID})
}
