package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/state"
)

// bootstrap rehydrates the client from the persisted session: reference lists, the
// previously selected schedules and, while the access token is still valid, the signed-in user.
func (w *workflows) bootstrap(_ context.Context, fx *Effects, _ state.AppStarted) {
	fx.Put(state.GroupsFetchRequested{})
	fx.Put(state.TeachersFetchRequested{})

	if groupID := w.Session.GroupID(); groupID != "" {
		fx.Put(state.GroupScheduleRequested{GroupID: groupID})
		fx.Put(state.ExamSessionsRequested{GroupID: groupID})
	}
	if teacherID := w.Session.TeacherID(); teacherID != "" {
		fx.Put(state.TeacherScheduleRequested{TeacherID: teacherID})
	}

	userID := w.Session.UserID()
	switch {
	case userID == "":
	case !w.Session.AccessTokenValid(w.Now()):
		fx.Logger().Info("stored access token expired, staying signed out")
	default:
		fx.Logger().Debug("restoring signed-in user", zap.String("user_id", userID))
		fx.Put(state.UserRestored{UserID: userID})
		fx.Put(state.ProfileFetchRequested{UserID: userID})
	}
}
