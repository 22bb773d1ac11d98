package workflow

import (
	"context"

	"github.com/noah-isme/schedule-sync/internal/saga"
	"github.com/noah-isme/schedule-sync/internal/state"
)

func (w *workflows) registerProfile(o *Orchestrator) {
	saga.TakeEvery(o, "profile", w.fetchProfile)
	saga.TakeEvery(o, "profile-update", w.updateProfile)
}

func (w *workflows) fetchProfile(ctx context.Context, fx *Effects, e state.ProfileFetchRequested) {
	userID := e.UserID
	if userID == "" {
		userID = w.Session.UserID()
	}
	profile, err := w.Users.Profile(ctx, userID)
	if err != nil {
		fx.Put(state.ProfileFetchFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.ProfileFetchSucceeded{Profile: profile})
	fx.Put(state.SubjectScheduleRequested{
		ScheduleType: profile.ScheduleType,
		GroupID:      profile.GroupID,
		TeacherID:    profile.TeacherID,
	})
}

func (w *workflows) updateProfile(ctx context.Context, fx *Effects, e state.ProfileUpdateRequested) {
	userID := w.Session.UserID()
	profile, err := w.Users.UpdateProfile(ctx, userID, e.Update)
	if err != nil {
		fx.Put(state.ProfileUpdateFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.ProfileUpdateSucceeded{Profile: profile})
	fx.Put(state.ProfileFetchRequested{UserID: userID})
}
