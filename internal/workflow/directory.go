package workflow

import (
	"context"

	"github.com/noah-isme/schedule-sync/internal/saga"
	"github.com/noah-isme/schedule-sync/internal/state"
)

func (w *workflows) registerDirectory(o *Orchestrator) {
	saga.TakeEvery(o, "groups", w.fetchGroups)
	saga.TakeEvery(o, "teachers", w.fetchTeachers)
}

func (w *workflows) fetchGroups(ctx context.Context, fx *Effects, _ state.GroupsFetchRequested) {
	groups, err := w.Directory.Groups(ctx)
	if err != nil {
		fx.Put(state.GroupsFetchFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.GroupsFetchSucceeded{Groups: groups})
}

func (w *workflows) fetchTeachers(ctx context.Context, fx *Effects, _ state.TeachersFetchRequested) {
	teachers, err := w.Directory.Teachers(ctx)
	if err != nil {
		fx.Put(state.TeachersFetchFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.TeachersFetchSucceeded{Teachers: teachers})
}
