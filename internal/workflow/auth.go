package workflow

import (
	"context"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/saga"
	"github.com/noah-isme/schedule-sync/internal/state"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

func (w *workflows) registerAuth(o *Orchestrator) {
	saga.TakeEvery(o, "login", w.login)
	saga.TakeEvery(o, "register", w.register)
	saga.TakeLatest(o, "logout", w.logout)
	saga.TakeEvery(o, "profile-after-login", w.profileAfterLogin)
}

func (w *workflows) login(ctx context.Context, fx *Effects, e state.LoginRequested) {
	resp, err := w.Auth.Login(ctx, models.LoginRequest{Email: e.Email, Password: e.Password})
	if err == nil {
		err = w.Session.StoreAuth(ctx, *resp)
	}
	if err != nil {
		fx.Put(state.LoginFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.LoginSucceeded{UserID: resp.User.ID})
}

func (w *workflows) register(ctx context.Context, fx *Effects, e state.RegisterRequested) {
	resp, err := w.Auth.Register(ctx, models.RegisterRequest{Email: e.Email, Password: e.Password, Name: e.Name})
	if err == nil {
		err = w.Session.StoreAuth(ctx, *resp)
	}
	if err != nil {
		fx.Put(state.RegisterFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.RegisterSucceeded{UserID: resp.User.ID})
	fx.Put(state.LoginSucceeded{UserID: resp.User.ID})
}

// logout runs take-latest: a newer logout cancels this run, whose events are then dropped
// and whose credentials are left for the newer run to clear. Clearing the credentials and
// applying LogoutSucceeded commit together, so a newer logout sees either both or neither.
func (w *workflows) logout(ctx context.Context, fx *Effects, _ state.LogoutRequested) {
	token := w.Session.RefreshToken()
	if token == "" {
		fx.Put(state.LogoutFailed{Err: failure(fx, appErrors.Clone(appErrors.ErrNoRefreshToken, ""))})
		return
	}
	if err := w.Auth.Logout(ctx, token); err != nil {
		fx.Put(state.LogoutFailed{Err: failure(fx, err)})
		return
	}
	if _, err := fx.Commit(state.LogoutSucceeded{}, w.Session.ClearAuth); err != nil {
		fx.Put(state.LogoutFailed{Err: failure(fx, err)})
	}
}

func (w *workflows) profileAfterLogin(_ context.Context, fx *Effects, e state.LoginSucceeded) {
	userID := e.UserID
	if userID == "" {
		userID = w.Session.UserID()
	}
	fx.Put(state.ProfileFetchRequested{UserID: userID})
}
