package state

import "github.com/noah-isme/schedule-sync/internal/store"

// LoginState tracks the login workflow.
type LoginState struct {
	IsLoading           bool   `json:"isLoading"`
	IsLoggedIn          bool   `json:"isLoggedIn"`
	ErrorWhileLoggingIn bool   `json:"errorWhileLoggingIn"`
	Error               string `json:"error,omitempty"`
}

// RegisterState tracks account registration.
type RegisterState struct {
	IsLoading              bool   `json:"isLoading"`
	SuccessfullyRegistered bool   `json:"successfullyRegistered"`
	ErrorWhileRegistration bool   `json:"errorWhileRegistration"`
	Error                  string `json:"error,omitempty"`
}

// LogoutState tracks the logout workflow.
type LogoutState struct {
	IsLoading            bool   `json:"isLoading"`
	ErrorWhileLoggingOut bool   `json:"errorWhileLoggingOut"`
	Error                string `json:"error,omitempty"`
}

type (
	LoginRequested struct {
		Email    string `json:"email"`
		Password string `json:"-"`
	}
	LoginSucceeded struct{ UserID string }
	LoginFailed    struct{ Err string }
	// UserRestored marks the user as logged in from persisted credentials.
	UserRestored struct{ UserID string }

	RegisterRequested struct {
		Email    string `json:"email"`
		Password string `json:"-"`
		Name     string `json:"name"`
	}
	RegisterSucceeded struct{ UserID string }
	RegisterFailed    struct{ Err string }

	LogoutRequested struct{}
	LogoutSucceeded struct{}
	LogoutFailed    struct{ Err string }
)

func (LoginRequested) EventName() string    { return "LOGIN_USER_ATTEMPT" }
func (LoginSucceeded) EventName() string    { return "LOGIN_USER_SUCCEEDED" }
func (LoginFailed) EventName() string       { return "LOGIN_USER_FAILED" }
func (UserRestored) EventName() string      { return "SET_USER_LOGGED_IN" }
func (RegisterRequested) EventName() string { return "REGISTER_USER_ATTEMPT" }
func (RegisterSucceeded) EventName() string { return "REGISTER_USER_SUCCEEDED" }
func (RegisterFailed) EventName() string    { return "REGISTER_USER_FAILED" }
func (LogoutRequested) EventName() string   { return "LOGOUT_USER_ATTEMPT" }
func (LogoutSucceeded) EventName() string   { return "LOGOUT_USER_SUCCEEDED" }
func (LogoutFailed) EventName() string      { return "LOGOUT_USER_FAILED" }

func (s LoginState) reduce(e store.Event) LoginState {
	switch ev := e.(type) {
	case LoginRequested:
		return LoginState{IsLoading: true}
	case LoginSucceeded:
		return LoginState{IsLoggedIn: true}
	case LoginFailed:
		return LoginState{ErrorWhileLoggingIn: true, Error: ev.Err}
	case UserRestored:
		return LoginState{IsLoggedIn: true}
	case LogoutSucceeded:
		return LoginState{}
	}
	return s
}

func (s RegisterState) reduce(e store.Event) RegisterState {
	switch ev := e.(type) {
	case RegisterRequested:
		return RegisterState{IsLoading: true}
	case RegisterSucceeded:
		return RegisterState{SuccessfullyRegistered: true}
	case RegisterFailed:
		return RegisterState{ErrorWhileRegistration: true, Error: ev.Err}
	}
	return s
}

func (s LogoutState) reduce(e store.Event) LogoutState {
	switch ev := e.(type) {
	case LogoutRequested:
		return LogoutState{IsLoading: true}
	case LogoutSucceeded:
		return LogoutState{}
	case LogoutFailed:
		return LogoutState{ErrorWhileLoggingOut: true, Error: ev.Err}
	}
	return s
}
