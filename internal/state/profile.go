package state

import (
	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/store"
)

// ProfileState holds the last fetched profile of the signed-in user.
type ProfileState struct {
	IsLoading bool           `json:"isLoading"`
	Profile   models.Profile `json:"profile"`
	Error     string         `json:"error,omitempty"`
}

// MutationState is the state of a write operation. Failures keep the data of the read slices
// untouched and only record the message.
type MutationState struct {
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

func (MutationState) started() MutationState { return MutationState{IsLoading: true} }

func (MutationState) succeeded() MutationState { return MutationState{} }

func (MutationState) failed(msg string) MutationState { return MutationState{Error: msg} }

type (
	ProfileFetchRequested struct{ UserID string }
	ProfileFetchSucceeded struct{ Profile models.Profile }
	ProfileFetchFailed    struct{ Err string }

	ProfileUpdateRequested struct{ Update models.ProfileUpdate }
	ProfileUpdateSucceeded struct{ Profile models.Profile }
	ProfileUpdateFailed    struct{ Err string }
)

func (ProfileFetchRequested) EventName() string  { return "FETCH_PROFILE_INFO_ATTEMPT" }
func (ProfileFetchSucceeded) EventName() string  { return "FETCH_PROFILE_INFO_SUCCEEDED" }
func (ProfileFetchFailed) EventName() string     { return "FETCH_PROFILE_INFO_FAILED" }
func (ProfileUpdateRequested) EventName() string { return "UPDATE_PROFILE_ATTEMPT" }
func (ProfileUpdateSucceeded) EventName() string { return "UPDATE_PROFILE_SUCCEEDED" }
func (ProfileUpdateFailed) EventName() string    { return "UPDATE_PROFILE_FAILED" }

func (s ProfileState) reduce(e store.Event) ProfileState {
	switch ev := e.(type) {
	case ProfileFetchRequested:
		return ProfileState{IsLoading: true}
	case ProfileFetchSucceeded:
		return ProfileState{Profile: ev.Profile}
	case ProfileFetchFailed:
		return ProfileState{Error: ev.Err}
	case LogoutRequested:
		return ProfileState{}
	}
	return s
}

func reduceProfileUpdate(s MutationState, e store.Event) MutationState {
	switch ev := e.(type) {
	case ProfileUpdateRequested:
		return s.started()
	case ProfileUpdateSucceeded:
		return s.succeeded()
	case ProfileUpdateFailed:
		return s.failed(ev.Err)
	}
	return s
}
