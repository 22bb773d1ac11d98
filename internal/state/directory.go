package state

import (
	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/store"
)

// GroupsState lists every known group.
type GroupsState struct {
	IsLoading bool           `json:"isLoading"`
	Groups    []models.Group `json:"groups"`
	Error     string         `json:"error,omitempty"`
}

// TeachersState lists every known teacher.
type TeachersState struct {
	IsLoading bool             `json:"isLoading"`
	Teachers  []models.Teacher `json:"teachers"`
	Error     string           `json:"error,omitempty"`
}

type (
	GroupsFetchRequested struct{}
	GroupsFetchSucceeded struct{ Groups []models.Group }
	GroupsFetchFailed    struct{ Err string }

	TeachersFetchRequested struct{}
	TeachersFetchSucceeded struct{ Teachers []models.Teacher }
	TeachersFetchFailed    struct{ Err string }
)

func (GroupsFetchRequested) EventName() string   { return "FETCH_GROUPS" }
func (GroupsFetchSucceeded) EventName() string   { return "FETCH_GROUPS_SUCCEEDED" }
func (GroupsFetchFailed) EventName() string      { return "FETCH_GROUPS_FAILED" }
func (TeachersFetchRequested) EventName() string { return "FETCH_TEACHERS" }
func (TeachersFetchSucceeded) EventName() string { return "FETCH_TEACHERS_SUCCEEDED" }
func (TeachersFetchFailed) EventName() string    { return "FETCH_TEACHERS_FAILED" }

func (s GroupsState) reduce(e store.Event) GroupsState {
	switch ev := e.(type) {
	case GroupsFetchRequested:
		return GroupsState{IsLoading: true}
	case GroupsFetchSucceeded:
		return GroupsState{Groups: ev.Groups}
	case GroupsFetchFailed:
		return GroupsState{Error: ev.Err}
	}
	return s
}

func (s TeachersState) reduce(e store.Event) TeachersState {
	switch ev := e.(type) {
	case TeachersFetchRequested:
		return TeachersState{IsLoading: true}
	case TeachersFetchSucceeded:
		return TeachersState{Teachers: ev.Teachers}
	case TeachersFetchFailed:
		return TeachersState{Error: ev.Err}
	}
	return s
}
