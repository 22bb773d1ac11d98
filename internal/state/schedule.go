package state

import (
	"slices"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/store"
)

// ScheduleState holds the external timetable of the selected group or teacher and the current
// teaching week. Group and teacher fetches share one loading flag.
type ScheduleState struct {
	IsLoading       bool             `json:"isLoading"`
	GroupID         string           `json:"groupId,omitempty"`
	TeacherID       string           `json:"teacherId,omitempty"`
	GroupSchedule   *models.Schedule `json:"groupSchedule"`
	TeacherSchedule *models.Schedule `json:"teacherSchedule"`
	Week            *int             `json:"week"`
	Error           string           `json:"error,omitempty"`
}

// EditScheduleState is the hidden-subject editor. HiddenSubjects is the pending list,
// UserHiddenSubjects the list of the last fetched profile.
type EditScheduleState struct {
	IsEditing          bool     `json:"isEditing"`
	IsLoading          bool     `json:"isLoading"`
	UserHiddenSubjects []string `json:"userHiddenSubjects"`
	HiddenSubjects     []string `json:"hiddenSubjects"`
	Error              string   `json:"error,omitempty"`
}

// SubjectScheduleState holds the personalized schedule entries of the profile.
type SubjectScheduleState struct {
	IsLoading bool                     `json:"isLoading"`
	Entries   []models.SubjectSchedule `json:"subjectSchedule"`
	Error     string                   `json:"error,omitempty"`
}

// ExamSessionsState holds the exam session of the selected group.
type ExamSessionsState struct {
	IsLoading bool                 `json:"isLoading"`
	Sessions  []models.ExamSession `json:"session"`
	Error     string               `json:"error,omitempty"`
}

type (
	GroupScheduleRequested struct{ GroupID string }
	GroupScheduleSucceeded struct{ Schedule models.Schedule }
	GroupScheduleFailed    struct{ Err string }

	TeacherScheduleRequested struct{ TeacherID string }
	TeacherScheduleSucceeded struct{ Schedule models.Schedule }
	TeacherScheduleFailed    struct{ Err string }

	// WeekResolved carries the current teaching week reported by the timetable API.
	WeekResolved struct{ Week int }

	EditScheduleStarted   struct{}
	HiddenSubjectAdded    struct{ SubjectID string }
	HiddenSubjectRemoved  struct{ SubjectID string }
	ScheduleSaveRequested struct{}
	// ScheduleSaveSucceeded reports NoChanges when the pending list matched the profile and
	// nothing was sent.
	ScheduleSaveSucceeded struct{ NoChanges bool }
	ScheduleSaveFailed    struct{ Err string }

	SubjectScheduleRequested struct {
		ScheduleType models.ScheduleType
		GroupID      string
		TeacherID    string
	}
	SubjectScheduleSucceeded struct{ Entries []models.SubjectSchedule }
	SubjectScheduleFailed    struct{ Err string }

	ExamSessionsRequested struct{ GroupID string }
	ExamSessionsSucceeded struct{ Sessions []models.ExamSession }
	ExamSessionsFailed    struct{ Err string }
)

func (GroupScheduleRequested) EventName() string   { return "FETCH_GROUP_SCHEDULE" }
func (GroupScheduleSucceeded) EventName() string   { return "FETCH_GROUP_SCHEDULE_SUCCEEDED" }
func (GroupScheduleFailed) EventName() string      { return "FETCH_GROUP_SCHEDULE_FAILED" }
func (TeacherScheduleRequested) EventName() string { return "FETCH_TEACHER_SCHEDULE" }
func (TeacherScheduleSucceeded) EventName() string { return "FETCH_TEACHER_SCHEDULE_SUCCEEDED" }
func (TeacherScheduleFailed) EventName() string    { return "FETCH_TEACHER_SCHEDULE_FAILED" }
func (WeekResolved) EventName() string             { return "SET_WEEK" }
func (EditScheduleStarted) EventName() string      { return "EDIT_SCHEDULE" }
func (HiddenSubjectAdded) EventName() string       { return "ADD_HIDDEN_SUBJECT" }
func (HiddenSubjectRemoved) EventName() string     { return "REMOVE_HIDDEN_SUBJECT" }
func (ScheduleSaveRequested) EventName() string    { return "SAVE_SCHEDULE_ATTEMPT" }
func (ScheduleSaveSucceeded) EventName() string    { return "SAVE_SCHEDULE_SUCCEEDED" }
func (ScheduleSaveFailed) EventName() string       { return "SAVE_SCHEDULE_FAILED" }
func (SubjectScheduleRequested) EventName() string { return "FETCH_SUBJECT_SCHEDULE_ATTEMPT" }
func (SubjectScheduleSucceeded) EventName() string { return "FETCH_SUBJECT_SCHEDULE_SUCCEEDED" }
func (SubjectScheduleFailed) EventName() string    { return "FETCH_SUBJECT_SCHEDULE_FAILED" }
func (ExamSessionsRequested) EventName() string    { return "FETCH_SESSION_ATTEMPT" }
func (ExamSessionsSucceeded) EventName() string    { return "FETCH_SESSION_SUCCEEDED" }
func (ExamSessionsFailed) EventName() string       { return "FETCH_SESSION_FAILED" }

func (s ScheduleState) reduce(e store.Event) ScheduleState {
	switch ev := e.(type) {
	case GroupScheduleRequested:
		s.IsLoading, s.GroupID, s.GroupSchedule, s.Error = true, ev.GroupID, nil, ""
	case GroupScheduleSucceeded:
		sched := ev.Schedule
		s.IsLoading, s.GroupSchedule = false, &sched
	case GroupScheduleFailed:
		s.IsLoading, s.GroupID, s.GroupSchedule, s.Error = false, "", nil, ev.Err
	case TeacherScheduleRequested:
		s.IsLoading, s.TeacherID, s.TeacherSchedule, s.Error = true, ev.TeacherID, nil, ""
	case TeacherScheduleSucceeded:
		sched := ev.Schedule
		s.IsLoading, s.TeacherSchedule = false, &sched
	case TeacherScheduleFailed:
		s.IsLoading, s.TeacherID, s.TeacherSchedule, s.Error = false, "", nil, ev.Err
	case WeekResolved:
		week := ev.Week
		s.Week = &week
	}
	return s
}

func (s EditScheduleState) reduce(e store.Event) EditScheduleState {
	switch ev := e.(type) {
	case EditScheduleStarted:
		s.IsEditing = true
	case ProfileFetchSucceeded:
		s.UserHiddenSubjects = ev.Profile.HiddenSubjects
		s.HiddenSubjects = ev.Profile.HiddenSubjects
	case HiddenSubjectAdded:
		if !slices.Contains(s.HiddenSubjects, ev.SubjectID) {
			s.HiddenSubjects = append(slices.Clip(s.HiddenSubjects), ev.SubjectID)
		}
	case HiddenSubjectRemoved:
		s.HiddenSubjects = slices.DeleteFunc(slices.Clone(s.HiddenSubjects), func(id string) bool {
			return id == ev.SubjectID
		})
	case ScheduleSaveRequested:
		s.IsEditing, s.IsLoading, s.Error = false, true, ""
	case ScheduleSaveSucceeded:
		s.IsEditing, s.IsLoading = false, false
	case ScheduleSaveFailed:
		s.IsEditing, s.IsLoading, s.Error = false, false, ev.Err
	}
	return s
}

func (s SubjectScheduleState) reduce(e store.Event) SubjectScheduleState {
	switch ev := e.(type) {
	case SubjectScheduleRequested:
		return SubjectScheduleState{IsLoading: true}
	case SubjectScheduleSucceeded:
		return SubjectScheduleState{Entries: ev.Entries}
	case SubjectScheduleFailed:
		return SubjectScheduleState{Error: ev.Err}
	case LogoutSucceeded:
		s.Entries = nil
	}
	return s
}

func (s ExamSessionsState) reduce(e store.Event) ExamSessionsState {
	switch ev := e.(type) {
	case ExamSessionsRequested:
		return ExamSessionsState{IsLoading: true}
	case ExamSessionsSucceeded:
		return ExamSessionsState{Sessions: ev.Sessions}
	case ExamSessionsFailed:
		return ExamSessionsState{Error: ev.Err}
	}
	return s
}
