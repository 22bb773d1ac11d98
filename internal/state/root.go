// Package state defines the feature slices of the client: their typed state, the events that
// drive them and the pure reducers combining them into one snapshot.
package state

import (
	"slices"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/store"
)

// RootState is the aggregate snapshot. Slices are copied by value on every event and their
// backing arrays are never written in place, so a snapshot stays valid after later events.
type RootState struct {
	Login           LoginState           `json:"login"`
	Register        RegisterState        `json:"register"`
	Logout          LogoutState          `json:"logout"`
	Profile         ProfileState         `json:"getProfileInfo"`
	UpdateProfile   MutationState        `json:"updateProfile"`
	Groups          GroupsState          `json:"group"`
	Teachers        TeachersState        `json:"teacher"`
	Schedule        ScheduleState        `json:"getSchedule"`
	EditSchedule    EditScheduleState    `json:"editSchedule"`
	SubjectSchedule SubjectScheduleState `json:"getSubjectSchedule"`
	ExamSessions    ExamSessionsState    `json:"getSession"`
	InfoPanel       InfoPanelState       `json:"openInfoPanel"`
	Comments        CommentsState        `json:"comment"`
	Tags            TagsState            `json:"tag"`
	Links           LinksState           `json:"link"`
	Mutations       PanelMutations       `json:"mutations"`
	Menu            MenuState            `json:"menu"`
	Theme           ThemeState           `json:"theme"`
}

// Initial returns the state before any event.
func Initial() RootState {
	return RootState{}
}

// Reduce applies e to every slice.
func Reduce(s RootState, e store.Event) RootState {
	s.Login = s.Login.reduce(e)
	s.Register = s.Register.reduce(e)
	s.Logout = s.Logout.reduce(e)
	s.Profile = s.Profile.reduce(e)
	s.UpdateProfile = reduceProfileUpdate(s.UpdateProfile, e)
	s.Groups = s.Groups.reduce(e)
	s.Teachers = s.Teachers.reduce(e)
	s.Schedule = s.Schedule.reduce(e)
	s.EditSchedule = s.EditSchedule.reduce(e)
	s.SubjectSchedule = s.SubjectSchedule.reduce(e)
	s.ExamSessions = s.ExamSessions.reduce(e)
	s.InfoPanel = s.InfoPanel.reduce(e)
	s.Comments = s.Comments.reduce(e)
	s.Tags = s.Tags.reduce(e)
	s.Links = s.Links.reduce(e)
	s.Mutations = s.Mutations.reduce(e)
	s.Menu = s.Menu.reduce(e)
	s.Theme = s.Theme.reduce(e)
	return s
}

// IsLoggedIn reports whether a user is signed in.
func IsLoggedIn(s RootState) bool { return s.Login.IsLoggedIn }

// SelectedSubjectScheduleID returns the id open in the info panel, or "".
func SelectedSubjectScheduleID(s RootState) string { return s.InfoPanel.SubjectScheduleID }

// SelectedSubjectSchedule returns the entry open in the info panel.
func SelectedSubjectSchedule(s RootState) (models.SubjectSchedule, bool) {
	id := s.InfoPanel.SubjectScheduleID
	if id == "" {
		return models.SubjectSchedule{}, false
	}
	i := slices.IndexFunc(s.SubjectSchedule.Entries, func(ss models.SubjectSchedule) bool { return ss.ID == id })
	if i < 0 {
		return models.SubjectSchedule{}, false
	}
	return s.SubjectSchedule.Entries[i], true
}

// VisibleSubjectSchedule returns the personal schedule without hidden subjects. While editing
// every entry is returned so hidden ones can be toggled back.
func VisibleSubjectSchedule(s RootState) []models.SubjectSchedule {
	if s.EditSchedule.IsEditing {
		return s.SubjectSchedule.Entries
	}
	hidden := s.EditSchedule.HiddenSubjects
	visible := make([]models.SubjectSchedule, 0, len(s.SubjectSchedule.Entries))
	for _, entry := range s.SubjectSchedule.Entries {
		if !slices.Contains(hidden, entry.ID) {
			visible = append(visible, entry)
		}
	}
	return visible
}

// HiddenSubjectsChanged reports whether the pending hidden list differs from the one of the
// last fetched profile. The comparison is order sensitive.
func HiddenSubjectsChanged(s RootState) bool {
	return !slices.Equal(s.EditSchedule.HiddenSubjects, s.Profile.Profile.HiddenSubjects)
}

// AnyLoading reports whether any slice waits for a workflow.
func AnyLoading(s RootState) bool {
	return s.Login.IsLoading || s.Register.IsLoading || s.Logout.IsLoading ||
		s.Profile.IsLoading || s.UpdateProfile.IsLoading ||
		s.Groups.IsLoading || s.Teachers.IsLoading ||
		s.Schedule.IsLoading || s.EditSchedule.IsLoading ||
		s.SubjectSchedule.IsLoading || s.ExamSessions.IsLoading ||
		s.Comments.IsLoading || s.Tags.IsLoading || s.Links.IsLoading ||
		s.Mutations.AddComment.IsLoading || s.Mutations.DeleteComment.IsLoading ||
		s.Mutations.AddTag.IsLoading || s.Mutations.DeleteTag.IsLoading ||
		s.Mutations.AddLink.IsLoading || s.Mutations.UpdateLink.IsLoading || s.Mutations.DeleteLink.IsLoading
}
