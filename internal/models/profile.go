package models

// ScheduleType selects whether a profile follows a group or a teacher timetable.
type ScheduleType string

const (
	ScheduleTypeGroup   ScheduleType = "group"
	ScheduleTypeTeacher ScheduleType = "teacher"
)

// Profile is the signed-in user's profile as held in state.
type Profile struct {
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	ScheduleType   ScheduleType `json:"scheduleType"`
	GroupID        string       `json:"groupId"`
	TeacherID      string       `json:"teacherId"`
	GoogleAccount  string       `json:"googleAccount"`
	HiddenSubjects []string     `json:"hiddenSubjects"`
}

// ProfileResponse is the backend wire shape of a user.
type ProfileResponse struct {
	Name           *string       `json:"name"`
	Email          *string       `json:"email"`
	ScheduleType   *ScheduleType `json:"scheduleType"`
	Group          *string       `json:"group"`
	Teacher        *string       `json:"teacher"`
	GoogleID       *string       `json:"googleId"`
	HiddenSubjects []string      `json:"hiddenSubjects"`
}

// ToProfile maps the wire shape to the state shape. Null fields become empty values.
func (r ProfileResponse) ToProfile() Profile {
	p := Profile{
		Name:          deref(r.Name),
		Email:         deref(r.Email),
		GroupID:       deref(r.Group),
		TeacherID:     deref(r.Teacher),
		GoogleAccount: deref(r.GoogleID),
	}
	if r.ScheduleType != nil {
		p.ScheduleType = *r.ScheduleType
	}
	if len(r.HiddenSubjects) > 0 {
		p.HiddenSubjects = append([]string(nil), r.HiddenSubjects...)
	}
	return p
}

// ProfileUpdate is a partial profile patch. Nil fields are not sent.
type ProfileUpdate struct {
	Username       *string       `json:"username,omitempty" validate:"omitempty,min=1"`
	Email          *string       `json:"email,omitempty" validate:"omitempty,email"`
	ScheduleType   *ScheduleType `json:"scheduleType,omitempty" validate:"omitempty,oneof=group teacher"`
	Group          *string       `json:"group,omitempty"`
	Teacher        *string       `json:"teacher,omitempty"`
	HiddenSubjects []string      `json:"hiddenSubjects,omitempty"`
}

// HiddenSubjectsUpdate is the batched save payload of the schedule editor. The list is always
// sent, even when empty, so that un-hiding the last subject reaches the backend.
type HiddenSubjectsUpdate struct {
	HiddenSubjects []string `json:"hiddenSubjects"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
