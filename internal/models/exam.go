package models

// ExamSession is one scheduled exam of a group, as reported by the external timetable API.
type ExamSession struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	DaysLeft       int    `json:"daysLeft"`
	Room           string `json:"room"`
	Subject        string `json:"subject"`
	SubjectShort   string `json:"subjectShort"`
	LecturerID     string `json:"lecturerId"`
	LecturerName   string `json:"lecturerName"`
	Group          string `json:"group,omitempty"`
	GenericGroupID string `json:"genericGroupId"`
}
