package models

// Subject is the course a SubjectSchedule belongs to.
type Subject struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// SubjectSchedule is a personalized, backend-stored class occurrence. Week is 0 or 1.
type SubjectSchedule struct {
	ID         string  `json:"_id"`
	Day        string  `json:"day"`
	Week       int     `json:"week"`
	Time       string  `json:"time"`
	LessonType string  `json:"lessonType"`
	Location   string  `json:"location"`
	Subject    Subject `json:"subject"`
	Teacher    Teacher `json:"teacher"`
	Groups     []Group `json:"groups"`
}
