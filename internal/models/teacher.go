package models

// Group is a student group as listed by the backend. ExternalScheduleID keys the external
// timetable API.
type Group struct {
	ID                 string `json:"_id"`
	Name               string `json:"name"`
	Faculty            string `json:"faculty"`
	ExternalScheduleID string `json:"apiId"`
}

// Teacher is a lecturer as listed by the backend.
type Teacher struct {
	ID                 string `json:"_id"`
	Name               string `json:"name"`
	ExternalScheduleID string `json:"apiId"`
}
