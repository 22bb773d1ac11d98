package models

// Lesson is one class in the external timetable.
type Lesson struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Time        string `json:"time"`
	Place       string `json:"place"`
	Type        string `json:"type"`
	Tag         string `json:"tag"`
	LecturerID  string `json:"lecturerId"`
	TeacherName string `json:"teacherName,omitempty"`
	Group       string `json:"group,omitempty"`
}

// DaySchedule groups the lessons of one weekday. Day is the short day name used by the
// external API ("Пн", "Вв", ...).
type DaySchedule struct {
	Day     string   `json:"day"`
	Lessons []Lesson `json:"pairs"`
}

// Schedule is a two-week timetable.
type Schedule struct {
	WeekOne []DaySchedule `json:"scheduleFirstWeek"`
	WeekTwo []DaySchedule `json:"scheduleSecondWeek"`
}

// CurrentTime is the external API's view of the current teaching week, day and lesson.
type CurrentTime struct {
	CurrentWeek   int `json:"currentWeek"`
	CurrentDay    int `json:"currentDay"`
	CurrentLesson int `json:"currentLesson"`
}
