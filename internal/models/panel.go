package models

import "time"

// Comment is a note attached to a subject schedule.
type Comment struct {
	ID           string    `json:"_id"`
	Text         string    `json:"text"`
	Priority     int       `json:"priority"`
	CreationTime time.Time `json:"creationTime"`
}

// CreateCommentRequest adds a comment on behalf of User.
type CreateCommentRequest struct {
	Text            string `json:"text" validate:"required"`
	SubjectSchedule string `json:"subjectSchedule" validate:"required"`
	Priority        *int   `json:"priority,omitempty" validate:"omitempty,min=0"`
	User            string `json:"user" validate:"required"`
}

// Tag is a label attached to one or more subject schedules.
type Tag struct {
	ID       string   `json:"_id"`
	Text     string   `json:"text"`
	Color    *string  `json:"color,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
}

// CreateTagRequest is the backend payload for a new tag.
type CreateTagRequest struct {
	Text             string   `json:"text" validate:"required"`
	SubjectSchedules []string `json:"subjectSchedules" validate:"required,min=1,dive,required"`
}

// ScheduleLink is a reference link attached to a subject schedule.
type ScheduleLink struct {
	ID              string `json:"_id"`
	Link            string `json:"link"`
	Description     string `json:"description"`
	User            string `json:"user"`
	SubjectSchedule string `json:"subjectSchedule"`
}

// CreateLinkRequest is the backend payload for a new link.
type CreateLinkRequest struct {
	Link            string `json:"link" validate:"required,url"`
	Description     string `json:"description"`
	SubjectSchedule string `json:"subjectSchedule" validate:"required"`
}

// UpdateLinkRequest patches a link. Nil fields are not sent.
type UpdateLinkRequest struct {
	Link        *string `json:"link,omitempty" validate:"omitempty,url"`
	Description *string `json:"description,omitempty"`
}
