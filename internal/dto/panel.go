package dto

// AddCommentRequest captures POST /comments payload.
type AddCommentRequest struct {
	Text              string `json:"text" validate:"required"`
	SubjectScheduleID string `json:"subjectScheduleId" validate:"required"`
	Priority          *int   `json:"priority,omitempty" validate:"omitempty,min=0"`
}

// AddTagRequest captures POST /tags payload.
type AddTagRequest struct {
	Text              string `json:"text" validate:"required"`
	SubjectScheduleID string `json:"subjectScheduleId" validate:"required"`
}

// AddLinkRequest captures POST /links payload.
type AddLinkRequest struct {
	Link              string `json:"link" validate:"required,url"`
	Description       string `json:"description"`
	SubjectScheduleID string `json:"subjectScheduleId" validate:"required"`
}

// UpdateLinkRequest captures PATCH /links/:id payload. SubjectScheduleID names the panel whose
// links are refetched afterwards.
type UpdateLinkRequest struct {
	SubjectScheduleID string  `json:"subjectScheduleId" validate:"required"`
	Link              *string `json:"link,omitempty" validate:"omitempty,url"`
	Description       *string `json:"description,omitempty"`
}
