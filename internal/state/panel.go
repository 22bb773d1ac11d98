package state

import (
	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/store"
)

// InfoPanelState tracks which subject schedule is open in the info panel.
type InfoPanelState struct {
	SubjectScheduleID string `json:"subjectId,omitempty"`
	IsInfoPanelOpen   bool   `json:"isInfoPanelOpen"`
}

type CommentsState struct {
	IsLoading bool             `json:"isLoading"`
	Comments  []models.Comment `json:"comments"`
	Error     string           `json:"error,omitempty"`
}

type TagsState struct {
	IsLoading bool         `json:"isLoading"`
	Tags      []models.Tag `json:"tags"`
	Error     string       `json:"error,omitempty"`
}

type LinksState struct {
	IsLoading bool                  `json:"isLoading"`
	Links     []models.ScheduleLink `json:"links"`
	Error     string                `json:"error,omitempty"`
}

type (
	// InfoPanelOpened selects a subject schedule and fans out its comment, tag and link fetches.
	InfoPanelOpened struct{ SubjectScheduleID string }
	InfoPanelClosed struct{}

	CommentsFetchRequested struct{ SubjectScheduleID string }
	CommentsFetchSucceeded struct{ Comments []models.Comment }
	CommentsFetchFailed    struct{ Err string }

	TagsFetchRequested struct{ SubjectScheduleID string }
	TagsFetchSucceeded struct{ Tags []models.Tag }
	TagsFetchFailed    struct{ Err string }

	LinksFetchRequested struct{ SubjectScheduleID string }
	LinksFetchSucceeded struct{ Links []models.ScheduleLink }
	LinksFetchFailed    struct{ Err string }

	CommentAddRequested struct {
		Text              string
		SubjectScheduleID string
		Priority          *int
	}
	CommentAddSucceeded    struct{}
	CommentAddFailed       struct{ Err string }
	CommentDeleteRequested struct{ CommentID string }
	CommentDeleteSucceeded struct{}
	CommentDeleteFailed    struct{ Err string }

	TagAddRequested struct {
		Text              string
		SubjectScheduleID string
	}
	TagAddSucceeded    struct{}
	TagAddFailed       struct{ Err string }
	TagDeleteRequested struct{ TagID string }
	TagDeleteSucceeded struct{}
	TagDeleteFailed    struct{ Err string }

	LinkAddRequested struct {
		Link              string
		Description       string
		SubjectScheduleID string
	}
	LinkAddSucceeded struct{}
	LinkAddFailed    struct{ Err string }
	// LinkUpdateRequested refetches links of SubjectScheduleID on success, not of the open panel.
	LinkUpdateRequested struct {
		LinkID            string
		SubjectScheduleID string
		Link              *string
		Description       *string
	}
	LinkUpdateSucceeded struct{}
	LinkUpdateFailed    struct{ Err string }
	LinkDeleteRequested struct{ LinkID string }
	LinkDeleteSucceeded struct{}
	LinkDeleteFailed    struct{ Err string }
)

func (InfoPanelOpened) EventName() string        { return "OPEN_SUBJECT_INFO_PANEL" }
func (InfoPanelClosed) EventName() string        { return "CLOSE_SUBJECT_INFO_PANEL" }
func (CommentsFetchRequested) EventName() string { return "FETCH_COMMENTS" }
func (CommentsFetchSucceeded) EventName() string { return "FETCH_COMMENTS_SUCCEEDED" }
func (CommentsFetchFailed) EventName() string    { return "FETCH_COMMENTS_FAILED" }
func (TagsFetchRequested) EventName() string     { return "FETCH_TAGS" }
func (TagsFetchSucceeded) EventName() string     { return "FETCH_TAGS_SUCCEEDED" }
func (TagsFetchFailed) EventName() string        { return "FETCH_TAGS_FAILED" }
func (LinksFetchRequested) EventName() string    { return "FETCH_LINKS" }
func (LinksFetchSucceeded) EventName() string    { return "FETCH_LINKS_SUCCEEDED" }
func (LinksFetchFailed) EventName() string       { return "FETCH_LINKS_FAILED" }
func (CommentAddRequested) EventName() string    { return "ADD_COMMENT_ATTEMPT" }
func (CommentAddSucceeded) EventName() string    { return "ADD_COMMENT_SUCCEEDED" }
func (CommentAddFailed) EventName() string       { return "ADD_COMMENT_FAILED" }
func (CommentDeleteRequested) EventName() string { return "DELETE_COMMENT_ATTEMPT" }
func (CommentDeleteSucceeded) EventName() string { return "DELETE_COMMENT_SUCCEEDED" }
func (CommentDeleteFailed) EventName() string    { return "DELETE_COMMENT_FAILED" }
func (TagAddRequested) EventName() string        { return "ADD_TAGS_ATTEMPT" }
func (TagAddSucceeded) EventName() string        { return "ADD_TAGS_SUCCEEDED" }
func (TagAddFailed) EventName() string           { return "ADD_TAGS_FAILED" }
func (TagDeleteRequested) EventName() string     { return "DELETE_TAG_ATTEMPT" }
func (TagDeleteSucceeded) EventName() string     { return "DELETE_TAG_SUCCEEDED" }
func (TagDeleteFailed) EventName() string        { return "DELETE_TAG_FAILED" }
func (LinkAddRequested) EventName() string       { return "ADD_LINK_ATTEMPT" }
func (LinkAddSucceeded) EventName() string       { return "ADD_LINK_SUCCEEDED" }
func (LinkAddFailed) EventName() string          { return "ADD_LINK_FAILED" }
func (LinkUpdateRequested) EventName() string    { return "UPDATE_LINK_ATTEMPT" }
func (LinkUpdateSucceeded) EventName() string    { return "UPDATE_LINK_SUCCEEDED" }
func (LinkUpdateFailed) EventName() string       { return "UPDATE_LINK_FAILED" }
func (LinkDeleteRequested) EventName() string    { return "DELETE_LINK_ATTEMPT" }
func (LinkDeleteSucceeded) EventName() string    { return "DELETE_LINK_SUCCEEDED" }
func (LinkDeleteFailed) EventName() string       { return "DELETE_LINK_FAILED" }

func (s InfoPanelState) reduce(e store.Event) InfoPanelState {
	switch ev := e.(type) {
	case InfoPanelOpened:
		return InfoPanelState{SubjectScheduleID: ev.SubjectScheduleID, IsInfoPanelOpen: true}
	case InfoPanelClosed:
		return InfoPanelState{}
	}
	return s
}

func (s CommentsState) reduce(e store.Event) CommentsState {
	switch ev := e.(type) {
	case CommentsFetchRequested:
		return CommentsState{IsLoading: true}
	case CommentsFetchSucceeded:
		return CommentsState{Comments: ev.Comments}
	case CommentsFetchFailed:
		return CommentsState{Error: ev.Err}
	}
	return s
}

func (s TagsState) reduce(e store.Event) TagsState {
	switch ev := e.(type) {
	case TagsFetchRequested:
		return TagsState{IsLoading: true}
	case TagsFetchSucceeded:
		return TagsState{Tags: ev.Tags}
	case TagsFetchFailed:
		return TagsState{Error: ev.Err}
	}
	return s
}

func (s LinksState) reduce(e store.Event) LinksState {
	switch ev := e.(type) {
	case LinksFetchRequested:
		return LinksState{IsLoading: true}
	case LinksFetchSucceeded:
		return LinksState{Links: ev.Links}
	case LinksFetchFailed:
		return LinksState{Error: ev.Err}
	}
	return s
}

// PanelMutations groups the write slices of the info panel.
type PanelMutations struct {
	AddComment    MutationState `json:"addComment"`
	DeleteComment MutationState `json:"deleteComment"`
	AddTag        MutationState `json:"addTag"`
	DeleteTag     MutationState `json:"deleteTag"`
	AddLink       MutationState `json:"addLink"`
	UpdateLink    MutationState `json:"updateLink"`
	DeleteLink    MutationState `json:"deleteLink"`
}

func (m PanelMutations) reduce(e store.Event) PanelMutations {
	switch ev := e.(type) {
	case CommentAddRequested:
		m.AddComment = m.AddComment.started()
	case CommentAddSucceeded:
		m.AddComment = m.AddComment.succeeded()
	case CommentAddFailed:
		m.AddComment = m.AddComment.failed(ev.Err)
	case CommentDeleteRequested:
		m.DeleteComment = m.DeleteComment.started()
	case CommentDeleteSucceeded:
		m.DeleteComment = m.DeleteComment.succeeded()
	case CommentDeleteFailed:
		m.DeleteComment = m.DeleteComment.failed(ev.Err)
	case TagAddRequested:
		m.AddTag = m.AddTag.started()
	case TagAddSucceeded:
		m.AddTag = m.AddTag.succeeded()
	case TagAddFailed:
		m.AddTag = m.AddTag.failed(ev.Err)
	case TagDeleteRequested:
		m.DeleteTag = m.DeleteTag.started()
	case TagDeleteSucceeded:
		m.DeleteTag = m.DeleteTag.succeeded()
	case TagDeleteFailed:
		m.DeleteTag = m.DeleteTag.failed(ev.Err)
	case LinkAddRequested:
		m.AddLink = m.AddLink.started()
	case LinkAddSucceeded:
		m.AddLink = m.AddLink.succeeded()
	case LinkAddFailed:
		m.AddLink = m.AddLink.failed(ev.Err)
	case LinkUpdateRequested:
		m.UpdateLink = m.UpdateLink.started()
	case LinkUpdateSucceeded:
		m.UpdateLink = m.UpdateLink.succeeded()
	case LinkUpdateFailed:
		m.UpdateLink = m.UpdateLink.failed(ev.Err)
	case LinkDeleteRequested:
		m.DeleteLink = m.DeleteLink.started()
	case LinkDeleteSucceeded:
		m.DeleteLink = m.DeleteLink.succeeded()
	case LinkDeleteFailed:
		m.DeleteLink = m.DeleteLink.failed(ev.Err)
	}
	return m
}
