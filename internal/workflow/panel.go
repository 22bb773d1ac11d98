package workflow

import (
	"context"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/saga"
	"github.com/noah-isme/schedule-sync/internal/state"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

func (w *workflows) registerPanel(o *Orchestrator) {
	saga.TakeEvery(o, "info-panel", w.openInfoPanel)

	saga.TakeEvery(o, "comments", w.fetchComments)
	saga.TakeEvery(o, "tags", w.fetchTags)
	saga.TakeEvery(o, "links", w.fetchLinks)

	saga.TakeEvery(o, "comment-add", w.addComment)
	saga.TakeEvery(o, "comment-delete", w.deleteComment)
	saga.TakeEvery(o, "tag-add", w.addTag)
	saga.TakeEvery(o, "tag-delete", w.deleteTag)
	saga.TakeEvery(o, "link-add", w.addLink)
	saga.TakeEvery(o, "link-update", w.updateLink)
	saga.TakeEvery(o, "link-delete", w.deleteLink)
}

func (w *workflows) openInfoPanel(_ context.Context, fx *Effects, e state.InfoPanelOpened) {
	fx.Put(state.CommentsFetchRequested{SubjectScheduleID: e.SubjectScheduleID})
	fx.Put(state.TagsFetchRequested{SubjectScheduleID: e.SubjectScheduleID})
	fx.Put(state.LinksFetchRequested{SubjectScheduleID: e.SubjectScheduleID})
}

func (w *workflows) fetchComments(ctx context.Context, fx *Effects, e state.CommentsFetchRequested) {
	comments, err := w.Comments.List(ctx, e.SubjectScheduleID)
	if err != nil {
		fx.Put(state.CommentsFetchFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.CommentsFetchSucceeded{Comments: comments})
}

func (w *workflows) fetchTags(ctx context.Context, fx *Effects, e state.TagsFetchRequested) {
	tags, err := w.Tags.List(ctx, e.SubjectScheduleID)
	if err != nil {
		fx.Put(state.TagsFetchFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.TagsFetchSucceeded{Tags: tags})
}

func (w *workflows) fetchLinks(ctx context.Context, fx *Effects, e state.LinksFetchRequested) {
	links, err := w.Links.List(ctx, e.SubjectScheduleID)
	if err != nil {
		fx.Put(state.LinksFetchFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.LinksFetchSucceeded{Links: links})
}

// selectedPanel returns the subject schedule open in the info panel at the time of the call.
func selectedPanel(fx *Effects) string {
	return state.SelectedSubjectScheduleID(fx.Select())
}

func (w *workflows) addComment(ctx context.Context, fx *Effects, e state.CommentAddRequested) {
	userID := w.Session.UserID()
	if userID == "" {
		fx.Put(state.CommentAddFailed{Err: failure(fx, appErrors.Clone(appErrors.ErrNoUserID, ""))})
		return
	}
	err := w.Comments.Create(ctx, models.CreateCommentRequest{
		Text:            e.Text,
		SubjectSchedule: e.SubjectScheduleID,
		Priority:        e.Priority,
		User:            userID,
	})
	if err != nil {
		fx.Put(state.CommentAddFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.CommentAddSucceeded{})
	fx.Put(state.CommentsFetchRequested{SubjectScheduleID: selectedPanel(fx)})
}

func (w *workflows) deleteComment(ctx context.Context, fx *Effects, e state.CommentDeleteRequested) {
	if err := w.Comments.Delete(ctx, e.CommentID); err != nil {
		fx.Put(state.CommentDeleteFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.CommentDeleteSucceeded{})
	fx.Put(state.CommentsFetchRequested{SubjectScheduleID: selectedPanel(fx)})
}

func (w *workflows) addTag(ctx context.Context, fx *Effects, e state.TagAddRequested) {
	if err := w.Tags.Create(ctx, e.Text, e.SubjectScheduleID); err != nil {
		fx.Put(state.TagAddFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.TagAddSucceeded{})
	fx.Put(state.TagsFetchRequested{SubjectScheduleID: selectedPanel(fx)})
}

func (w *workflows) deleteTag(ctx context.Context, fx *Effects, e state.TagDeleteRequested) {
	if err := w.Tags.Delete(ctx, e.TagID); err != nil {
		fx.Put(state.TagDeleteFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.TagDeleteSucceeded{})
	fx.Put(state.TagsFetchRequested{SubjectScheduleID: selectedPanel(fx)})
}

func (w *workflows) addLink(ctx context.Context, fx *Effects, e state.LinkAddRequested) {
	err := w.Links.Create(ctx, models.CreateLinkRequest{
		Link:            e.Link,
		Description:     e.Description,
		SubjectSchedule: e.SubjectScheduleID,
	})
	if err != nil {
		fx.Put(state.LinkAddFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.LinkAddSucceeded{})
	fx.Put(state.LinksFetchRequested{SubjectScheduleID: selectedPanel(fx)})
}

func (w *workflows) updateLink(ctx context.Context, fx *Effects, e state.LinkUpdateRequested) {
	err := w.Links.Update(ctx, e.LinkID, models.UpdateLinkRequest{Link: e.Link, Description: e.Description})
	if err != nil {
		fx.Put(state.LinkUpdateFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.LinkUpdateSucceeded{})
	fx.Put(state.LinksFetchRequested{SubjectScheduleID: e.SubjectScheduleID})
}

func (w *workflows) deleteLink(ctx context.Context, fx *Effects, e state.LinkDeleteRequested) {
	if err := w.Links.Delete(ctx, e.LinkID); err != nil {
		fx.Put(state.LinkDeleteFailed{Err: failure(fx, err)})
		return
	}
	fx.Put(state.LinkDeleteSucceeded{})
	fx.Put(state.LinksFetchRequested{SubjectScheduleID: selectedPanel(fx)})
}
