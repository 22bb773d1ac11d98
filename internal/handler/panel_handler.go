package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-sync/internal/dto"
	"github.com/noah-isme/schedule-sync/internal/state"
)

// PanelHandler drives the info panel and its comments, tags and links.
type PanelHandler struct {
	*Bridge
}

// NewPanelHandler constructs handler.
func NewPanelHandler(b *Bridge) *PanelHandler {
	return &PanelHandler{Bridge: b}
}

// Open godoc
// @Summary Open the info panel
// @Description Selects a subject schedule entry and loads its comments, tags and links.
// @Tags Panel
// @Produce json
// @Param id path string true "Subject schedule ID"
// @Param wait query bool false "Wait for the workflows to settle"
// @Success 202 {object} response.Envelope
// @Router /panel/{id} [post]
func (h *PanelHandler) Open(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	h.trigger(c, state.InfoPanelOpened{SubjectScheduleID: id})
}

// Close godoc
// @Summary Close the info panel
// @Tags Panel
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /panel [delete]
func (h *PanelHandler) Close(c *gin.Context) {
	h.trigger(c, state.InfoPanelClosed{})
}

// AddComment godoc
// @Summary Add a comment
// @Tags Panel
// @Accept json
// @Produce json
// @Param payload body dto.AddCommentRequest true "Comment payload"
// @Param wait query bool false "Wait for the workflows to settle"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /comments [post]
func (h *PanelHandler) AddComment(c *gin.Context) {
	var req dto.AddCommentRequest
	if !h.bindJSON(c, &req, "invalid comment payload") {
		return
	}
	h.trigger(c, state.CommentAddRequested{Text: req.Text, SubjectScheduleID: req.SubjectScheduleID, Priority: req.Priority})
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags Panel
// @Produce json
// @Param id path string true "Comment ID"
// @Success 202 {object} response.Envelope
// @Router /comments/{id} [delete]
func (h *PanelHandler) DeleteComment(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	h.trigger(c, state.CommentDeleteRequested{CommentID: id})
}

// AddTag godoc
// @Summary Add a tag
// @Tags Panel
// @Accept json
// @Produce json
// @Param payload body dto.AddTagRequest true "Tag payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tags [post]
func (h *PanelHandler) AddTag(c *gin.Context) {
	var req dto.AddTagRequest
	if !h.bindJSON(c, &req, "invalid tag payload") {
		return
	}
	h.trigger(c, state.TagAddRequested{Text: req.Text, SubjectScheduleID: req.SubjectScheduleID})
}

// DeleteTag godoc
// @Summary Delete a tag
// @Tags Panel
// @Produce json
// @Param id path string true "Tag ID"
// @Success 202 {object} response.Envelope
// @Router /tags/{id} [delete]
func (h *PanelHandler) DeleteTag(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	h.trigger(c, state.TagDeleteRequested{TagID: id})
}

// AddLink godoc
// @Summary Add a link
// @Tags Panel
// @Accept json
// @Produce json
// @Param payload body dto.AddLinkRequest true "Link payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /links [post]
func (h *PanelHandler) AddLink(c *gin.Context) {
	var req dto.AddLinkRequest
	if !h.bindJSON(c, &req, "invalid link payload") {
		return
	}
	h.trigger(c, state.LinkAddRequested{Link: req.Link, Description: req.Description, SubjectScheduleID: req.SubjectScheduleID})
}

// UpdateLink godoc
// @Summary Update a link
// @Tags Panel
// @Accept json
// @Produce json
// @Param id path string true "Link ID"
// @Param payload body dto.UpdateLinkRequest true "Link patch"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /links/{id} [patch]
func (h *PanelHandler) UpdateLink(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLinkRequest
	if !h.bindJSON(c, &req, "invalid link payload") {
		return
	}
	h.trigger(c, state.LinkUpdateRequested{
		LinkID:            id,
		SubjectScheduleID: req.SubjectScheduleID,
		Link:              req.Link,
		Description:       req.Description,
	})
}

// DeleteLink godoc
// @Summary Delete a link
// @Tags Panel
// @Produce json
// @Param id path string true "Link ID"
// @Success 202 {object} response.Envelope
// @Router /links/{id} [delete]
func (h *PanelHandler) DeleteLink(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	h.trigger(c, state.LinkDeleteRequested{LinkID: id})
}
