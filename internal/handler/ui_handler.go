package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-sync/internal/state"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
	"github.com/noah-isme/schedule-sync/pkg/response"
)

// UIHandler drives the menu and theme slices.
type UIHandler struct {
	*Bridge
}

// NewUIHandler constructs handler.
func NewUIHandler(b *Bridge) *UIHandler {
	return &UIHandler{Bridge: b}
}

// SelectMenu godoc
// @Summary Switch the active menu tab
// @Tags UI
// @Produce json
// @Param tab path string true "group, teacher, session or personal"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /ui/menu/{tab} [post]
func (h *UIHandler) SelectMenu(c *gin.Context) {
	tab, ok := state.ParseMenuTab(c.Param("tab"))
	if !ok || tab == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown menu tab %q", c.Param("tab"))))
		return
	}
	h.trigger(c, state.MenuTabChanged{Tab: tab})
}

// ToggleTheme godoc
// @Summary Toggle dark theme
// @Tags UI
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /ui/theme [post]
func (h *UIHandler) ToggleTheme(c *gin.Context) {
	h.trigger(c, state.ThemeToggled{})
}
