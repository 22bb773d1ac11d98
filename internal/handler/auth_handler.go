package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/state"
	"github.com/noah-isme/schedule-sync/pkg/response"
)

// AuthHandler drives the login, registration, logout and profile slices.
type AuthHandler struct {
	*Bridge
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(b *Bridge) *AuthHandler {
	return &AuthHandler{Bridge: b}
}

// Login godoc
// @Summary Sign in
// @Description Starts the login workflow. The outcome lands in the login slice.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Param wait query bool false "Wait for the workflow to settle"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.bindJSON(c, &req, "invalid login payload") {
		return
	}
	h.trigger(c, state.LoginRequested{Email: req.Email, Password: req.Password})
}

// Register godoc
// @Summary Create an account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Param wait query bool false "Wait for the workflow to settle"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.bindJSON(c, &req, "invalid registration payload") {
		return
	}
	h.trigger(c, state.RegisterRequested{Email: req.Email, Password: req.Password, Name: req.Name})
}

// Logout godoc
// @Summary Sign out
// @Description A newer logout supersedes one still in flight.
// @Tags Authentication
// @Produce json
// @Param wait query bool false "Wait for the workflow to settle"
// @Success 202 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.trigger(c, state.LogoutRequested{})
}

// Profile godoc
// @Summary Current profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	snapshot, version := h.store.Snapshot()
	response.JSON(c, http.StatusOK, snapshot.Profile, h.meta(c, version, false))
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Sends the patch for the signed-in user and refetches the profile.
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body models.ProfileUpdate true "Profile patch"
// @Param wait query bool false "Wait for the workflow to settle"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if !h.bindJSON(c, &req, "invalid profile payload") {
		return
	}
	h.trigger(c, state.ProfileUpdateRequested{Update: req})
}
