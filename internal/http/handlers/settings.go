package handlers

import (
	"net/http"
	"strings"

	"taskquest/internal/domain"
	"taskquest/internal/service"

	"github.com/gin-gonic/gin"
)

type settingsRequest struct {
	Theme               string   `form:"theme" json:"theme"`
	NotificationEnabled flexBool `form:"notification_enabled" json:"notification_enabled"`
}

// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}

	st, err := h.Settings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"settings": st})
}

// POST /api/settings replaces both fields. As with an HTML checkbox, an
// absent notification_enabled means false.
func (h *Handler) SaveSettings(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req settingsRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	theme := strings.TrimSpace(req.Theme)
	if theme == "" {
		theme = domain.ThemeLight
	}
	notify := bool(req.NotificationEnabled)

	st, err := h.Settings.Save(c.Request.Context(), id, service.SettingsUpdate{
		Theme:               &theme,
		NotificationEnabled: &notify,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"settings": st})
}
