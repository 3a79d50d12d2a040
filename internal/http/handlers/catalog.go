package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/predefined-tasks
func (h *Handler) PredefinedTasks(c *gin.Context) {
	grouped, err := h.Catalog.Grouped(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"predefined_tasks": grouped})
}

// GET /setup/predefined-tasks
func (h *Handler) SetupPredefinedTasks(c *gin.Context) {
	added, err := h.Catalog.Seed(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"tasks_added": added})
}
