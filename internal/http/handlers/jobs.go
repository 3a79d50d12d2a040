package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /api/penalties
func (h *Handler) ApplyPenalties(c *gin.Context) {
	res, err := h.Jobs.Penalty.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"result": res})
}

// POST /api/daily-tasks/refresh
func (h *Handler) RefreshDailyTasks(c *gin.Context) {
	res, err := h.Jobs.Recurrence.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"result": res})
}
