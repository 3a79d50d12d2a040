package handlers

import (
	"net/http"
	"strconv"

	"taskquest/internal/domain"

	"github.com/gin-gonic/gin"
)

// GET /api/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}

	d, err := h.Dashboard.Load(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"user":             d.User,
		"tasks":            d.Tasks,
		"predefined_tasks": d.PredefinedTasks,
		"settings":         d.Settings,
	})
}

// GET /api/me/records?limit=N
func (h *Handler) MyRecords(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.Ledger.History(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []*domain.DailyRecord{}
	}

	respondOK(c, http.StatusOK, gin.H{"records": records})
}

// GET /api/me/ledger
func (h *Handler) MyLedger(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}

	bal, err := h.Ledger.Reconcile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"ledger": bal})
}
