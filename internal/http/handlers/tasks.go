package handlers

import (
	"net/http"

	"taskquest/internal/domain"
	"taskquest/internal/service"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	PredefinedTaskID int64    `form:"predefined_task_id" json:"predefined_task_id" binding:"min=0"`
	TaskName         string   `form:"task_name" json:"task_name" binding:"required_without=PredefinedTaskID"`
	TaskDescription  string   `form:"task_description" json:"task_description"`
	ExpValue         int64    `form:"exp_value" json:"exp_value" binding:"min=0"`
	IsDaily          flexBool `form:"is_daily" json:"is_daily"`
	DueDate          string   `form:"due_date" json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

// GET /api/tasks?date=YYYY-MM-DD
func (h *Handler) ListTasks(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}

	tasks, err := h.Tasks.ListTasks(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	respondOK(c, http.StatusOK, gin.H{"tasks": tasks})
}

// POST /api/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req createTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	in := service.CreateTaskInput{
		Name:        req.TaskName,
		Description: req.TaskDescription,
		ExpValue:    req.ExpValue,
		IsDaily:     bool(req.IsDaily),
		DueDate:     req.DueDate,
	}
	if req.PredefinedTaskID > 0 {
		in.PredefinedTaskID = &req.PredefinedTaskID
	}

	task, err := h.Tasks.CreateTask(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"task_id": task.ID, "task": task})
}

// DELETE /api/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Tasks.DeleteTask(c.Request.Context(), id, taskID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, nil)
}

// POST /api/tasks/:id/complete
func (h *Handler) CompleteTask(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := parseID(c)
	if !ok {
		return
	}

	gained, err := h.Ledger.CompleteTask(c.Request.Context(), id, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"exp_gained": gained})
}

// POST /api/tasks/:id/toggle-daily
func (h *Handler) ToggleDaily(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}
	taskID, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		IsDaily flexBool `form:"is_daily" json:"is_daily"`
	}
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	if err := h.Tasks.ToggleDaily(c.Request.Context(), id, taskID, bool(req.IsDaily)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"is_daily": bool(req.IsDaily)})
}

// POST /api/custom-task
func (h *Handler) SubmitCustomTask(c *gin.Context) {
	id, ok := getIdentity(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req struct {
		TaskName          string `form:"task_name" json:"task_name" binding:"required"`
		SuggestedExpValue int64  `form:"suggested_exp_value" json:"suggested_exp_value" binding:"min=0"`
	}
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	tr, err := h.Tasks.SubmitTaskRequest(c.Request.Context(), id, req.TaskName, req.SuggestedExpValue)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"request_id": tr.ID})
}
